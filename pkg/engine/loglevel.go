package engine

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the engine log verbosity, following syslog severities.
type LogLevel int

// Log levels.
const (
	LogEmergency LogLevel = iota
	LogAlert
	LogCritical
	LogError
	LogWarning
	LogNotice
	LogInfo
	LogDebug
)

var logLevelNames = [...]string{
	LogEmergency: "emergency",
	LogAlert:     "alert",
	LogCritical:  "critical",
	LogError:     "error",
	LogWarning:   "warning",
	LogNotice:    "notice",
	LogInfo:      "info",
	LogDebug:     "debug",
}

// Valid reports whether l is a known level.
func (l LogLevel) Valid() bool {
	return l >= LogEmergency && l <= LogDebug
}

func (l LogLevel) String() string {
	if l.Valid() {
		return logLevelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// SlogLevel maps l onto the closest slog level.
func (l LogLevel) SlogLevel() slog.Level {
	switch {
	case l >= LogDebug:
		return slog.LevelDebug
	case l >= LogNotice:
		return slog.LevelInfo
	case l == LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ParseLogLevel parses a level name or its numeric value. "warn" is accepted
// as an alias for "warning".
func ParseLogLevel(s string) (LogLevel, error) {
	if strings.EqualFold(s, "warn") {
		return LogWarning, nil
	}
	for i, name := range logLevelNames {
		if strings.EqualFold(name, s) {
			return LogLevel(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && LogLevel(n).Valid() {
		return LogLevel(n), nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
