package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "osdpctl",
		Short: "Run and inspect OSDP sessions",
		Long: `osdpctl starts OSDP controller and peripheral sessions from YAML
configuration files, manages their secure channel keys and reads the CBOR
protocol traces they write.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newStartCmd(opts),
		newKeygenCmd(),
		newKeyCmd(),
		newTraceCmd(),
	)
	return cmd
}

// newLogger returns a text logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
