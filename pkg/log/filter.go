package log

import "time"

// Filter selects trace events. A zero field matches everything.
type Filter struct {
	SessionID string
	Direction *Direction
	Category  *Category
	Role      *Role
	Address   *int

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Matches reports whether event satisfies every set criterion.
func (f Filter) Matches(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID:
		return false
	case f.Direction != nil && event.Direction != *f.Direction:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.Role != nil && event.LocalRole != *f.Role:
		return false
	case f.Address != nil && event.Address != *f.Address:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}
