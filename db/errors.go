package db

import (
	"errors"
	"fmt"
	"time"

	"toolshare/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not allowed")
)

// ValidationError covers malformed input rejected before anything is
// persisted.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError means the proposed window overlaps an occupying booking
// for the same item.
type ConflictError struct {
	ItemID string
	Start  time.Time
	End    time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("item %s is already booked between %s and %s",
		e.ItemID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// TransitionError means the requested lifecycle transition is not legal
// from the booking's current status.
type TransitionError struct {
	RequestID uint
	From      models.Status
	To        models.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("request %d: cannot move to %s, current status is %s",
		e.RequestID, e.To, e.From)
}
