package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrGuestNotFound    = errors.New("guest not found")
	ErrNotEventOwner    = errors.New("event belongs to another organizer")
	ErrEventNotUpcoming = errors.New("only upcoming events can be activated")

	// ErrInconsistentLedger signals that the ledger derived more attendees
	// than registered guests. The mismatch is surfaced, never papered over.
	ErrInconsistentLedger = errors.New("attendance ledger is inconsistent with the guest list")
)

// AlreadyCheckedInError is returned when a guest who is currently checked in
// presents their token for another check-in.
type AlreadyCheckedInError struct {
	GuestName     string
	LastCheckInAt time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("%s is already checked in since %s", e.GuestName, e.LastCheckInAt.Format(time.RFC3339))
}

// NotCheckedInError is returned when a check-out is attempted for a guest who
// is not currently checked in.
type NotCheckedInError struct {
	GuestName string
}

func (e *NotCheckedInError) Error() string {
	return fmt.Sprintf("%s is not checked in", e.GuestName)
}
