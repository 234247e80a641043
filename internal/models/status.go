package models

import (
	"errors"
	"fmt"
	"time"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
	StatusArchived  Status = "archived"
)

// Statuses lists every lifecycle state.
func Statuses() []Status {
	return []Status{
		StatusDraft, StatusSent, StatusPaid, StatusPending,
		StatusOverdue, StatusCancelled, StatusArchived,
	}
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusPending,
		StatusOverdue, StatusCancelled, StatusArchived:
		return true
	}
	return false
}

// ErrInvalidTransition is returned for any status change not in the
// transition table, or whose guard does not hold.
var ErrInvalidTransition = errors.New("invalid status transition")

type transitionGuard int

const (
	guardAlways transitionGuard = iota
	// guardPastDue only allows the transition once the due date has passed.
	guardPastDue
)

// transitions is the full lifecycle table. Archived is terminal; every
// transition into overdue or archived requires the due date to have
// passed.
var transitions = map[Status]map[Status]transitionGuard{
	StatusDraft: {
		StatusSent:      guardAlways,
		StatusCancelled: guardAlways,
	},
	StatusSent: {
		StatusPaid:      guardAlways,
		StatusPending:   guardAlways,
		StatusCancelled: guardAlways,
		StatusOverdue:   guardPastDue,
	},
	StatusPending: {
		StatusPaid:    guardAlways,
		StatusOverdue: guardPastDue,
	},
	StatusPaid: {
		StatusArchived: guardPastDue,
	},
	StatusCancelled: {
		StatusArchived: guardPastDue,
	},
	StatusOverdue: {
		StatusArchived: guardPastDue,
	},
}

// CanTransition reports whether moving from one status to the other is
// legal at the given time for an invoice due at dueDate.
func CanTransition(from, to Status, now, dueDate time.Time) bool {
	guard, ok := transitions[from][to]
	if !ok {
		return false
	}
	if guard == guardPastDue {
		return now.After(dueDate)
	}
	return true
}

// NextStatuses returns the states reachable from s at the given time,
// in table order.
func NextStatuses(s Status, now, dueDate time.Time) []Status {
	var next []Status
	for _, to := range Statuses() {
		if CanTransition(s, to, now, dueDate) {
			next = append(next, to)
		}
	}
	return next
}

// Transition moves the invoice to the target status, or fails with
// ErrInvalidTransition and leaves the status untouched.
func (inv *Invoice) Transition(to Status, now time.Time) error {
	if !CanTransition(inv.Status, to, now, inv.DueDate) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
	}
	inv.Status = to
	return nil
}
