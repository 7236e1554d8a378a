// models/booking.go
package models

import (
	"fmt"
	"strings"
	"time"
)

const BookingTable = "ts_borrow_requests"
const BasketTable = "ts_request_groups"

// Status is the closed set of lifecycle states for a BookingRequest.
// External input is normalized once via ParseStatus; everything past the
// edge compares these constants only.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
	StatusCheckedOut Status = "CheckedOut"
	StatusReturned   Status = "Returned"
	StatusOverdue    Status = "Overdue"
	StatusCancelled  Status = "Cancelled"
)

// transitions is the lifecycle state machine. A status mapping to an
// empty list is terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusCheckedOut},
	StatusCheckedOut: {StatusReturned, StatusOverdue},
	StatusOverdue:    {StatusReturned},
	StatusRejected:   {},
	StatusReturned:   {},
	StatusCancelled:  {},
}

// OccupyingStatuses are the states that hold the item for their time
// window and therefore count in conflict checks.
var OccupyingStatuses = []Status{StatusApproved, StatusCheckedOut, StatusOverdue}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool { return len(transitions[s]) == 0 && s.Valid() }

func (s Status) IsOccupying() bool {
	return s == StatusApproved || s == StatusCheckedOut || s == StatusOverdue
}

func (s Status) String() string { return string(s) }

// ParseStatus normalizes external input ("checkedout", "Approved", ...)
// to a Status, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	for st := range transitions {
		if strings.EqualFold(raw, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// BookingRequest is a borrower's request to hold an item for the
// half-open window [RequestedStart, RequestedEnd).
type BookingRequest struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ItemID     string `gorm:"type:uuid;index:idx_booking_scan,priority:1;not null" json:"itemId"`
	BorrowerID string `gorm:"type:uuid;index;not null" json:"borrowerId"`

	RequestedStart time.Time `gorm:"index:idx_booking_scan,priority:3;not null" json:"requestedStart"`
	RequestedEnd   time.Time `gorm:"index:idx_booking_scan,priority:4;not null" json:"requestedEnd"`

	Reason        string  `gorm:"size:1000;not null" json:"reason"`
	Status        Status  `gorm:"size:20;index:idx_booking_scan,priority:2;not null;default:'Pending'" json:"status"`
	RejectionNote *string `gorm:"size:500" json:"rejectionNote,omitempty"`

	GroupID *uint `gorm:"index" json:"groupId,omitempty"`

	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BookingRequest) TableName() string { return BookingTable }

// Overlaps reports whether the request's window overlaps [start, end).
// Touching endpoints do not overlap.
func (b *BookingRequest) Overlaps(start, end time.Time) bool {
	return b.RequestedStart.Before(end) && b.RequestedEnd.After(start)
}

// BasketRequest groups the BookingRequests of one multi-item submission.
// It carries no lifecycle of its own; children are independent. Retained
// even when every child failed, for audit.
type BasketRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BorrowerID string    `gorm:"type:uuid;index;not null" json:"borrowerId"`
	Reason     string    `gorm:"size:1000;not null" json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (BasketRequest) TableName() string { return BasketTable }
