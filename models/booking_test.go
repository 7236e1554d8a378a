package models

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCheckedOut},
		{StatusCheckedOut, StatusReturned},
		{StatusCheckedOut, StatusOverdue},
		{StatusOverdue, StatusReturned},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to Status
	}{
		{StatusPending, StatusCheckedOut},
		{StatusPending, StatusReturned},
		{StatusApproved, StatusReturned},
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusCancelled},
		{StatusOverdue, StatusCheckedOut},
		{StatusOverdue, StatusCancelled},
		{StatusCheckedOut, StatusApproved},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminals := []Status{StatusRejected, StatusReturned, StatusCancelled}
	all := []Status{
		StatusPending, StatusApproved, StatusRejected, StatusCheckedOut,
		StatusReturned, StatusOverdue, StatusCancelled,
	}
	for _, from := range terminals {
		if !from.IsTerminal() {
			t.Errorf("%s should be terminal", from)
		}
		for _, to := range all {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal %s must not transition to %s", from, to)
			}
		}
	}
	if StatusOverdue.IsTerminal() {
		t.Error("Overdue is not terminal, Return must remain possible")
	}
}

func TestOccupyingStatuses(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusCheckedOut, StatusOverdue} {
		if !s.IsOccupying() {
			t.Errorf("%s should occupy", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusRejected, StatusReturned, StatusCancelled} {
		if s.IsOccupying() {
			t.Errorf("%s should not occupy", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Pending":    StatusPending,
		"pending":    StatusPending,
		"CHECKEDOUT": StatusCheckedOut,
		"checkedOut": StatusCheckedOut,
		"overdue":    StatusOverdue,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	if _, err := ParseStatus("Borrowed"); err == nil {
		t.Error("ParseStatus should reject unknown status")
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2025, 1, 10, h, 0, 0, 0, time.UTC)
	}
	br := &BookingRequest{RequestedStart: at(10), RequestedEnd: at(12)}

	if !br.Overlaps(at(11), at(13)) {
		t.Error("partial overlap should conflict")
	}
	if !br.Overlaps(at(9), at(11)) {
		t.Error("partial overlap should conflict")
	}
	if !br.Overlaps(at(9), at(13)) {
		t.Error("containing window should conflict")
	}
	if !br.Overlaps(at(10), at(12)) {
		t.Error("identical window should conflict")
	}
	// touching endpoints: half-open intervals do not overlap
	if br.Overlaps(at(12), at(14)) {
		t.Error("window starting at existing end must not conflict")
	}
	if br.Overlaps(at(8), at(10)) {
		t.Error("window ending at existing start must not conflict")
	}
}
