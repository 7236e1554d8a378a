package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"toolshare/models"
)

func TestSubmitBasketPartialSuccess(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "prof", models.RoleFaculty)
	borrower := seedUser(t, r, "alice", models.RoleStudent)
	bob := seedUser(t, r, "bob", models.RoleStudent)
	scope := seedItem(t, r, owner.ID, "Oscilloscope")
	meter := seedItem(t, r, owner.ID, "Multimeter")
	drill := seedItem(t, r, owner.ID, "Drill")

	// occupy the meter so item 2 of the basket conflicts
	blocker, _, err := r.CreateBooking(ctx, CreateBookingInput{
		BorrowerID: bob.ID, ItemID: meter.ID,
		Start: at(10), End: at(12), Reason: "demo",
	})
	if err != nil {
		t.Fatalf("blocker: %v", err)
	}
	if _, _, err := r.Approve(ctx, blocker.ID, Actor{ID: owner.ID}); err != nil {
		t.Fatalf("approve blocker: %v", err)
	}

	res, err := r.SubmitBasket(ctx, borrower.ID, "group project", []BasketItemInput{
		{ItemID: scope.ID, Start: at(10), End: at(12)},
		{ItemID: meter.ID, Start: at(11), End: at(13)},
		{ItemID: drill.ID, Start: at(10), End: at(12)},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if res.GroupID == 0 {
		t.Error("group id should be assigned")
	}
	if len(res.Created) != 2 || len(res.Failed) != 1 {
		t.Fatalf("created=%d failed=%d, want 2/1", len(res.Created), len(res.Failed))
	}
	if res.Failed[0].ItemID != meter.ID || res.Failed[0].Code != FailConflict {
		t.Errorf("failed = %+v, want conflict on meter", res.Failed[0])
	}

	// survivors are Pending and linked to the group
	for _, cr := range res.Created {
		br := reload(t, r, cr.RequestID)
		if br.Status != models.StatusPending {
			t.Errorf("request %d status = %s, want Pending", br.ID, br.Status)
		}
		if br.GroupID == nil || *br.GroupID != res.GroupID {
			t.Errorf("request %d not linked to group %d", br.ID, res.GroupID)
		}
	}
}

func TestSubmitBasketFailureCodes(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, r, "prof", models.RoleFaculty)
	borrower := seedUser(t, r, "alice", models.RoleStudent)
	own := seedItem(t, r, borrower.ID, "Alice's charger")
	scope := seedItem(t, r, owner.ID, "Oscilloscope")

	res, err := r.SubmitBasket(ctx, borrower.ID, "mixed bag", []BasketItemInput{
		{ItemID: scope.ID, Start: at(12), End: at(10)},                               // inverted window
		{ItemID: own.ID, Start: at(10), End: at(12)},                                 // self borrow
		{ItemID: "199e0000-0000-0000-0000-000000000000", Start: at(10), End: at(12)}, // unknown
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.AllFailed() {
		t.Fatalf("expected all failed, created=%d", len(res.Created))
	}
	wantCodes := []string{FailInvalidDateRange, FailSelfBorrow, FailItemNotFound}
	for i, f := range res.Failed {
		if f.Code != wantCodes[i] {
			t.Errorf("failed[%d].code = %s, want %s", i, f.Code, wantCodes[i])
		}
	}

	// the orphan group survives for audit
	var g models.BasketRequest
	if err := r.DB.First(&g, "id = ?", res.GroupID).Error; err != nil {
		t.Errorf("orphan group should be retained: %v", err)
	}
}

func TestSubmitBasketValidation(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	borrower := seedUser(t, r, "alice", models.RoleStudent)

	var ve *ValidationError
	if _, err := r.SubmitBasket(ctx, borrower.ID, "  ", []BasketItemInput{{ItemID: "x"}}); !errors.As(err, &ve) {
		t.Errorf("blank reason: got %v", err)
	}
	if _, err := r.SubmitBasket(ctx, borrower.ID, "reason", nil); !errors.As(err, &ve) {
		t.Errorf("empty items: got %v", err)
	}
}

func TestBatchByOwner(t *testing.T) {
	created := []BasketCreated{
		{RequestID: 1, ItemName: "A", OwnerID: "o1"},
		{RequestID: 2, ItemName: "B", OwnerID: "o2"},
		{RequestID: 3, ItemName: "C", OwnerID: "o1"},
		{RequestID: 4, ItemName: "D", OwnerID: "o1"},
		{RequestID: 5, ItemName: "E", OwnerID: "o1"},
	}
	batches := BatchByOwner(created)
	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if batches[0].OwnerID != "o1" || batches[0].Count != 4 {
		t.Errorf("first batch = %+v", batches[0])
	}
	if batches[1].OwnerID != "o2" || batches[1].Count != 1 {
		t.Errorf("second batch = %+v", batches[1])
	}

	s := batches[0].Summary()
	if !strings.HasPrefix(s, "4 item(s): A, C, D") || !strings.Contains(s, "+1 more") {
		t.Errorf("summary = %q", s)
	}
	if got := batches[1].Summary(); got != "1 item(s): B" {
		t.Errorf("summary = %q", got)
	}
}
