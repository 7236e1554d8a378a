// db/repo_booking.go
//
// Booking engine: overdue sweep, interval conflict checks, lifecycle
// transitions, and basket submission. Every occupancy-dependent entry
// point sweeps first so stale CheckedOut rows can never read as free.
package db

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"toolshare/models"

	"gorm.io/gorm"
)

// SweepOverdue promotes every CheckedOut booking whose window has ended
// to Overdue. Idempotent; a second call right after is a no-op.
func (r *Repo) SweepOverdue(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.BookingRequest{}).
		Where("status = ? AND requested_end < ?", models.StatusCheckedOut, r.now()).
		Update("status", models.StatusOverdue)
	return res.RowsAffected, res.Error
}

// HasConflict reports whether any occupying booking for the item
// overlaps the half-open window [start, end). Touching endpoints are
// not a conflict. excludeID skips one request, for re-checks on approval.
func (r *Repo) HasConflict(ctx context.Context, itemID string, start, end time.Time, excludeID uint) (bool, error) {
	return r.hasConflict(r.DB.WithContext(ctx), itemID, start, end, excludeID)
}

func (r *Repo) hasConflict(tx *gorm.DB, itemID string, start, end time.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.BookingRequest{}).
		Where("item_id = ? AND status IN ?", itemID, models.OccupyingStatuses).
		Where("requested_start < ? AND requested_end > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

type CreateBookingInput struct {
	BorrowerID string
	ItemID     string
	Start      time.Time
	End        time.Time
	Reason     string
}

// CreateBooking validates the window, rejects self-borrow and occupying
// conflicts, and inserts a Pending request. The conflict check and the
// insert share one transaction with the item row locked, the same shape
// the approval path uses.
func (r *Repo) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.BookingRequest, *models.Item, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, err
	}
	return r.createOne(ctx, in, nil)
}

func (r *Repo) createOne(ctx context.Context, in CreateBookingInput, groupID *uint) (*models.BookingRequest, *models.Item, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, nil, validationf("reason is required")
	}
	if in.Start.IsZero() || in.End.IsZero() || !in.End.After(in.Start) {
		return nil, nil, validationf("end time must be after start time")
	}

	var booking *models.BookingRequest
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住该物品，创建与审批共用同一临界区
		if err := tx.Clauses(r.lockClauses()...).
			First(&item, "id = ?", in.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if item.OwnerID == in.BorrowerID {
			return validationf("you cannot request your own item")
		}

		conflict, err := r.hasConflict(tx, in.ItemID, in.Start, in.End, 0)
		if err != nil {
			return err
		}
		if conflict {
			return &ConflictError{ItemID: in.ItemID, Start: in.Start, End: in.End}
		}

		booking = &models.BookingRequest{
			ItemID:         in.ItemID,
			BorrowerID:     in.BorrowerID,
			RequestedStart: in.Start,
			RequestedEnd:   in.End,
			Reason:         strings.TrimSpace(in.Reason),
			Status:         models.StatusPending,
			GroupID:        groupID,
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, &item, nil
}

// lockBooking loads the request and its item under row locks, in that
// order everywhere to keep lock acquisition deadlock-free.
func (r *Repo) lockBooking(tx *gorm.DB, requestID uint) (*models.BookingRequest, *models.Item, error) {
	var br models.BookingRequest
	if err := tx.Clauses(r.lockClauses()...).
		First(&br, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var it models.Item
	if err := tx.Clauses(r.lockClauses()...).
		First(&it, "id = ?", br.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 物品被硬删，历史记录仍指向它
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return &br, &it, nil
}

func ownerOrAdmin(it *models.Item, actor Actor) bool {
	return actor.Admin || it.OwnerID == actor.ID
}

// Approve moves Pending → Approved. The overlap re-check runs inside
// the same transaction as the write, with the item row locked, so two
// concurrent approvals of overlapping requests cannot both win.
func (r *Repo) Approve(ctx context.Context, requestID uint, actor Actor) (*models.BookingRequest, *models.Item, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, err
	}

	var br *models.BookingRequest
	var it *models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		br, it, err = r.lockBooking(tx, requestID)
		if err != nil {
			return err
		}
		if !ownerOrAdmin(it, actor) {
			return ErrForbidden
		}
		if !br.Status.CanTransitionTo(models.StatusApproved) {
			return &TransitionError{RequestID: br.ID, From: br.Status, To: models.StatusApproved}
		}

		conflict, err := r.hasConflict(tx, br.ItemID, br.RequestedStart, br.RequestedEnd, br.ID)
		if err != nil {
			return err
		}
		if conflict {
			return &ConflictError{ItemID: br.ItemID, Start: br.RequestedStart, End: br.RequestedEnd}
		}

		br.Status = models.StatusApproved
		return tx.Model(br).Update("status", models.StatusApproved).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return br, it, nil
}

// Reject moves Pending → Rejected. The note is a business rule, not a
// schema constraint: required, non-blank, at most 500 chars, regardless
// of which caller reaches the engine.
func (r *Repo) Reject(ctx context.Context, requestID uint, actor Actor, note string) (*models.BookingRequest, *models.Item, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, nil, validationf("a rejection note is required")
	}
	if utf8.RuneCountInString(note) > 500 {
		return nil, nil, validationf("rejection note too long (max 500 chars)")
	}
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, err
	}

	var br *models.BookingRequest
	var it *models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		br, it, err = r.lockBooking(tx, requestID)
		if err != nil {
			return err
		}
		if !ownerOrAdmin(it, actor) {
			return ErrForbidden
		}
		if !br.Status.CanTransitionTo(models.StatusRejected) {
			return &TransitionError{RequestID: br.ID, From: br.Status, To: models.StatusRejected}
		}
		br.Status = models.StatusRejected
		br.RejectionNote = &note
		return tx.Model(br).Updates(map[string]any{
			"status":         models.StatusRejected,
			"rejection_note": note,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return br, it, nil
}

// Cancel moves Pending → Cancelled, by the borrower or an admin.
// Cancelling an already-Cancelled request is a no-op, not an error; the
// changed flag tells callers whether a transition actually happened so
// replays do not re-notify.
func (r *Repo) Cancel(ctx context.Context, requestID uint, actor Actor) (*models.BookingRequest, *models.Item, bool, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, false, err
	}

	var br *models.BookingRequest
	var it *models.Item
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		br, it, err = r.lockBooking(tx, requestID)
		if err != nil {
			return err
		}
		if !actor.Admin && br.BorrowerID != actor.ID {
			return ErrForbidden
		}
		if br.Status == models.StatusCancelled {
			return nil // 幂等：已取消直接返回
		}
		if !br.Status.CanTransitionTo(models.StatusCancelled) {
			return &TransitionError{RequestID: br.ID, From: br.Status, To: models.StatusCancelled}
		}
		br.Status = models.StatusCancelled
		changed = true
		return tx.Model(br).Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return nil, nil, false, err
	}
	return br, it, changed, nil
}

// CheckOut moves Approved → CheckedOut and stamps checked_out_at.
func (r *Repo) CheckOut(ctx context.Context, requestID uint, actor Actor) (*models.BookingRequest, *models.Item, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, err
	}

	var br *models.BookingRequest
	var it *models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		br, it, err = r.lockBooking(tx, requestID)
		if err != nil {
			return err
		}
		if !ownerOrAdmin(it, actor) {
			return ErrForbidden
		}
		if !br.Status.CanTransitionTo(models.StatusCheckedOut) {
			return &TransitionError{RequestID: br.ID, From: br.Status, To: models.StatusCheckedOut}
		}
		now := r.now()
		br.Status = models.StatusCheckedOut
		br.CheckedOutAt = &now
		return tx.Model(br).Updates(map[string]any{
			"status":         models.StatusCheckedOut,
			"checked_out_at": now,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return br, it, nil
}

// Return moves CheckedOut or Overdue → Returned and stamps returned_at.
func (r *Repo) Return(ctx context.Context, requestID uint, actor Actor) (*models.BookingRequest, *models.Item, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, nil, err
	}

	var br *models.BookingRequest
	var it *models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		br, it, err = r.lockBooking(tx, requestID)
		if err != nil {
			return err
		}
		if !ownerOrAdmin(it, actor) {
			return ErrForbidden
		}
		if !br.Status.CanTransitionTo(models.StatusReturned) {
			return &TransitionError{RequestID: br.ID, From: br.Status, To: models.StatusReturned}
		}
		now := r.now()
		br.Status = models.StatusReturned
		br.ReturnedAt = &now
		return tx.Model(br).Updates(map[string]any{
			"status":      models.StatusReturned,
			"returned_at": now,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return br, it, nil
}
