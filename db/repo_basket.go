// db/repo_basket.go
package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"toolshare/models"
)

// Per-item basket failure codes.
const (
	FailInvalidDateRange = "invalid_date_range"
	FailSelfBorrow       = "self_borrow"
	FailItemNotFound     = "item_not_found"
	FailConflict         = "conflict"
)

type BasketItemInput struct {
	ItemID string    `json:"itemId"`
	Start  time.Time `json:"requestedStart"`
	End    time.Time `json:"requestedEnd"`
}

type BasketCreated struct {
	RequestID uint   `json:"requestId"`
	ItemID    string `json:"itemId"`
	ItemName  string `json:"itemName"`
	OwnerID   string `json:"-"`
}

type BasketFailure struct {
	ItemID string `json:"itemId"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

type BasketResult struct {
	GroupID uint            `json:"groupId"`
	Created []BasketCreated `json:"created"`
	Failed  []BasketFailure `json:"failed"`
}

// AllFailed reports whether no item in the basket could be created.
func (b *BasketResult) AllFailed() bool { return len(b.Created) == 0 }

// SubmitBasket creates one BasketRequest group and then processes each
// item independently, in input order. Failures never roll back earlier
// successes; each item runs in its own transaction. The group row is
// kept even when every item failed.
func (r *Repo) SubmitBasket(ctx context.Context, borrowerID, reason string, items []BasketItemInput) (*BasketResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(items) == 0 {
		return nil, validationf("reason and items[] are required")
	}
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}

	group := models.BasketRequest{BorrowerID: borrowerID, Reason: reason}
	if err := r.DB.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}

	res := &BasketResult{
		GroupID: group.ID,
		Created: []BasketCreated{},
		Failed:  []BasketFailure{},
	}
	for _, it := range items {
		if it.ItemID == "" {
			res.Failed = append(res.Failed, BasketFailure{
				ItemID: it.ItemID, Code: FailItemNotFound, Error: "item_id is required",
			})
			continue
		}

		br, item, err := r.createOne(ctx, CreateBookingInput{
			BorrowerID: borrowerID,
			ItemID:     it.ItemID,
			Start:      it.Start,
			End:        it.End,
			Reason:     reason,
		}, &group.ID)
		if err != nil {
			res.Failed = append(res.Failed, BasketFailure{
				ItemID: it.ItemID,
				Code:   basketFailCode(err),
				Error:  err.Error(),
			})
			continue
		}
		res.Created = append(res.Created, BasketCreated{
			RequestID: br.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			OwnerID:   item.OwnerID,
		})
	}
	return res, nil
}

func basketFailCode(err error) string {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		return FailItemNotFound
	case errors.As(err, &ce):
		return FailConflict
	case errors.As(err, &ve):
		if strings.Contains(ve.Msg, "own item") {
			return FailSelfBorrow
		}
		return FailInvalidDateRange
	default:
		return FailInvalidDateRange
	}
}

// OwnerBatch is the per-owner aggregation used to send one notification
// per owner instead of one per item.
type OwnerBatch struct {
	OwnerID   string
	Count     int
	ItemNames []string
}

// BatchByOwner groups created basket entries by item owner, preserving
// first-seen owner order.
func BatchByOwner(created []BasketCreated) []OwnerBatch {
	idx := map[string]int{}
	var out []OwnerBatch
	for _, c := range created {
		i, ok := idx[c.OwnerID]
		if !ok {
			idx[c.OwnerID] = len(out)
			out = append(out, OwnerBatch{OwnerID: c.OwnerID})
			i = len(out) - 1
		}
		out[i].Count++
		out[i].ItemNames = append(out[i].ItemNames, c.ItemName)
	}
	return out
}

// Summary renders "3 item(s): a, b, c +1 more" with at most three names.
func (b OwnerBatch) Summary() string {
	names := b.ItemNames
	more := ""
	if len(names) > 3 {
		more = " +" + strconv.Itoa(len(names)-3) + " more"
		names = names[:3]
	}
	return strconv.Itoa(b.Count) + " item(s): " + strings.Join(names, ", ") + more
}
