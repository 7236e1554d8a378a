// db/repo_booking_list.go
package db

import (
	"context"
	"strings"
	"time"

	"toolshare/models"

	"gorm.io/gorm"
)

// RequestRow 请求列表视图：请求 + 物品/用户名称
type RequestRow struct {
	ID             uint          `json:"id"`
	ItemID         string        `json:"itemId"`
	BorrowerID     string        `json:"borrowerId"`
	Status         models.Status `json:"status"`
	RequestedStart time.Time     `json:"requestedStart"`
	RequestedEnd   time.Time     `json:"requestedEnd"`
	Reason         string        `json:"reason"`
	RejectionNote  *string       `json:"rejectionNote,omitempty"`
	GroupID        *uint         `json:"groupId,omitempty"`
	CheckedOutAt   *time.Time    `json:"checkedOutAt,omitempty"`
	ReturnedAt     *time.Time    `json:"returnedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`

	ItemName     string  `json:"itemName"`
	ItemImageURL *string `json:"itemImageUrl,omitempty"`

	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`

	BorrowerName  string `json:"borrowerName"`
	BorrowerEmail string `json:"borrowerEmail,omitempty"`
}

const requestRowSelect = `
	br.id, br.item_id, br.borrower_id, br.status,
	br.requested_start, br.requested_end,
	br.reason, br.rejection_note, br.group_id,
	br.checked_out_at, br.returned_at, br.created_at,
	i.name AS item_name, i.image_url AS item_image_url,
	i.owner_id AS owner_id,
	owner.username AS owner_name,
	u.username AS borrower_name,
	u.email AS borrower_email`

func (r *Repo) requestRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.BookingTable+" br").
		Select(requestRowSelect).
		Joins("JOIN "+models.ItemTable+" i ON i.id = br.item_id").
		Joins("JOIN ts_users u ON u.id = br.borrower_id").
		Joins("JOIN ts_users owner ON owner.id = i.owner_id")
}

// ListMyRequests returns the borrower's own requests, newest first.
func (r *Repo) ListMyRequests(ctx context.Context, borrowerID string) ([]RequestRow, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}
	var rows []RequestRow
	err := r.requestRows(ctx).
		Where("br.borrower_id = ?", borrowerID).
		Order("br.created_at DESC, br.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListIncomingRequests returns requests against the items the actor
// owns; admins see every request.
func (r *Repo) ListIncomingRequests(ctx context.Context, actor Actor) ([]RequestRow, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}
	q := r.requestRows(ctx)
	if !actor.Admin {
		q = q.Where("i.owner_id = ?", actor.ID)
	}
	var rows []RequestRow
	err := q.Order("br.created_at DESC, br.id DESC").Scan(&rows).Error
	return rows, err
}

// ListOverdueRequests returns Overdue bookings, most overdue first.
func (r *Repo) ListOverdueRequests(ctx context.Context, actor Actor) ([]RequestRow, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}
	q := r.requestRows(ctx).Where("br.status = ?", models.StatusOverdue)
	if !actor.Admin {
		q = q.Where("i.owner_id = ?", actor.ID)
	}
	var rows []RequestRow
	err := q.Order("br.requested_end ASC").Scan(&rows).Error
	return rows, err
}

type HistoryQuery struct {
	Status string // one of the lifecycle states, or ""
	ItemID string
	From   *time.Time // requested_start >= From
	To     *time.Time // requested_start <= To
	Search string     // borrower username/email/student id/name
	Limit  int
}

// BookingHistory is the owner/admin audit view with filters. Faculty
// are scoped to their own items; admins see everything.
func (r *Repo) BookingHistory(ctx context.Context, actor Actor, hq HistoryQuery) ([]RequestRow, error) {
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}

	q := r.requestRows(ctx)
	if !actor.Admin {
		q = q.Where("i.owner_id = ?", actor.ID)
	}
	if hq.Status != "" {
		st, err := models.ParseStatus(hq.Status)
		if err != nil {
			return nil, validationf("invalid status filter %q", hq.Status)
		}
		q = q.Where("br.status = ?", st)
	}
	if hq.ItemID != "" {
		q = q.Where("br.item_id = ?", hq.ItemID)
	}
	if hq.From != nil {
		q = q.Where("br.requested_start >= ?", *hq.From)
	}
	if hq.To != nil {
		q = q.Where("br.requested_start <= ?", *hq.To)
	}
	if s := strings.TrimSpace(hq.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(`(
			LOWER(u.email) LIKE ? OR LOWER(u.username) LIKE ?
			OR LOWER(u.student_id) LIKE ?
			OR LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ?
		)`, like, like, like, like, like)
	}

	limit := hq.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var rows []RequestRow
	err := q.Order("br.created_at DESC, br.id DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

// FindRequestRow loads one request in the joined list shape.
func (r *Repo) FindRequestRow(ctx context.Context, requestID uint) (*RequestRow, error) {
	var row RequestRow
	res := r.requestRows(ctx).Where("br.id = ?", requestID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}
