package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"toolshare/models"

	"gorm.io/gorm"
)

// Categories

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cs).Error
	return cs, err
}

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return validationf("category name is required")
	}
	return r.DB.WithContext(ctx).Create(c).Error
}

// Items

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Description) == "" {
		return validationf("name and description are required")
	}
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ItemRow 列表视图：物品 + 所有者/分类名称
type ItemRow struct {
	models.Item
	OwnerName    string  `json:"ownerName"`
	CategoryName *string `json:"categoryName,omitempty"`
}

func (r *Repo) ListItems(ctx context.Context) ([]ItemRow, error) {
	var rows []ItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select("i.*, u.username AS owner_name, c.name AS category_name").
		Joins("JOIN ts_users u ON u.id = i.owner_id").
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = i.category_id").
		Order("i.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListAvailableItems returns items with no occupying booking overlapping
// [start, end). The sweep runs first so a stale CheckedOut row past its
// window counts as Overdue, not as free.
func (r *Repo) ListAvailableItems(ctx context.Context, start, end time.Time) ([]ItemRow, error) {
	if !end.After(start) {
		return nil, validationf("end must be after start")
	}
	if _, err := r.SweepOverdue(ctx); err != nil {
		return nil, err
	}

	var rows []ItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select("i.*, u.username AS owner_name, c.name AS category_name").
		Joins("JOIN ts_users u ON u.id = i.owner_id").
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = i.category_id").
		Where(`NOT EXISTS (
			SELECT 1 FROM `+models.BookingTable+` br
			WHERE br.item_id = i.id
			  AND br.status IN ?
			  AND br.requested_start < ?
			  AND br.requested_end > ?
		)`, models.OccupyingStatuses, end, start).
		Order("i.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

type UpdateItemInput struct {
	Name        string
	Description string
	CategoryID  *uint
}

func (r *Repo) UpdateItem(ctx context.Context, itemID string, actor Actor, in UpdateItemInput) (*models.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("item name is required")
	}
	it, err := r.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && it.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	if err := r.DB.WithContext(ctx).Model(it).Updates(map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"category_id": in.CategoryID,
	}).Error; err != nil {
		return nil, err
	}
	return it, nil
}

func (r *Repo) DeleteItem(ctx context.Context, itemID string, actor Actor) error {
	it, err := r.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !actor.Admin && it.OwnerID != actor.ID {
		return ErrForbidden
	}
	return r.DB.WithContext(ctx).Delete(&models.Item{}, "id = ?", itemID).Error
}

// ListOwnerItems feeds the owner's filter dropdown; admins see every item.
func (r *Repo) ListOwnerItems(ctx context.Context, actor Actor) ([]models.Item, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{}).Order("name ASC")
	if !actor.Admin {
		q = q.Where("owner_id = ?", actor.ID)
	}
	var items []models.Item
	err := q.Find(&items).Error
	return items, err
}
