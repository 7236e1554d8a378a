// models/item.go
package models

import "time"

const ItemTable = "ts_items"
const CategoryTable = "ts_categories"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Item is a lendable physical object registered by a faculty/admin owner.
type Item struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description string  `gorm:"size:2000;not null" json:"description"`
	OwnerID     string  `gorm:"type:uuid;index;not null" json:"ownerId"`
	CategoryID  *uint   `gorm:"index" json:"categoryId,omitempty"`
	Serial      *string `gorm:"size:120;uniqueIndex" json:"serial,omitempty"`
	ImageURL    *string `gorm:"size:500" json:"imageUrl,omitempty"` // stored by the upload service, opaque here

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
func (Category) TableName() string { return CategoryTable }
