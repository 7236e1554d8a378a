package models

import "time"

const NotificationTable = "ts_notifications"

// Notification event types mirror the lifecycle actions.
const (
	NotifyRequest    = "request"
	NotifyApproved   = "approved"
	NotifyRejected   = "rejected"
	NotifyCancelled  = "cancelled"
	NotifyCheckedOut = "checkedout"
	NotifyReturned   = "returned"
	NotifyOverdue    = "overdue"
	NotifyInfo       = "info"
)

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"size:1000;not null" json:"message"`
	Type    string `gorm:"size:20;not null;default:'info'" json:"type"`
	IsRead  bool   `gorm:"not null;default:false;index" json:"isRead"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Notification) TableName() string { return NotificationTable }

func ValidNotifyType(t string) bool {
	switch t {
	case NotifyRequest, NotifyApproved, NotifyRejected, NotifyCancelled,
		NotifyCheckedOut, NotifyReturned, NotifyOverdue, NotifyInfo:
		return true
	}
	return false
}
