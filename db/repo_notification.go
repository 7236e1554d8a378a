package db

import (
	"context"

	"toolshare/models"
)

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if !models.ValidNotifyType(n.Type) {
		n.Type = models.NotifyInfo
	}
	return r.DB.WithContext(ctx).Create(n).Error
}

type NotificationsResult struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// ListNotifications returns the 20 most recent notifications for the
// user plus the total unread count.
func (r *Repo) ListNotifications(ctx context.Context, userID string) (NotificationsResult, error) {
	var out NotificationsResult
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&out.Notifications).Error; err != nil {
		return out, err
	}
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&out.UnreadCount).Error
	return out, err
}

func (r *Repo) MarkNotificationRead(ctx context.Context, userID string, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *Repo) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
}
