// Package notify dispatches lifecycle notifications. Delivery is
// fire-and-forget: a failed dispatch is logged and never fails the
// booking operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"toolshare/db"
	"toolshare/models"

	"github.com/nats-io/nats.go"
)

// Event is one notification to one user.
type Event struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// StoreNotifier persists events as notification rows the UI polls, and
// optionally mirrors each event onto a NATS subject for other consumers.
type StoreNotifier struct {
	repo *db.Repo
	nc   *nats.Conn // nil when NATS is not configured
}

func NewStoreNotifier(repo *db.Repo, nc *nats.Conn) *StoreNotifier {
	return &StoreNotifier{repo: repo, nc: nc}
}

const subject = "toolshare.notifications"

func (s *StoreNotifier) Notify(ctx context.Context, ev Event) {
	// 落库失败只记日志，绝不让预订事务跟着失败
	n := &models.Notification{
		UserID:  ev.UserID,
		Title:   ev.Title,
		Message: ev.Message,
		Type:    ev.Type,
	}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.repo.CreateNotification(cctx, n); err != nil {
		log.Printf("notify: store failed for user %s: %v", ev.UserID, err)
	}

	if s.nc == nil {
		return
	}
	b, _ := json.Marshal(ev)
	if err := s.nc.Publish(subject, b); err != nil {
		log.Printf("notify: nats publish failed: %v", err)
	}
}
