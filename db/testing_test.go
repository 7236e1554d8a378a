package db

import (
	"testing"
	"time"

	"toolshare/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo returns a Repo over an in-memory SQLite database with a
// settable clock. Tests advance *now instead of sleeping.
func newTestRepo(t *testing.T) (*Repo, *time.Time) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// :memory: is per-connection; pin the pool to one.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := NewRepo(gdb)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r, &now
}

func seedUser(t *testing.T, r *Repo, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@campus.test",
		Role:     role,
	}
	if err := r.DB.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedItem(t *testing.T, r *Repo, ownerID, name string) *models.Item {
	t.Helper()
	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: name + " for lab use",
		OwnerID:     ownerID,
	}
	if err := r.DB.Create(it).Error; err != nil {
		t.Fatalf("seed item %s: %v", name, err)
	}
	return it
}

func at(h int) time.Time {
	return time.Date(2025, 1, 10, h, 0, 0, 0, time.UTC)
}

func reload(t *testing.T, r *Repo, id uint) *models.BookingRequest {
	t.Helper()
	var br models.BookingRequest
	if err := r.DB.First(&br, "id = ?", id).Error; err != nil {
		t.Fatalf("reload request %d: %v", id, err)
	}
	return &br
}
