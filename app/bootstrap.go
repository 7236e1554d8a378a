// app/bootstrap.go
package app

import (
	"context"
	"log"
	"strings"

	"toolshare/db"
	"toolshare/models"

	"github.com/google/uuid"
)

// BootstrapFirstAdmin seeds an admin account when the users table is
// empty, and logs a one-time session ID so the first admin can sign in
// before the auth service knows about them.
func BootstrapFirstAdmin(ctx context.Context, a *App, repo *db.Repo) {
	if a.Config.BootstrapEmail == "" {
		return
	}

	var n int64
	if err := a.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		log.Printf("bootstrap: count users failed: %v", err)
		return
	}
	if n > 0 {
		return
	}

	email := a.Config.BootstrapEmail
	u := models.User{
		ID:       uuid.NewString(),
		Username: email,
		Email:    email,
		Role:     models.RoleAdmin,
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		u.Username = email[:at]
	}
	if err := a.DB.WithContext(ctx).Create(&u).Error; err != nil {
		log.Printf("bootstrap: create admin failed: %v", err)
		return
	}

	sid := uuid.NewString()
	if err := a.AppSessions().Create(ctx, sid, u.ID); err != nil {
		log.Printf("bootstrap: session failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No users found, created admin %s", email)
	log.Printf("[BOOTSTRAP] One-time session cookie %s=%s", AppSessionCookie, sid)
}
