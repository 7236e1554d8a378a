package app

import (
	"net/http"

	"toolshare/db"
	"toolshare/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie against Redis, confirms the
// user still exists, and puts userID/role into the context. Sessions
// are issued by the auth service; this middleware only consumes them.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("userID", u.ID)
		c.Set("username", u.Username)
		c.Set("role", u.Role)
		c.Set("isAdmin", u.IsAdmin())
		c.Set("isStaff", u.IsStaff())

		c.Next()
	}
}

// Actor pulls the resolved identity out of the request context.
func Actor(c *gin.Context) db.Actor {
	uid, _ := c.Get("userID")
	admin, _ := c.Get("isAdmin")
	id, _ := uid.(string)
	isAdmin, _ := admin.(bool)
	return db.Actor{ID: id, Admin: isAdmin}
}

func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("isStaff"); !ok || v != true {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("isAdmin"); !ok || v != true {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
