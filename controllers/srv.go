// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"toolshare/app"
	"toolshare/db"
	"toolshare/notify"
	"toolshare/session"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo     *db.Repo
	AppSess  *session.AppSessionStore
	Notifier notify.Notifier
	Cfg      app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:     repo,
		AppSess:  a.AppSessions(),
		Notifier: notify.NewStoreNotifier(repo, a.NATS),
		Cfg:      a.Config,
	}
}

// respondErr maps engine errors onto HTTP statuses in one place so
// every handler reports the taxonomy the same way.
func respondErr(c *gin.Context, err error) {
	var ve *db.ValidationError
	var ce *db.ConflictError
	var te *db.TransitionError
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, db.ErrForbidden):
		c.JSON(http.StatusForbidden, app.H{"error": "not allowed"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, app.H{"error": ve.Msg})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.As(err, &te):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
