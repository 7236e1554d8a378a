// controllers/booking_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"toolshare/app"
	"toolshare/db"
	"toolshare/models"
	"toolshare/notify"

	"github.com/gin-gonic/gin"
)

type BookingController struct{ *Srv }

func NewBookingController(s *Srv) *BookingController { return &BookingController{Srv: s} }

func requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid request id"})
		return 0, false
	}
	return uint(id), true
}

func (bc *BookingController) borrowerName(c *gin.Context, userID string) string {
	u, err := bc.Repo.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		return "A student"
	}
	return u.DisplayName()
}

// POST /api/bookings
func (bc *BookingController) Create(c *gin.Context) {
	var in struct {
		ItemID string    `json:"itemId" binding:"required"`
		Start  time.Time `json:"requestedStart" binding:"required"`
		End    time.Time `json:"requestedEnd" binding:"required"`
		Reason string    `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := app.Actor(c)

	br, item, err := bc.Repo.CreateBooking(c.Request.Context(), db.CreateBookingInput{
		BorrowerID: actor.ID,
		ItemID:     in.ItemID,
		Start:      in.Start,
		End:        in.End,
		Reason:     in.Reason,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	bc.Notifier.Notify(c.Request.Context(), notify.Event{
		UserID:  item.OwnerID,
		Title:   "New borrow request",
		Message: fmt.Sprintf("%s requested %q.", bc.borrowerName(c, actor.ID), item.Name),
		Type:    models.NotifyRequest,
	})
	c.JSON(http.StatusCreated, br)
}

// POST /api/bookings/basket
func (bc *BookingController) SubmitBasket(c *gin.Context) {
	var in struct {
		Reason string               `json:"reason" binding:"required"`
		Items  []db.BasketItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := app.Actor(c)

	res, err := bc.Repo.SubmitBasket(c.Request.Context(), actor.ID, in.Reason, in.Items)
	if err != nil {
		respondErr(c, err)
		return
	}

	if res.AllFailed() {
		c.JSON(http.StatusConflict, app.H{
			"error":   "no items could be requested",
			"groupId": res.GroupID,
			"failed":  res.Failed,
		})
		return
	}

	// 每个 owner 只发一条汇总通知
	name := bc.borrowerName(c, actor.ID)
	for _, batch := range db.BatchByOwner(res.Created) {
		bc.Notifier.Notify(c.Request.Context(), notify.Event{
			UserID:  batch.OwnerID,
			Title:   "New basket request",
			Message: fmt.Sprintf("%s requested %s", name, batch.Summary()),
			Type:    models.NotifyRequest,
		})
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /api/requests/:id/approve
func (bc *BookingController) Approve(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	br, item, err := bc.Repo.Approve(c.Request.Context(), id, app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	bc.Notifier.Notify(c.Request.Context(), notify.Event{
		UserID:  br.BorrowerID,
		Title:   "Request approved",
		Message: fmt.Sprintf("Your request for %q was approved.", item.Name),
		Type:    models.NotifyApproved,
	})
	c.JSON(http.StatusOK, br)
}

// PUT /api/requests/:id/reject
func (bc *BookingController) Reject(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var in struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&in) // 空 note 由引擎拒绝

	br, item, err := bc.Repo.Reject(c.Request.Context(), id, app.Actor(c), in.Note)
	if err != nil {
		respondErr(c, err)
		return
	}
	bc.Notifier.Notify(c.Request.Context(), notify.Event{
		UserID:  br.BorrowerID,
		Title:   "Request rejected",
		Message: fmt.Sprintf("Your request for %q was rejected. Note: %s", item.Name, in.Note),
		Type:    models.NotifyRejected,
	})
	c.JSON(http.StatusOK, br)
}

// PUT /api/requests/:id/cancel
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	br, item, changed, err := bc.Repo.Cancel(c.Request.Context(), id, app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	// 重放已取消的请求不再通知 owner
	if changed {
		bc.Notifier.Notify(c.Request.Context(), notify.Event{
			UserID:  item.OwnerID,
			Title:   "Request cancelled",
			Message: fmt.Sprintf("A student cancelled their request for %q.", item.Name),
			Type:    models.NotifyCancelled,
		})
	}
	c.JSON(http.StatusOK, br)
}

// PUT /api/requests/:id/checkout
func (bc *BookingController) CheckOut(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	br, item, err := bc.Repo.CheckOut(c.Request.Context(), id, app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	bc.Notifier.Notify(c.Request.Context(), notify.Event{
		UserID:  br.BorrowerID,
		Title:   "Item checked out",
		Message: fmt.Sprintf("Your booking for %q has been checked out.", item.Name),
		Type:    models.NotifyCheckedOut,
	})
	c.JSON(http.StatusOK, br)
}

// PUT /api/requests/:id/return
func (bc *BookingController) Return(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	br, item, err := bc.Repo.Return(c.Request.Context(), id, app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	bc.Notifier.Notify(c.Request.Context(), notify.Event{
		UserID:  br.BorrowerID,
		Title:   "Item returned",
		Message: fmt.Sprintf("Your booking for %q has been marked returned.", item.Name),
		Type:    models.NotifyReturned,
	})
	c.JSON(http.StatusOK, br)
}

// GET /api/my-requests
func (bc *BookingController) MyRequests(c *gin.Context) {
	rows, err := bc.Repo.ListMyRequests(c.Request.Context(), app.Actor(c).ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}

// GET /api/item-requests（owner 视角；admin 看全部）
func (bc *BookingController) IncomingRequests(c *gin.Context) {
	rows, err := bc.Repo.ListIncomingRequests(c.Request.Context(), app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}

// GET /api/overdue-requests
func (bc *BookingController) Overdue(c *gin.Context) {
	rows, err := bc.Repo.ListOverdueRequests(c.Request.Context(), app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}

// GET /api/owner/booking-history?status=&item_id=&from=&to=&search=
func (bc *BookingController) History(c *gin.Context) {
	hq := db.HistoryQuery{
		Status: c.Query("status"),
		ItemID: c.Query("item_id"),
		Search: c.Query("search"),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid from date"})
			return
		}
		hq.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid to date"})
			return
		}
		hq.To = &t
	}
	rows, err := bc.Repo.BookingHistory(c.Request.Context(), app.Actor(c), hq)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}
