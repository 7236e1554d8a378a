package routes

import (
	"net/http"
	"strings"
	"time"

	"toolshare/app"
	"toolshare/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.NewUserController(s)
	itemCtl := controllers.NewItemController(s)
	bookingCtl := controllers.NewBookingController(s)
	notifCtl := controllers.NewNotificationController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	staffMW := app.StaffOnly()
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	secureCookie := strings.HasPrefix(a.Config.WebOrigin, "https://")

	// ------------------------------
	// 会话（签发由外部认证服务负责，这里只消费/注销）
	// ------------------------------
	auth := r.Group("/api", authMW, seenMW)
	{
		auth.GET("/me", uc.WhoAmI)

		auth.POST("/logout", func(c *app.Ctx) {
			if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
				_ = s.AppSess.Delete(c.Request.Context(), ck.Value)
			}
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     app.AppSessionCookie,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   secureCookie,
			})
			c.JSON(http.StatusOK, app.H{"ok": true})
		})
	}

	// ------------------------------
	// 用户管理（仅管理员）
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.PUT("/:id/role", uc.UpdateRole)
	}

	// ------------------------------
	// 物品 / 分类
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems)
		items.GET("/availability", itemCtl.Availability) // ?start=&end=
	}
	itemsStaff := r.Group("/api/items", authMW, staffMW)
	{
		itemsStaff.POST("", itemCtl.CreateItem)
		itemsStaff.PUT("/:id", itemCtl.UpdateItem)
		itemsStaff.DELETE("/:id", itemCtl.DeleteItem)
	}

	cats := r.Group("/api/categories", authMW)
	{
		cats.GET("", itemCtl.ListCategories)
		cats.POST("", staffMW, itemCtl.CreateCategory)
	}

	// ------------------------------
	// 预订生命周期
	// ------------------------------
	bookings := r.Group("/api", authMW, seenMW)
	{
		bookings.POST("/bookings", bookingCtl.Create)
		bookings.POST("/bookings/basket", bookingCtl.SubmitBasket)

		bookings.PUT("/requests/:id/approve", bookingCtl.Approve)
		bookings.PUT("/requests/:id/reject", bookingCtl.Reject)
		bookings.PUT("/requests/:id/cancel", bookingCtl.Cancel)
		bookings.PUT("/requests/:id/checkout", bookingCtl.CheckOut)
		bookings.PUT("/requests/:id/return", bookingCtl.Return)

		bookings.GET("/my-requests", bookingCtl.MyRequests)
		bookings.GET("/overdue-requests", bookingCtl.Overdue)
	}

	owner := r.Group("/api", authMW, staffMW)
	{
		owner.GET("/item-requests", bookingCtl.IncomingRequests)
		owner.GET("/owner/items", itemCtl.OwnerItems)
		owner.GET("/owner/booking-history", bookingCtl.History)
	}

	// ------------------------------
	// 通知
	// ------------------------------
	notifs := r.Group("/api/notifications", authMW)
	{
		notifs.GET("", notifCtl.List)
		notifs.PUT("/:id/read", notifCtl.MarkRead)
		notifs.PUT("/read-all", notifCtl.MarkAllRead)
	}
}
