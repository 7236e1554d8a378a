// controllers/item_controller.go
package controllers

import (
	"net/http"
	"time"

	"toolshare/app"
	"toolshare/db"
	"toolshare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// POST /api/items（faculty/admin）
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description" binding:"required"`
		CategoryID  *uint   `json:"categoryId"`
		Serial      *string `json:"serial"`
		ImageURL    *string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     app.Actor(c).ID,
		CategoryID:  in.CategoryID,
		Serial:      in.Serial,
		ImageURL:    in.ImageURL,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// GET /api/items
func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Repo.ListItems(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/availability?start=&end=
func (ic *ItemController) Availability(c *gin.Context) {
	start, err1 := time.Parse(time.RFC3339, c.Query("start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("end"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "start and end are required (RFC3339)"})
		return
	}
	items, err := ic.Repo.ListAvailableItems(c.Request.Context(), start, end)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// PUT /api/items/:id（owner 或 admin）
func (ic *ItemController) UpdateItem(c *gin.Context) {
	itemID := c.Param("id")
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		CategoryID  *uint  `json:"categoryId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Repo.UpdateItem(c.Request.Context(), itemID, app.Actor(c), db.UpdateItemInput{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DELETE /api/items/:id（owner 或 admin）
func (ic *ItemController) DeleteItem(c *gin.Context) {
	if err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id"), app.Actor(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/owner/items（下拉选项）
func (ic *ItemController) OwnerItems(c *gin.Context) {
	items, err := ic.Repo.ListOwnerItems(c.Request.Context(), app.Actor(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/categories
func (ic *ItemController) ListCategories(c *gin.Context) {
	cs, err := ic.Repo.ListCategories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cs})
}

// POST /api/categories（faculty/admin）
func (ic *ItemController) CreateCategory(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	cat := &models.Category{Name: in.Name, Description: in.Description}
	if err := ic.Repo.CreateCategory(c.Request.Context(), cat); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}
