package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
)

type visitReq struct {
	ShopName     string     `json:"shopName" binding:"required"`
	Address      string     `json:"address" binding:"required"`
	Latitude     *float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude    *float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
	PlaceID      *string    `json:"placeID"`
	ItemsOrdered []string   `json:"itemsOrdered" binding:"required,min=1"`
	Rating       float64    `json:"rating" binding:"required,gte=0.5,lte=5"`
	Price        float64    `json:"price" binding:"gte=0"`
	Notes        *string    `json:"notes"`
	PhotoURL     *string    `json:"photoURL" binding:"omitempty,url"`
	DateVisited  *time.Time `json:"dateVisited"`
}

func (req visitReq) draft() journal.VisitDraft {
	d := journal.VisitDraft{
		ShopName:     req.ShopName,
		Address:      req.Address,
		PlaceID:      req.PlaceID,
		ItemsOrdered: req.ItemsOrdered,
		Rating:       req.Rating,
		Price:        req.Price,
		Notes:        req.Notes,
		PhotoURL:     req.PhotoURL,
	}
	if req.Latitude != nil && req.Longitude != nil {
		d.Latitude, d.Longitude = *req.Latitude, *req.Longitude
		d.LocationSet = true
	}
	if req.DateVisited != nil {
		d.DateVisited = *req.DateVisited
	}
	return d
}

type notesReq struct {
	Notes *string `json:"notes"`
}

func (r *Router) listVisits(c *gin.Context) {
	opt, err := journal.ParseSortOption(c.Query("sort"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	visits, err := r.journal.ListVisits(c.Request.Context(), ownerID(c), c.Query("q"), opt)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": visits,
		"total": len(visits),
		"sort":  opt,
	})
}

func (r *Router) createVisit(c *gin.Context) {
	var req visitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	visit, err := r.journal.LogVisit(c.Request.Context(), ownerID(c), req.draft())
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, visit)
}

func (r *Router) getVisit(c *gin.Context) {
	visit, err := r.journal.Visit(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visit)
}

func (r *Router) updateVisit(c *gin.Context) {
	var req visitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	visit, err := r.journal.UpdateVisit(c.Request.Context(), ownerID(c), c.Param("id"), req.draft())
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visit)
}

func (r *Router) updateVisitNotes(c *gin.Context) {
	var req notesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if err := r.journal.UpdateVisitNotes(c.Request.Context(), ownerID(c), c.Param("id"), req.Notes); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) deleteVisit(c *gin.Context) {
	if err := r.journal.DeleteVisit(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
