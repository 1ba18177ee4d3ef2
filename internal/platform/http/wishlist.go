package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

type wishlistReq struct {
	ShopName  string   `json:"shopName" binding:"required"`
	Address   string   `json:"address" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Notes     *string  `json:"notes"`
}

// convertReq is a visitReq whose location fields may be left out and are
// then taken from the wishlist entry.
type convertReq struct {
	ShopName     string     `json:"shopName"`
	Address      string     `json:"address"`
	Latitude     *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	PlaceID      *string    `json:"placeID"`
	ItemsOrdered []string   `json:"itemsOrdered" binding:"required,min=1"`
	Rating       float64    `json:"rating" binding:"required,gte=0.5,lte=5"`
	Price        float64    `json:"price" binding:"gte=0"`
	Notes        *string    `json:"notes"`
	PhotoURL     *string    `json:"photoURL" binding:"omitempty,url"`
	DateVisited  *time.Time `json:"dateVisited"`
}

func (r *Router) listWishlist(c *gin.Context) {
	from, err := coordinateQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	items, err := r.journal.ListWishlist(c.Request.Context(), ownerID(c), from)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// coordinateQuery reads the optional lat/lng pair. Both or neither must be set.
func coordinateQuery(c *gin.Context) (*model.Coordinate, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("lng must be a number")
	}
	return &model.Coordinate{Latitude: lat, Longitude: lng}, nil
}

func (r *Router) createWishlistEntry(c *gin.Context) {
	var req wishlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	entry, err := r.journal.AddToWishlist(c.Request.Context(), ownerID(c), journal.WishlistDraft{
		ShopName:  req.ShopName,
		Address:   req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (r *Router) getWishlistEntry(c *gin.Context) {
	entry, err := r.journal.WishlistEntry(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (r *Router) updateWishlistNotes(c *gin.Context) {
	var req notesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if err := r.journal.UpdateWishlistNotes(c.Request.Context(), ownerID(c), c.Param("id"), req.Notes); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) deleteWishlistEntry(c *gin.Context) {
	if err := r.journal.DeleteWishlistEntry(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		r.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// convertWishlistEntry answers 201 with the new visit, or 207 when the visit
// was saved but the wishlist entry could not be removed.
func (r *Router) convertWishlistEntry(c *gin.Context) {
	var req convertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		badRequest(c, "latitude and longitude must be provided together")
		return
	}
	draft := visitReq{
		ShopName:     req.ShopName,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PlaceID:      req.PlaceID,
		ItemsOrdered: req.ItemsOrdered,
		Rating:       req.Rating,
		Price:        req.Price,
		Notes:        req.Notes,
		PhotoURL:     req.PhotoURL,
		DateVisited:  req.DateVisited,
	}.draft()

	visit, err := r.journal.ConvertWishlistEntry(c.Request.Context(), ownerID(c), c.Param("id"), draft)
	var partial *journal.PartialConversionError
	switch {
	case errors.As(err, &partial):
		r.logger.WarnContext(c.Request.Context(), "partial wishlist conversion", "entry_id", partial.EntryID, "error", partial.Err)
		c.JSON(http.StatusMultiStatus, gin.H{
			"visit": partial.Visit,
			"error": gin.H{"code": "wishlist_entry_not_removed", "message": "visit saved but the wishlist entry is still present"},
		})
	case err != nil:
		r.writeError(c, err)
	default:
		c.JSON(http.StatusCreated, visit)
	}
}
