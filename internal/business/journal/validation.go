package journal

import (
	"math"
	"strings"
	"time"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

const (
	minRating = 0.5
	maxRating = 5.0
)

// ValidRating reports whether r is one of 0.5, 1.0, ... 5.0.
func ValidRating(r float64) bool {
	if r < minRating || r > maxRating {
		return false
	}
	doubled := r * 2
	return doubled == math.Trunc(doubled)
}

func validateVisit(v model.Visit, now time.Time) error {
	if strings.TrimSpace(v.ShopName) == "" {
		return invalid("shop name is required")
	}
	if strings.TrimSpace(v.Address) == "" {
		return invalid("address is required")
	}
	if !v.Coordinate().Valid() {
		return invalid("coordinates out of range")
	}
	if len(v.ItemsOrdered) == 0 {
		return invalid("at least one item ordered is required")
	}
	if !ValidRating(v.Rating) {
		return invalid("rating must be between 0.5 and 5.0 in half steps")
	}
	if v.Price < 0 || math.IsNaN(v.Price) || math.IsInf(v.Price, 0) {
		return invalid("price must be zero or more")
	}
	if v.DateVisited.After(now) {
		return invalid("visit date cannot be in the future")
	}
	return nil
}

func validateWishlistEntry(w model.WishlistEntry) error {
	if strings.TrimSpace(w.ShopName) == "" {
		return invalid("shop name is required")
	}
	if strings.TrimSpace(w.Address) == "" {
		return invalid("address is required")
	}
	if !w.Coordinate().Valid() {
		return invalid("coordinates out of range")
	}
	return nil
}
