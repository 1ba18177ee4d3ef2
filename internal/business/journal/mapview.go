package journal

import (
	"context"
	"fmt"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/geo"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// MapView is the content of the map screen.
type MapView struct {
	Pins   []model.MapPin `json:"pins"`
	Region *model.Region  `json:"region"`
}

// Map builds the pins for the user's visits and/or wishlist and fits a region
// around them. Region is nil when there are no pins. Premium only.
func (s *Service) Map(ctx context.Context, ownerID string, showVisits, showWishlist bool) (MapView, error) {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return MapView{}, err
	}

	var visits []model.Visit
	var wishlist []model.WishlistEntry
	var err error
	if showVisits {
		if visits, err = s.visits.List(ctx, ownerID); err != nil {
			return MapView{}, fmt.Errorf("list visits: %w", err)
		}
	}
	if showWishlist {
		if wishlist, err = s.wishlist.List(ctx, ownerID); err != nil {
			return MapView{}, fmt.Errorf("list wishlist: %w", err)
		}
	}
	return BuildMapView(visits, wishlist)
}

// BuildMapView turns visits and wishlist entries into pins and a region.
func BuildMapView(visits []model.Visit, wishlist []model.WishlistEntry) (MapView, error) {
	view := MapView{Pins: make([]model.MapPin, 0, len(visits)+len(wishlist))}
	for _, v := range visits {
		view.Pins = append(view.Pins, model.MapPin{
			ID:         v.ID,
			Kind:       model.PinVisit,
			Title:      v.ShopName,
			Subtitle:   fmt.Sprintf("⭐ %.1f • $%.2f", v.Rating, v.Price),
			Coordinate: v.Coordinate(),
		})
	}
	for _, w := range wishlist {
		view.Pins = append(view.Pins, model.MapPin{
			ID:         w.ID,
			Kind:       model.PinWishlist,
			Title:      w.ShopName,
			Subtitle:   "Want to visit",
			Coordinate: w.Coordinate(),
		})
	}
	if len(view.Pins) == 0 {
		return view, nil
	}

	coords := make([]model.Coordinate, len(view.Pins))
	for i, p := range view.Pins {
		coords[i] = p.Coordinate
	}
	region, err := geo.FitRegion(coords)
	if err != nil {
		return MapView{}, fmt.Errorf("fit region: %w", err)
	}
	view.Region = &region
	return view, nil
}
