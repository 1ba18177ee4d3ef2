package journal

import (
	"context"
	"fmt"
	"slices"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/geo"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/util"
)

// WishlistDraft is the user-editable part of a wishlist entry.
type WishlistDraft struct {
	ShopName  string
	Address   string
	Latitude  float64
	Longitude float64
	Notes     *string
}

// WishlistItem is a wishlist entry with an optional distance label relative
// to the caller's location.
type WishlistItem struct {
	model.WishlistEntry
	Distance *string `json:"distance,omitempty"`
}

// AddToWishlist stores a new wishlist entry. Premium only.
func (s *Service) AddToWishlist(ctx context.Context, ownerID string, draft WishlistDraft) (model.WishlistEntry, error) {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return model.WishlistEntry{}, err
	}

	entry := model.WishlistEntry{
		ID:        s.newID(),
		UserID:    ownerID,
		ShopName:  util.CleanField(draft.ShopName),
		Address:   util.CleanField(draft.Address),
		Latitude:  draft.Latitude,
		Longitude: draft.Longitude,
		Notes:     util.CleanNotes(draft.Notes),
		DateAdded: s.now(),
	}
	if err := validateWishlistEntry(entry); err != nil {
		return model.WishlistEntry{}, err
	}
	if err := s.wishlist.Create(ctx, entry); err != nil {
		return model.WishlistEntry{}, fmt.Errorf("create wishlist entry: %w", err)
	}
	s.logger.InfoContext(ctx, "wishlist entry added", "owner_id", ownerID, "entry_id", entry.ID, "shop", entry.ShopName)
	return entry, nil
}

func (s *Service) WishlistEntry(ctx context.Context, ownerID, id string) (model.WishlistEntry, error) {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return model.WishlistEntry{}, err
	}
	entry, err := s.wishlist.Get(ctx, ownerID, id)
	if err != nil {
		return model.WishlistEntry{}, fmt.Errorf("get wishlist entry: %w", err)
	}
	return entry, nil
}

func (s *Service) UpdateWishlistNotes(ctx context.Context, ownerID, id string, notes *string) error {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return err
	}
	if err := s.wishlist.UpdateNotes(ctx, ownerID, id, util.CleanNotes(notes)); err != nil {
		return fmt.Errorf("update wishlist notes: %w", err)
	}
	return nil
}

func (s *Service) DeleteWishlistEntry(ctx context.Context, ownerID, id string) error {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return err
	}
	if err := s.wishlist.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete wishlist entry: %w", err)
	}
	return nil
}

// ListWishlist returns the wishlist newest first. When from is set every
// item carries a distance label measured from that point.
func (s *Service) ListWishlist(ctx context.Context, ownerID string, from *model.Coordinate) ([]WishlistItem, error) {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return nil, err
	}
	if from != nil && !from.Valid() {
		return nil, invalid("coordinates out of range")
	}

	entries, err := s.wishlist.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	slices.SortStableFunc(entries, func(a, b model.WishlistEntry) int {
		return b.DateAdded.Compare(a.DateAdded)
	})

	items := make([]WishlistItem, 0, len(entries))
	for _, e := range entries {
		item := WishlistItem{WishlistEntry: e}
		if from != nil {
			label, err := geo.FormatDistance(geo.DistanceMeters(*from, e.Coordinate()))
			if err != nil {
				return nil, fmt.Errorf("format distance for %s: %w", e.ID, err)
			}
			item.Distance = &label
		}
		items = append(items, item)
	}
	return items, nil
}

// ConvertWishlistEntry logs a visit for a wishlist shop and then removes the
// entry. A blank shop name or address and an unset location are filled from
// the entry. The two writes are not
// atomic: if the removal fails the visit is kept and a
// *PartialConversionError carrying it is returned.
func (s *Service) ConvertWishlistEntry(ctx context.Context, ownerID, entryID string, draft VisitDraft) (model.Visit, error) {
	if err := s.requirePremium(ctx, ownerID); err != nil {
		return model.Visit{}, err
	}
	entry, err := s.wishlist.Get(ctx, ownerID, entryID)
	if err != nil {
		return model.Visit{}, fmt.Errorf("get wishlist entry: %w", err)
	}

	if util.CleanField(draft.ShopName) == "" {
		draft.ShopName = entry.ShopName
	}
	if util.CleanField(draft.Address) == "" {
		draft.Address = entry.Address
	}
	if !draft.LocationSet {
		draft.Latitude, draft.Longitude = entry.Latitude, entry.Longitude
		draft.LocationSet = true
	}

	visit, err := s.LogVisit(ctx, ownerID, draft)
	if err != nil {
		return model.Visit{}, err
	}

	if err := s.wishlist.Delete(ctx, ownerID, entryID); err != nil {
		s.logger.WarnContext(ctx, "wishlist entry kept after conversion",
			"owner_id", ownerID, "entry_id", entryID, "visit_id", visit.ID, "error", err)
		return visit, &PartialConversionError{Visit: visit, EntryID: entryID, Err: err}
	}
	s.logger.InfoContext(ctx, "wishlist entry converted", "owner_id", ownerID, "entry_id", entryID, "visit_id", visit.ID)
	return visit, nil
}
