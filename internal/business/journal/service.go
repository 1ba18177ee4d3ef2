package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/util"
)

// VisitStore persists visits under a user.
type VisitStore interface {
	Create(ctx context.Context, visit model.Visit) error
	// CreateCapped stores visit only while its owner has fewer than limit
	// visits, returning ErrVisitLimitReached otherwise. Check and write are
	// atomic.
	CreateCapped(ctx context.Context, visit model.Visit, limit int) error
	Get(ctx context.Context, ownerID, id string) (model.Visit, error)
	List(ctx context.Context, ownerID string) ([]model.Visit, error)
	Replace(ctx context.Context, visit model.Visit) error
	UpdateNotes(ctx context.Context, ownerID, id string, notes *string) error
	Delete(ctx context.Context, ownerID, id string) error
	Listen(ctx context.Context, ownerID string, fn func([]model.Visit)) *live.Subscription
}

// WishlistStore persists wishlist entries under a user.
type WishlistStore interface {
	Create(ctx context.Context, entry model.WishlistEntry) error
	Get(ctx context.Context, ownerID, id string) (model.WishlistEntry, error)
	List(ctx context.Context, ownerID string) ([]model.WishlistEntry, error)
	UpdateNotes(ctx context.Context, ownerID, id string, notes *string) error
	Delete(ctx context.Context, ownerID, id string) error
	Listen(ctx context.Context, ownerID string, fn func([]model.WishlistEntry)) *live.Subscription
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	Get(ctx context.Context, ownerID string) (model.UserProfile, error)
	Create(ctx context.Context, profile model.UserProfile) error
	UpdateName(ctx context.Context, ownerID string, name *string) error
	UpdateTier(ctx context.Context, ownerID string, tier model.Tier) error
	Delete(ctx context.Context, ownerID string) error
}

// Service implements the coffee journal use cases on top of the stores.
type Service struct {
	visits   VisitStore
	wishlist WishlistStore
	profiles ProfileStore
	logger   *slog.Logger

	now      func() time.Time
	newID    func() string
	debounce time.Duration
}

func NewService(visits VisitStore, wishlist WishlistStore, profiles ProfileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		visits:   visits,
		wishlist: wishlist,
		profiles: profiles,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
		debounce: live.DefaultDebounce,
	}
}

// VisitDraft is the user-editable part of a visit.
type VisitDraft struct {
	ShopName  string
	Address   string
	Latitude  float64
	Longitude float64
	// LocationSet marks Latitude and Longitude as supplied, so (0, 0) is a
	// real location. Only ConvertWishlistEntry reads it.
	LocationSet  bool
	PlaceID      *string
	ItemsOrdered []string
	Rating       float64
	Price        float64
	Notes        *string
	PhotoURL     *string
	DateVisited  time.Time
}

func (d VisitDraft) toVisit(now time.Time) model.Visit {
	date := d.DateVisited
	if date.IsZero() {
		date = now
	}
	return model.Visit{
		ShopName:     util.CleanField(d.ShopName),
		Address:      util.CleanField(d.Address),
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		PlaceID:      d.PlaceID,
		ItemsOrdered: util.CleanItems(d.ItemsOrdered),
		Rating:       d.Rating,
		Price:        d.Price,
		Notes:        util.CleanNotes(d.Notes),
		PhotoURL:     d.PhotoURL,
		DateVisited:  date,
	}
}

// Profile returns the user's profile, creating a free-tier one on first use.
func (s *Service) Profile(ctx context.Context, ownerID, email string) (model.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, ownerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}

	profile = model.UserProfile{
		ID:               ownerID,
		Email:            email,
		SubscriptionTier: model.TierFree,
		DateCreated:      s.now(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	s.logger.InfoContext(ctx, "profile created", "owner_id", ownerID)
	return profile, nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, ownerID, name string) error {
	cleaned := util.CleanField(name)
	if cleaned == "" {
		return invalid("display name is required")
	}
	if err := s.profiles.UpdateName(ctx, ownerID, &cleaned); err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

// SetTier moves the user between the free and premium tiers.
func (s *Service) SetTier(ctx context.Context, ownerID string, tier model.Tier) error {
	if err := s.profiles.UpdateTier(ctx, ownerID, tier); err != nil {
		return fmt.Errorf("update subscription tier: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription tier changed", "owner_id", ownerID, "tier", tier)
	return nil
}

func (s *Service) DeleteProfile(ctx context.Context, ownerID string) error {
	if err := s.profiles.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// tier reports the user's subscription tier. A user without a profile
// document is treated as free.
func (s *Service) tier(ctx context.Context, ownerID string) (model.Tier, error) {
	profile, err := s.profiles.Get(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return model.TierFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	if profile.SubscriptionTier == "" {
		return model.TierFree, nil
	}
	return profile.SubscriptionTier, nil
}

func (s *Service) requirePremium(ctx context.Context, ownerID string) error {
	tier, err := s.tier(ctx, ownerID)
	if err != nil {
		return err
	}
	if tier != model.TierPremium {
		return ErrPremiumRequired
	}
	return nil
}

// LogVisit validates and stores a new visit. Free accounts are limited to
// model.FreeVisitLimit visits and cannot attach photos.
func (s *Service) LogVisit(ctx context.Context, ownerID string, draft VisitDraft) (model.Visit, error) {
	now := s.now()
	visit := draft.toVisit(now)
	if err := validateVisit(visit, now); err != nil {
		return model.Visit{}, err
	}

	tier, err := s.tier(ctx, ownerID)
	if err != nil {
		return model.Visit{}, err
	}
	premium := tier == model.TierPremium
	if !premium && visit.PhotoURL != nil {
		return model.Visit{}, fmt.Errorf("attach photo: %w", ErrPremiumRequired)
	}

	visit.ID = s.newID()
	visit.UserID = ownerID
	if premium {
		err = s.visits.Create(ctx, visit)
	} else {
		err = s.visits.CreateCapped(ctx, visit, model.FreeVisitLimit)
	}
	if errors.Is(err, ErrVisitLimitReached) {
		return model.Visit{}, ErrVisitLimitReached
	}
	if err != nil {
		return model.Visit{}, fmt.Errorf("create visit: %w", err)
	}
	s.logger.InfoContext(ctx, "visit created", "owner_id", ownerID, "visit_id", visit.ID, "shop", visit.ShopName)
	return visit, nil
}

// UpdateVisit replaces every editable field of an existing visit. A draft
// without a date keeps the stored one.
func (s *Service) UpdateVisit(ctx context.Context, ownerID, id string, draft VisitDraft) (model.Visit, error) {
	existing, err := s.visits.Get(ctx, ownerID, id)
	if err != nil {
		return model.Visit{}, fmt.Errorf("get visit: %w", err)
	}

	if draft.DateVisited.IsZero() {
		draft.DateVisited = existing.DateVisited
	}
	now := s.now()
	visit := draft.toVisit(now)
	visit.ID = existing.ID
	visit.UserID = existing.UserID
	if err := validateVisit(visit, now); err != nil {
		return model.Visit{}, err
	}
	if visit.PhotoURL != nil && !equalPtr(visit.PhotoURL, existing.PhotoURL) {
		if err := s.requirePremium(ctx, ownerID); err != nil {
			return model.Visit{}, fmt.Errorf("attach photo: %w", err)
		}
	}

	if err := s.visits.Replace(ctx, visit); err != nil {
		return model.Visit{}, fmt.Errorf("replace visit: %w", err)
	}
	return visit, nil
}

// UpdateVisitNotes sets or clears the notes on a visit.
func (s *Service) UpdateVisitNotes(ctx context.Context, ownerID, id string, notes *string) error {
	if err := s.visits.UpdateNotes(ctx, ownerID, id, util.CleanNotes(notes)); err != nil {
		return fmt.Errorf("update visit notes: %w", err)
	}
	return nil
}

func (s *Service) DeleteVisit(ctx context.Context, ownerID, id string) error {
	if err := s.visits.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	s.logger.InfoContext(ctx, "visit deleted", "owner_id", ownerID, "visit_id", id)
	return nil
}

func (s *Service) Visit(ctx context.Context, ownerID, id string) (model.Visit, error) {
	visit, err := s.visits.Get(ctx, ownerID, id)
	if err != nil {
		return model.Visit{}, fmt.Errorf("get visit: %w", err)
	}
	return visit, nil
}

// ListVisits returns the user's visits filtered by query and ordered by opt.
func (s *Service) ListVisits(ctx context.Context, ownerID, query string, opt SortOption) ([]model.Visit, error) {
	visits, err := s.visits.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return FilterAndSort(visits, query, opt), nil
}

// Statistics computes the summary for the user's current data.
func (s *Service) Statistics(ctx context.Context, ownerID string) (model.Statistics, error) {
	visits, err := s.visits.List(ctx, ownerID)
	if err != nil {
		return model.Statistics{}, fmt.Errorf("list visits: %w", err)
	}
	wishlist, err := s.wishlist.List(ctx, ownerID)
	if err != nil {
		return model.Statistics{}, fmt.Errorf("list wishlist: %w", err)
	}
	return ComputeStatistics(visits, wishlist), nil
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.TrimSpace(*a) == strings.TrimSpace(*b)
}
