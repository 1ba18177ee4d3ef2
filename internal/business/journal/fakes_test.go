package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// memVisits is an in-memory VisitStore. Set the err fields to force failures.
type memVisits struct {
	mu        sync.Mutex
	byID      map[string]model.Visit
	order     []string
	listeners []func([]model.Visit)

	createErr error
	listErr   error
}

func newMemVisits(visits ...model.Visit) *memVisits {
	m := &memVisits{byID: make(map[string]model.Visit)}
	for _, v := range visits {
		m.byID[v.ID] = v
		m.order = append(m.order, v.ID)
	}
	return m
}

func (m *memVisits) Create(_ context.Context, v model.Visit) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	m.byID[v.ID] = v
	m.order = append(m.order, v.ID)
	m.mu.Unlock()
	m.emit()
	return nil
}

func (m *memVisits) Get(_ context.Context, ownerID, id string) (model.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok || v.UserID != ownerID {
		return model.Visit{}, ErrNotFound
	}
	return v, nil
}

func (m *memVisits) List(_ context.Context, ownerID string) ([]model.Visit, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(ownerID), nil
}

func (m *memVisits) snapshot(ownerID string) []model.Visit {
	var out []model.Visit
	for _, id := range m.order {
		if v, ok := m.byID[id]; ok && (ownerID == "" || v.UserID == ownerID) {
			out = append(out, v)
		}
	}
	return out
}

func (m *memVisits) CreateCapped(_ context.Context, v model.Visit, limit int) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	if len(m.snapshot(v.UserID)) >= limit {
		m.mu.Unlock()
		return ErrVisitLimitReached
	}
	m.byID[v.ID] = v
	m.order = append(m.order, v.ID)
	m.mu.Unlock()
	m.emit()
	return nil
}

func (m *memVisits) Replace(_ context.Context, v model.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[v.ID]; !ok {
		return ErrNotFound
	}
	m.byID[v.ID] = v
	return nil
}

func (m *memVisits) UpdateNotes(_ context.Context, ownerID, id string, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok || v.UserID != ownerID {
		return ErrNotFound
	}
	v.Notes = notes
	m.byID[id] = v
	return nil
}

func (m *memVisits) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok || v.UserID != ownerID {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memVisits) Listen(ctx context.Context, _ string, fn func([]model.Visit)) *live.Subscription {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
	m.emit()
	return live.Start(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
}

func (m *memVisits) emit() {
	m.mu.Lock()
	snap := m.snapshot("")
	listeners := append([]func([]model.Visit){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

var _ VisitStore = (*memVisits)(nil)

type memWishlist struct {
	mu        sync.Mutex
	byID      map[string]model.WishlistEntry
	listeners []func([]model.WishlistEntry)

	deleteErr error
}

func newMemWishlist(entries ...model.WishlistEntry) *memWishlist {
	m := &memWishlist{byID: make(map[string]model.WishlistEntry)}
	for _, e := range entries {
		m.byID[e.ID] = e
	}
	return m
}

func (m *memWishlist) Create(_ context.Context, e model.WishlistEntry) error {
	m.mu.Lock()
	m.byID[e.ID] = e
	m.mu.Unlock()
	m.emit()
	return nil
}

func (m *memWishlist) Get(_ context.Context, ownerID, id string) (model.WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok || e.UserID != ownerID {
		return model.WishlistEntry{}, ErrNotFound
	}
	return e, nil
}

func (m *memWishlist) List(_ context.Context, ownerID string) ([]model.WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.WishlistEntry
	for _, e := range m.byID {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memWishlist) UpdateNotes(_ context.Context, ownerID, id string, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok || e.UserID != ownerID {
		return ErrNotFound
	}
	e.Notes = notes
	m.byID[id] = e
	return nil
}

func (m *memWishlist) Delete(_ context.Context, ownerID, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	e, ok := m.byID[id]
	if !ok || e.UserID != ownerID {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.byID, id)
	m.mu.Unlock()
	m.emit()
	return nil
}

func (m *memWishlist) Listen(ctx context.Context, _ string, fn func([]model.WishlistEntry)) *live.Subscription {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
	m.emit()
	return live.Start(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
}

func (m *memWishlist) emit() {
	m.mu.Lock()
	snap := make([]model.WishlistEntry, 0, len(m.byID))
	for _, e := range m.byID {
		snap = append(snap, e)
	}
	listeners := append([]func([]model.WishlistEntry){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

var _ WishlistStore = (*memWishlist)(nil)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]model.UserProfile

	getErr error
}

func newMemProfiles(profiles ...model.UserProfile) *memProfiles {
	m := &memProfiles{byID: make(map[string]model.UserProfile)}
	for _, p := range profiles {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProfiles) Get(_ context.Context, ownerID string) (model.UserProfile, error) {
	if m.getErr != nil {
		return model.UserProfile{}, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[ownerID]
	if !ok {
		return model.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) Create(_ context.Context, p model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) UpdateName(_ context.Context, ownerID string, name *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[ownerID]
	if !ok {
		return ErrNotFound
	}
	p.Name = name
	m.byID[ownerID] = p
	return nil
}

func (m *memProfiles) UpdateTier(_ context.Context, ownerID string, tier model.Tier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[ownerID]
	if !ok {
		return ErrNotFound
	}
	p.SubscriptionTier = tier
	m.byID[ownerID] = p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ownerID]; !ok {
		return ErrNotFound
	}
	delete(m.byID, ownerID)
	return nil
}

var _ ProfileStore = (*memProfiles)(nil)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(visits *memVisits, wishlist *memWishlist, profiles *memProfiles) *Service {
	svc := NewService(visits, wishlist, profiles, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return fixedNow }
	var n atomic.Int32
	svc.newID = func() string {
		return fmt.Sprintf("id-%c", 'a'+n.Add(1)-1)
	}
	svc.debounce = 10 * time.Millisecond
	return svc
}

func premiumUser(id string) model.UserProfile {
	return model.UserProfile{ID: id, Email: id + "@example.com", SubscriptionTier: model.TierPremium}
}

func freeUser(id string) model.UserProfile {
	return model.UserProfile{ID: id, Email: id + "@example.com", SubscriptionTier: model.TierFree}
}

func ptr[T any](v T) *T { return &v }
