package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// mockJournal is a test double for Journal.
// Set only the method fields your test needs.
type mockJournal struct {
	profile              func(ctx context.Context, ownerID, email string) (model.UserProfile, error)
	updateDisplayName    func(ctx context.Context, ownerID, name string) error
	setTier              func(ctx context.Context, ownerID string, tier model.Tier) error
	deleteProfile        func(ctx context.Context, ownerID string) error
	logVisit             func(ctx context.Context, ownerID string, draft journal.VisitDraft) (model.Visit, error)
	updateVisit          func(ctx context.Context, ownerID, id string, draft journal.VisitDraft) (model.Visit, error)
	updateVisitNotes     func(ctx context.Context, ownerID, id string, notes *string) error
	deleteVisit          func(ctx context.Context, ownerID, id string) error
	visit                func(ctx context.Context, ownerID, id string) (model.Visit, error)
	listVisits           func(ctx context.Context, ownerID, query string, opt journal.SortOption) ([]model.Visit, error)
	addToWishlist        func(ctx context.Context, ownerID string, draft journal.WishlistDraft) (model.WishlistEntry, error)
	wishlistEntry        func(ctx context.Context, ownerID, id string) (model.WishlistEntry, error)
	updateWishlistNotes  func(ctx context.Context, ownerID, id string, notes *string) error
	deleteWishlistEntry  func(ctx context.Context, ownerID, id string) error
	listWishlist         func(ctx context.Context, ownerID string, from *model.Coordinate) ([]journal.WishlistItem, error)
	convertWishlistEntry func(ctx context.Context, ownerID, entryID string, draft journal.VisitDraft) (model.Visit, error)
	statistics           func(ctx context.Context, ownerID string) (model.Statistics, error)
	mapView              func(ctx context.Context, ownerID string, showVisits, showWishlist bool) (journal.MapView, error)
	watchVisits          func(ctx context.Context, ownerID, query string, opt journal.SortOption, fn func([]model.Visit)) *live.Subscription
	watchStatistics      func(ctx context.Context, ownerID string, fn func(model.Statistics)) *live.Subscription
}

func (m *mockJournal) Profile(ctx context.Context, ownerID, email string) (model.UserProfile, error) {
	return m.profile(ctx, ownerID, email)
}
func (m *mockJournal) UpdateDisplayName(ctx context.Context, ownerID, name string) error {
	return m.updateDisplayName(ctx, ownerID, name)
}
func (m *mockJournal) SetTier(ctx context.Context, ownerID string, tier model.Tier) error {
	return m.setTier(ctx, ownerID, tier)
}
func (m *mockJournal) DeleteProfile(ctx context.Context, ownerID string) error {
	return m.deleteProfile(ctx, ownerID)
}
func (m *mockJournal) LogVisit(ctx context.Context, ownerID string, draft journal.VisitDraft) (model.Visit, error) {
	return m.logVisit(ctx, ownerID, draft)
}
func (m *mockJournal) UpdateVisit(ctx context.Context, ownerID, id string, draft journal.VisitDraft) (model.Visit, error) {
	return m.updateVisit(ctx, ownerID, id, draft)
}
func (m *mockJournal) UpdateVisitNotes(ctx context.Context, ownerID, id string, notes *string) error {
	return m.updateVisitNotes(ctx, ownerID, id, notes)
}
func (m *mockJournal) DeleteVisit(ctx context.Context, ownerID, id string) error {
	return m.deleteVisit(ctx, ownerID, id)
}
func (m *mockJournal) Visit(ctx context.Context, ownerID, id string) (model.Visit, error) {
	return m.visit(ctx, ownerID, id)
}
func (m *mockJournal) ListVisits(ctx context.Context, ownerID, query string, opt journal.SortOption) ([]model.Visit, error) {
	return m.listVisits(ctx, ownerID, query, opt)
}
func (m *mockJournal) AddToWishlist(ctx context.Context, ownerID string, draft journal.WishlistDraft) (model.WishlistEntry, error) {
	return m.addToWishlist(ctx, ownerID, draft)
}
func (m *mockJournal) WishlistEntry(ctx context.Context, ownerID, id string) (model.WishlistEntry, error) {
	return m.wishlistEntry(ctx, ownerID, id)
}
func (m *mockJournal) UpdateWishlistNotes(ctx context.Context, ownerID, id string, notes *string) error {
	return m.updateWishlistNotes(ctx, ownerID, id, notes)
}
func (m *mockJournal) DeleteWishlistEntry(ctx context.Context, ownerID, id string) error {
	return m.deleteWishlistEntry(ctx, ownerID, id)
}
func (m *mockJournal) ListWishlist(ctx context.Context, ownerID string, from *model.Coordinate) ([]journal.WishlistItem, error) {
	return m.listWishlist(ctx, ownerID, from)
}
func (m *mockJournal) ConvertWishlistEntry(ctx context.Context, ownerID, entryID string, draft journal.VisitDraft) (model.Visit, error) {
	return m.convertWishlistEntry(ctx, ownerID, entryID, draft)
}
func (m *mockJournal) Statistics(ctx context.Context, ownerID string) (model.Statistics, error) {
	return m.statistics(ctx, ownerID)
}
func (m *mockJournal) Map(ctx context.Context, ownerID string, showVisits, showWishlist bool) (journal.MapView, error) {
	return m.mapView(ctx, ownerID, showVisits, showWishlist)
}
func (m *mockJournal) WatchVisits(ctx context.Context, ownerID, query string, opt journal.SortOption, fn func([]model.Visit)) *live.Subscription {
	return m.watchVisits(ctx, ownerID, query, opt, fn)
}
func (m *mockJournal) WatchStatistics(ctx context.Context, ownerID string, fn func(model.Statistics)) *live.Subscription {
	return m.watchStatistics(ctx, ownerID, fn)
}

// compile-time checks: both the mock and the real service satisfy Journal.
var (
	_ Journal = (*mockJournal)(nil)
	_ Journal = (*journal.Service)(nil)
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(svc Journal) http.Handler {
	return NewRouter(svc, Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		JWTSecret: testSecret,
		KeepAlive: time.Hour,
	})
}

func bearer(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := SignToken(testSecret, ownerID, ownerID+"@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// do sends an authenticated request as user "u1".
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", bearer(t, "u1"))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
