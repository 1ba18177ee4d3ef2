package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// Journal is the set of use cases the HTTP layer serves.
type Journal interface {
	Profile(ctx context.Context, ownerID, email string) (model.UserProfile, error)
	UpdateDisplayName(ctx context.Context, ownerID, name string) error
	SetTier(ctx context.Context, ownerID string, tier model.Tier) error
	DeleteProfile(ctx context.Context, ownerID string) error

	LogVisit(ctx context.Context, ownerID string, draft journal.VisitDraft) (model.Visit, error)
	UpdateVisit(ctx context.Context, ownerID, id string, draft journal.VisitDraft) (model.Visit, error)
	UpdateVisitNotes(ctx context.Context, ownerID, id string, notes *string) error
	DeleteVisit(ctx context.Context, ownerID, id string) error
	Visit(ctx context.Context, ownerID, id string) (model.Visit, error)
	ListVisits(ctx context.Context, ownerID, query string, opt journal.SortOption) ([]model.Visit, error)

	AddToWishlist(ctx context.Context, ownerID string, draft journal.WishlistDraft) (model.WishlistEntry, error)
	WishlistEntry(ctx context.Context, ownerID, id string) (model.WishlistEntry, error)
	UpdateWishlistNotes(ctx context.Context, ownerID, id string, notes *string) error
	DeleteWishlistEntry(ctx context.Context, ownerID, id string) error
	ListWishlist(ctx context.Context, ownerID string, from *model.Coordinate) ([]journal.WishlistItem, error)
	ConvertWishlistEntry(ctx context.Context, ownerID, entryID string, draft journal.VisitDraft) (model.Visit, error)

	Statistics(ctx context.Context, ownerID string) (model.Statistics, error)
	Map(ctx context.Context, ownerID string, showVisits, showWishlist bool) (journal.MapView, error)

	WatchVisits(ctx context.Context, ownerID, query string, opt journal.SortOption, fn func([]model.Visit)) *live.Subscription
	WatchStatistics(ctx context.Context, ownerID string, fn func(model.Statistics)) *live.Subscription
}

// Options configures NewRouter.
type Options struct {
	Logger    *slog.Logger
	JWTSecret string
	// Feeds tracks open SSE streams so shutdown can end them. Optional.
	Feeds *live.Registry
	// KeepAlive is the interval between SSE ping events. Defaults to 25s.
	KeepAlive time.Duration
}

// Router wires HTTP handlers.
type Router struct {
	journal   Journal
	logger    *slog.Logger
	feeds     *live.Registry
	keepAlive time.Duration
}

func NewRouter(svc Journal, opts Options) *gin.Engine {
	r := &Router{
		journal:   svc,
		logger:    opts.Logger,
		feeds:     opts.Feeds,
		keepAlive: opts.KeepAlive,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.feeds == nil {
		r.feeds = live.NewRegistry()
	}
	if r.keepAlive <= 0 {
		r.keepAlive = 25 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(r.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", Authenticate(opts.JWTSecret))
	{
		api.GET("/profile", r.getProfile)
		api.PATCH("/profile", r.renameProfile)
		api.DELETE("/profile", r.deleteProfile)
		api.POST("/profile/upgrade", r.setTier(model.TierPremium))
		api.POST("/profile/downgrade", r.setTier(model.TierFree))

		api.GET("/visits", r.listVisits)
		api.POST("/visits", r.createVisit)
		api.GET("/visits/stream", r.streamVisits)
		api.GET("/visits/:id", r.getVisit)
		api.PUT("/visits/:id", r.updateVisit)
		api.PATCH("/visits/:id/notes", r.updateVisitNotes)
		api.DELETE("/visits/:id", r.deleteVisit)

		api.GET("/wishlist", r.listWishlist)
		api.POST("/wishlist", r.createWishlistEntry)
		api.GET("/wishlist/:id", r.getWishlistEntry)
		api.PATCH("/wishlist/:id/notes", r.updateWishlistNotes)
		api.DELETE("/wishlist/:id", r.deleteWishlistEntry)
		api.POST("/wishlist/:id/convert", r.convertWishlistEntry)

		api.GET("/stats", r.getStats)
		api.GET("/stats/stream", r.streamStats)
		api.GET("/map", r.getMap)
	}

	return router
}
