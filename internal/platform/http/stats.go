package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

func (r *Router) getStats(c *gin.Context) {
	stats, err := r.journal.Statistics(c.Request.Context(), ownerID(c))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (r *Router) getMap(c *gin.Context) {
	showVisits, err := boolQuery(c, "visits", true)
	if err != nil {
		badRequest(c, "visits must be true or false")
		return
	}
	showWishlist, err := boolQuery(c, "wishlist", true)
	if err != nil {
		badRequest(c, "wishlist must be true or false")
		return
	}
	view, err := r.journal.Map(c.Request.Context(), ownerID(c), showVisits, showWishlist)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func boolQuery(c *gin.Context, key string, defaultVal bool) (bool, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(val)
}

// streamVisits pushes the filtered visits list as server-sent events.
func (r *Router) streamVisits(c *gin.Context) {
	opt, err := journal.ParseSortOption(c.Query("sort"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	updates := make(chan []model.Visit, 1)
	sub := r.journal.WatchVisits(c.Request.Context(), ownerID(c), c.Query("q"), opt, func(v []model.Visit) {
		sendLatest(updates, v)
	})
	serveEvents(r, c, sub, "visits", updates)
}

// streamStats pushes a statistics snapshot whenever the user's data changes.
func (r *Router) streamStats(c *gin.Context) {
	updates := make(chan model.Statistics, 1)
	sub := r.journal.WatchStatistics(c.Request.Context(), ownerID(c), func(s model.Statistics) {
		sendLatest(updates, s)
	})
	serveEvents(r, c, sub, "stats", updates)
}

// sendLatest puts v on a one-slot channel, replacing any value a slow
// client has not read yet.
func sendLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func serveEvents[T any](r *Router, c *gin.Context, sub *live.Subscription, event string, updates <-chan T) {
	id := uuid.NewString()
	r.feeds.Register(id, sub)
	defer r.feeds.Stop(id)

	ctx := c.Request.Context()
	ticker := time.NewTicker(r.keepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-sub.Done():
			if err := sub.Err(); err != nil {
				r.logger.ErrorContext(ctx, "live feed failed", "event", event, "error", err)
				c.SSEvent("error", errorBody("feed_failed", "live updates stopped"))
			}
			return false
		case v := <-updates:
			c.SSEvent(event, v)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
