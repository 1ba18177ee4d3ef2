package journal

import (
	"context"
	"sync"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// WatchVisits delivers the filtered and sorted visits list to fn every time
// the user's visits change, after a quiet period of s.debounce. fn runs on a
// background goroutine and never concurrently with itself, and not at all
// once the subscription's Stop has returned. fn must not block indefinitely.
func (s *Service) WatchVisits(ctx context.Context, ownerID, query string, opt SortOption, fn func([]model.Visit)) *live.Subscription {
	var mu sync.Mutex
	var latest []model.Visit

	deb := live.NewDebouncer(s.debounce, func() {
		mu.Lock()
		visits := latest
		mu.Unlock()
		fn(FilterAndSort(visits, query, opt))
	})
	src := s.visits.Listen(ctx, ownerID, func(visits []model.Visit) {
		mu.Lock()
		latest = visits
		mu.Unlock()
		deb.Trigger()
	})

	return live.Start(ctx, func(ctx context.Context) error {
		return drain(ctx, src, deb)
	})
}

// WatchStatistics recomputes the statistics whenever visits or wishlist
// entries change and delivers them to fn after the debounce period.
func (s *Service) WatchStatistics(ctx context.Context, ownerID string, fn func(model.Statistics)) *live.Subscription {
	var mu sync.Mutex
	var visits []model.Visit
	var wishlist []model.WishlistEntry

	deb := live.NewDebouncer(s.debounce, func() {
		mu.Lock()
		v, w := visits, wishlist
		mu.Unlock()
		fn(ComputeStatistics(v, w))
	})
	src := live.Join(
		s.visits.Listen(ctx, ownerID, func(latest []model.Visit) {
			mu.Lock()
			visits = latest
			mu.Unlock()
			deb.Trigger()
		}),
		s.wishlist.Listen(ctx, ownerID, func(latest []model.WishlistEntry) {
			mu.Lock()
			wishlist = latest
			mu.Unlock()
			deb.Trigger()
		}),
	)

	return live.Start(ctx, func(ctx context.Context) error {
		return drain(ctx, src, deb)
	})
}

// drain waits for the feed to be cancelled or for its source to fail, then
// tears both down.
func drain(ctx context.Context, src *live.Subscription, deb *live.Debouncer) error {
	select {
	case <-ctx.Done():
	case <-src.Done():
	}
	deb.Stop()
	src.Stop()
	return src.Err()
}
