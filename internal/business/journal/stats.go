package journal

import (
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/util"
)

// HighlyRatedThreshold is the minimum rating considered for HighestRatedShop.
const HighlyRatedThreshold = 4.5

// ComputeStatistics reduces visits and wishlist entries into a summary.
// Every scan is strict, so ties go to whichever candidate was seen first.
func ComputeStatistics(visits []model.Visit, wishlist []model.WishlistEntry) model.Statistics {
	stats := model.Statistics{
		TotalVisits:        len(visits),
		TotalWishlistItems: len(wishlist),
	}
	if len(visits) == 0 {
		return stats
	}

	var ratingSum, priceSum float64
	for _, v := range visits {
		ratingSum += v.Rating
		priceSum += v.Price
	}
	stats.AverageRating = ratingSum / float64(len(visits))
	stats.TotalSpent = priceSum
	stats.AveragePrice = priceSum / float64(len(visits))

	stats.FavoriteItem = favoriteItem(visits)
	stats.MostVisitedShop = mostVisitedShop(visits)
	stats.HighestRatedShop = highestRatedShop(visits)

	mostExpensive := visits[0]
	first := visits[0].DateVisited
	for _, v := range visits[1:] {
		if v.Price > mostExpensive.Price {
			mostExpensive = v
		}
		if v.DateVisited.Before(first) {
			first = v.DateVisited
		}
	}
	stats.MostExpensiveVisit = &mostExpensive
	stats.FirstVisitDate = &first

	return stats
}

// counter tallies keys and remembers the order they first appeared in so
// the max scan does not depend on map iteration order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) max() (string, int) {
	var best string
	var bestCount int
	for _, key := range c.order {
		if n := c.counts[key]; n > bestCount {
			best, bestCount = key, n
		}
	}
	return best, bestCount
}

func favoriteItem(visits []model.Visit) *string {
	items := newCounter()
	for _, v := range visits {
		for _, item := range v.ItemsOrdered {
			items.add(util.NormalizeItemName(item))
		}
	}
	if len(items.order) == 0 {
		return nil
	}
	best, _ := items.max()
	display := util.DisplayItemName(best)
	return &display
}

func mostVisitedShop(visits []model.Visit) *string {
	shops := newCounter()
	for _, v := range visits {
		shops.add(v.ShopName)
	}
	best, n := shops.max()
	if n <= 1 {
		return nil
	}
	return &best
}

func highestRatedShop(visits []model.Visit) *string {
	var best *model.Visit
	for i := range visits {
		v := &visits[i]
		if v.Rating < HighlyRatedThreshold {
			continue
		}
		if best == nil || v.Rating > best.Rating {
			best = v
		}
	}
	if best == nil {
		return nil
	}
	name := best.ShopName
	return &name
}
