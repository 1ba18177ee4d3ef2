package journal

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// SortOption selects the ordering of the visits list.
type SortOption string

const (
	SortDateDescending   SortOption = "date_desc"
	SortDateAscending    SortOption = "date_asc"
	SortRatingDescending SortOption = "rating_desc"
	SortRatingAscending  SortOption = "rating_asc"
	SortNameAscending    SortOption = "name_asc"
	SortNameDescending   SortOption = "name_desc"
	SortPriceDescending  SortOption = "price_desc"
	SortPriceAscending   SortOption = "price_asc"
)

// DefaultSort is used when the caller does not choose an ordering.
const DefaultSort = SortDateDescending

var sortOptions = []SortOption{
	SortDateDescending, SortDateAscending,
	SortRatingDescending, SortRatingAscending,
	SortNameAscending, SortNameDescending,
	SortPriceDescending, SortPriceAscending,
}

// ParseSortOption maps a wire name to a SortOption. The empty string selects
// DefaultSort.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return DefaultSort, nil
	}
	opt := SortOption(strings.ToLower(s))
	if !slices.Contains(sortOptions, opt) {
		return "", invalid("unknown sort option %q", s)
	}
	return opt, nil
}

// FilterAndSort returns the visits matching query, ordered by opt. The match
// is a case-insensitive substring test against the shop name, address, each
// ordered item and the notes. An empty query keeps everything. The result is
// never nil. The input slice is not modified and equal elements keep their
// relative order.
func FilterAndSort(visits []model.Visit, query string, opt SortOption) []model.Visit {
	out := filterVisits(visits, query)
	slices.SortStableFunc(out, comparator(opt))
	return out
}

func filterVisits(visits []model.Visit, query string) []model.Visit {
	if query == "" {
		return append(make([]model.Visit, 0, len(visits)), visits...)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}

	out := make([]model.Visit, 0, len(visits))
	for _, v := range visits {
		if matches(v, contains) {
			out = append(out, v)
		}
	}
	return out
}

func matches(v model.Visit, contains func(string) bool) bool {
	if contains(v.ShopName) || contains(v.Address) {
		return true
	}
	for _, item := range v.ItemsOrdered {
		if contains(item) {
			return true
		}
	}
	return v.Notes != nil && contains(*v.Notes)
}

func comparator(opt SortOption) func(a, b model.Visit) int {
	switch opt {
	case SortDateAscending:
		return func(a, b model.Visit) int { return a.DateVisited.Compare(b.DateVisited) }
	case SortRatingDescending:
		return func(a, b model.Visit) int { return cmpFloat(b.Rating, a.Rating) }
	case SortRatingAscending:
		return func(a, b model.Visit) int { return cmpFloat(a.Rating, b.Rating) }
	case SortNameAscending:
		coll := collate.New(language.Und)
		return func(a, b model.Visit) int { return coll.CompareString(a.ShopName, b.ShopName) }
	case SortNameDescending:
		coll := collate.New(language.Und)
		return func(a, b model.Visit) int { return coll.CompareString(b.ShopName, a.ShopName) }
	case SortPriceDescending:
		return func(a, b model.Visit) int { return cmpFloat(b.Price, a.Price) }
	case SortPriceAscending:
		return func(a, b model.Visit) int { return cmpFloat(a.Price, b.Price) }
	default:
		return func(a, b model.Visit) int { return b.DateVisited.Compare(a.DateVisited) }
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
