// Package geo holds the map math used by the journal: fitting a viewport
// around a set of pins and rendering distances for the wishlist.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

const (
	// MetersPerMile is the conversion used by FormatDistance.
	MetersPerMile = 1609.34

	// RegionPadding widens a fitted region so edge pins are not clipped.
	RegionPadding = 1.3

	earthRadiusMeters = 6371000.0
)

var (
	ErrNoPins           = errors.New("geo: at least one pin is required")
	ErrNegativeDistance = errors.New("geo: distance must not be negative")
)

// FitRegion returns the smallest padded viewport covering every pin. The
// center is the midpoint of the bounding box and each span is the extent
// times RegionPadding. Coincident pins yield a zero span.
func FitRegion(pins []model.Coordinate) (model.Region, error) {
	if len(pins) == 0 {
		return model.Region{}, ErrNoPins
	}

	minLat, maxLat := pins[0].Latitude, pins[0].Latitude
	minLon, maxLon := pins[0].Longitude, pins[0].Longitude
	for _, p := range pins[1:] {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
	}

	return model.Region{
		CenterLatitude:  (minLat + maxLat) / 2,
		CenterLongitude: (minLon + maxLon) / 2,
		SpanLatitude:    (maxLat - minLat) * RegionPadding,
		SpanLongitude:   (maxLon - minLon) * RegionPadding,
	}, nil
}

// FormatDistance renders a distance in meters as a short label in miles:
// "Nearby" under a tenth of a mile, one decimal under a mile, whole miles
// otherwise.
func FormatDistance(meters float64) (string, error) {
	if meters < 0 || math.IsNaN(meters) {
		return "", ErrNegativeDistance
	}
	miles := meters / MetersPerMile
	switch {
	case miles < 0.1:
		return "Nearby", nil
	case miles < 1.0:
		return fmt.Sprintf("%.1f mi away", miles), nil
	default:
		return fmt.Sprintf("%.0f mi away", miles), nil
	}
}

// DistanceMeters is the great-circle distance between two coordinates.
func DistanceMeters(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
