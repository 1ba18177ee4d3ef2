package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

func TestFitRegion(t *testing.T) {
	region, err := FitRegion([]model.Coordinate{
		{Latitude: 37.0, Longitude: -122.0},
		{Latitude: 38.0, Longitude: -121.0},
	})
	require.NoError(t, err)
	assert.InDelta(t, 37.5, region.CenterLatitude, 1e-9)
	assert.InDelta(t, -121.5, region.CenterLongitude, 1e-9)
	assert.InDelta(t, 1.3, region.SpanLatitude, 1e-9)
	assert.InDelta(t, 1.3, region.SpanLongitude, 1e-9)
}

func TestFitRegion_SinglePin(t *testing.T) {
	region, err := FitRegion([]model.Coordinate{{Latitude: 40.7128, Longitude: -74.0060}})
	require.NoError(t, err)
	assert.Equal(t, model.Region{CenterLatitude: 40.7128, CenterLongitude: -74.0060}, region)
}

func TestFitRegion_ContainsEveryPin(t *testing.T) {
	pins := []model.Coordinate{
		{Latitude: -33.86, Longitude: 151.2},
		{Latitude: 51.5, Longitude: -0.12},
		{Latitude: 35.68, Longitude: 139.69},
		{Latitude: 40.71, Longitude: -74.0},
	}
	region, err := FitRegion(pins)
	require.NoError(t, err)
	for _, p := range pins {
		assert.LessOrEqual(t, region.CenterLatitude-region.SpanLatitude/2, p.Latitude)
		assert.GreaterOrEqual(t, region.CenterLatitude+region.SpanLatitude/2, p.Latitude)
		assert.LessOrEqual(t, region.CenterLongitude-region.SpanLongitude/2, p.Longitude)
		assert.GreaterOrEqual(t, region.CenterLongitude+region.SpanLongitude/2, p.Longitude)
	}
}

func TestFitRegion_Empty(t *testing.T) {
	_, err := FitRegion(nil)
	assert.ErrorIs(t, err, ErrNoPins)
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "Nearby"},
		{100, "Nearby"},
		{160.0, "Nearby"},
		{804.67, "0.5 mi away"},
		{1609.34, "1 mi away"},
		{5000, "3 mi away"},
		{16093.4, "10 mi away"},
	}
	for _, tc := range cases {
		got, err := FormatDistance(tc.meters)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "meters=%v", tc.meters)
	}
}

func TestFormatDistance_Negative(t *testing.T) {
	_, err := FormatDistance(-1)
	assert.ErrorIs(t, err, ErrNegativeDistance)
}

func TestDistanceMeters(t *testing.T) {
	// San Francisco to Oakland is roughly 13 km.
	d := DistanceMeters(
		model.Coordinate{Latitude: 37.7749, Longitude: -122.4194},
		model.Coordinate{Latitude: 37.8044, Longitude: -122.2712},
	)
	assert.Greater(t, d, 12000.0)
	assert.Less(t, d, 14500.0)

	same := model.Coordinate{Latitude: 10, Longitude: 10}
	assert.InDelta(t, 0, DistanceMeters(same, same), 1e-6)
}
