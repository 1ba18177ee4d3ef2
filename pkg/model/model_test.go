package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Premium ")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, tier)

	tier, err = ParseTier("free")
	require.NoError(t, err)
	assert.Equal(t, TierFree, tier)

	_, err = ParseTier("gold")
	assert.Error(t, err)
}

func TestUserProfile_DisplayName(t *testing.T) {
	p := UserProfile{Email: "ana@example.com"}
	assert.Equal(t, "ana@example.com", p.DisplayName())

	blank := "  "
	p.Name = &blank
	assert.Equal(t, "ana@example.com", p.DisplayName())

	name := "Ana"
	p.Name = &name
	assert.Equal(t, "Ana", p.DisplayName())
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 90, Longitude: -180}.Valid())
	assert.False(t, Coordinate{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Coordinate{Latitude: 0, Longitude: 181}.Valid())
}
