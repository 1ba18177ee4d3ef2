package model

import (
	"fmt"
	"strings"
	"time"
)

// FreeVisitLimit caps how many visits a free-tier account may keep.
const FreeVisitLimit = 10

// Tier is the subscription level stored on a user profile.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ParseTier accepts the wire form of a tier, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", fmt.Errorf("unknown subscription tier %q", s)
}

// Visit is one logged trip to a coffee shop, stored under users/{uid}/visits.
type Visit struct {
	ID           string    `json:"id" firestore:"id"`
	UserID       string    `json:"userId" firestore:"userId"`
	ShopName     string    `json:"shopName" firestore:"shopName"`
	Address      string    `json:"address" firestore:"address"`
	Latitude     float64   `json:"latitude" firestore:"latitude"`
	Longitude    float64   `json:"longitude" firestore:"longitude"`
	PlaceID      *string   `json:"placeID,omitempty" firestore:"placeID,omitempty"`
	ItemsOrdered []string  `json:"itemsOrdered" firestore:"itemsOrdered"`
	Rating       float64   `json:"rating" firestore:"rating"`
	Price        float64   `json:"price" firestore:"price"`
	Notes        *string   `json:"notes,omitempty" firestore:"notes,omitempty"`
	PhotoURL     *string   `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	DateVisited  time.Time `json:"dateVisited" firestore:"dateVisited"`
}

// Coordinate returns the visit location.
func (v Visit) Coordinate() Coordinate {
	return Coordinate{Latitude: v.Latitude, Longitude: v.Longitude}
}

// WishlistEntry is a shop the user wants to try, stored under users/{uid}/wishlist.
type WishlistEntry struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"userId" firestore:"userId"`
	ShopName  string    `json:"shopName" firestore:"shopName"`
	Address   string    `json:"address" firestore:"address"`
	Latitude  float64   `json:"latitude" firestore:"latitude"`
	Longitude float64   `json:"longitude" firestore:"longitude"`
	Notes     *string   `json:"notes,omitempty" firestore:"notes,omitempty"`
	DateAdded time.Time `json:"dateAdded" firestore:"dateAdded"`
}

func (w WishlistEntry) Coordinate() Coordinate {
	return Coordinate{Latitude: w.Latitude, Longitude: w.Longitude}
}

// UserProfile is the users/{uid} document.
type UserProfile struct {
	ID               string    `json:"id" firestore:"id"`
	Email            string    `json:"email" firestore:"email"`
	Name             *string   `json:"name,omitempty" firestore:"name,omitempty"`
	SubscriptionTier Tier      `json:"subscriptionTier" firestore:"subscriptionTier"`
	DateCreated      time.Time `json:"dateCreated" firestore:"dateCreated"`
}

func (p UserProfile) IsPremium() bool {
	return p.SubscriptionTier == TierPremium
}

// DisplayName falls back to the email when no name has been set.
func (p UserProfile) DisplayName() string {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		return *p.Name
	}
	return p.Email
}

// Statistics is a derived summary of a user's visits and wishlist. It is
// never persisted. Nil pointer fields mean the value could not be derived.
type Statistics struct {
	TotalVisits        int        `json:"totalVisits"`
	TotalWishlistItems int        `json:"totalWishlistItems"`
	AverageRating      float64    `json:"averageRating"`
	TotalSpent         float64    `json:"totalSpent"`
	AveragePrice       float64    `json:"averagePrice"`
	FavoriteItem       *string    `json:"favoriteItem"`
	MostVisitedShop    *string    `json:"mostVisitedShop"`
	HighestRatedShop   *string    `json:"highestRatedShop"`
	MostExpensiveVisit *Visit     `json:"mostExpensiveVisit"`
	FirstVisitDate     *time.Time `json:"firstVisitDate"`
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are inside their geographic ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Region is a rectangular map viewport.
type Region struct {
	CenterLatitude  float64 `json:"centerLatitude"`
	CenterLongitude float64 `json:"centerLongitude"`
	SpanLatitude    float64 `json:"spanLatitude"`
	SpanLongitude   float64 `json:"spanLongitude"`
}

type PinKind string

const (
	PinVisit    PinKind = "visit"
	PinWishlist PinKind = "wishlist"
)

// MapPin is a single marker on the map view.
type MapPin struct {
	ID         string     `json:"id"`
	Kind       PinKind    `json:"kind"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle"`
	Coordinate Coordinate `json:"coordinate"`
}
