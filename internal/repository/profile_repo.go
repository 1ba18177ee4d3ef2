package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// ProfileRepository manages the users/{uid} profile documents.
type ProfileRepository struct {
	client *firestore.Client
}

func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) Get(ctx context.Context, ownerID string) (model.UserProfile, error) {
	snap, err := userDoc(r.client, ownerID).Get(ctx)
	if err != nil {
		return model.UserProfile{}, wrap(err, "get profile %s", ownerID)
	}
	var p model.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return model.UserProfile{}, fmt.Errorf("decode profile %s: %w", ownerID, err)
	}
	if p.ID == "" {
		p.ID = snap.Ref.ID
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.UserProfile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	if _, err := userDoc(r.client, profile.ID).Create(ctx, profile); err != nil {
		return fmt.Errorf("create profile %s: %w", profile.ID, err)
	}
	return nil
}

func (r *ProfileRepository) UpdateName(ctx context.Context, ownerID string, name *string) error {
	_, err := userDoc(r.client, ownerID).Update(ctx, []firestore.Update{optional("name", name)})
	return wrap(err, "update name on profile %s", ownerID)
}

func (r *ProfileRepository) UpdateTier(ctx context.Context, ownerID string, tier model.Tier) error {
	_, err := userDoc(r.client, ownerID).Update(ctx, []firestore.Update{
		{Path: "subscriptionTier", Value: string(tier)},
	})
	return wrap(err, "update tier on profile %s", ownerID)
}

// Delete removes the profile document only. Visits and wishlist entries
// under it are left in place.
func (r *ProfileRepository) Delete(ctx context.Context, ownerID string) error {
	_, err := userDoc(r.client, ownerID).Delete(ctx, firestore.Exists)
	return wrap(err, "delete profile %s", ownerID)
}
