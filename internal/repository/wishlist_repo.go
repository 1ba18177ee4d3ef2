package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// WishlistRepository handles Firestore read/write for users/{uid}/wishlist.
type WishlistRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

func NewWishlistRepository(client *firestore.Client, logger *slog.Logger) *WishlistRepository {
	return &WishlistRepository{client: client, logger: logger}
}

func (r *WishlistRepository) collection(ownerID string) *firestore.CollectionRef {
	return userDoc(r.client, ownerID).Collection(wishlistCollection)
}

func setEntryID(e *model.WishlistEntry, id string) {
	if e.ID == "" {
		e.ID = id
	}
}

func (r *WishlistRepository) Create(ctx context.Context, entry model.WishlistEntry) error {
	if entry.ID == "" || entry.UserID == "" {
		return errors.New("wishlist entry id and userId are required")
	}
	if _, err := r.collection(entry.UserID).Doc(entry.ID).Create(ctx, entry); err != nil {
		return fmt.Errorf("create wishlist entry %s: %w", entry.ID, err)
	}
	return nil
}

func (r *WishlistRepository) Get(ctx context.Context, ownerID, id string) (model.WishlistEntry, error) {
	snap, err := r.collection(ownerID).Doc(id).Get(ctx)
	if err != nil {
		return model.WishlistEntry{}, wrap(err, "get wishlist entry %s", id)
	}
	var e model.WishlistEntry
	if err := snap.DataTo(&e); err != nil {
		return model.WishlistEntry{}, fmt.Errorf("decode wishlist entry %s: %w", id, err)
	}
	setEntryID(&e, snap.Ref.ID)
	return e, nil
}

// List returns the wishlist, most recently added first.
func (r *WishlistRepository) List(ctx context.Context, ownerID string) ([]model.WishlistEntry, error) {
	iter := r.collection(ownerID).OrderBy("dateAdded", firestore.Desc).Documents(ctx)
	entries, err := decodeAll(iter, r.logger, setEntryID)
	if err != nil {
		return nil, fmt.Errorf("iterate wishlist: %w", err)
	}
	return entries, nil
}

func (r *WishlistRepository) UpdateNotes(ctx context.Context, ownerID, id string, notes *string) error {
	_, err := r.collection(ownerID).Doc(id).Update(ctx, []firestore.Update{notesUpdate(notes)})
	return wrap(err, "update notes on wishlist entry %s", id)
}

func (r *WishlistRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := r.collection(ownerID).Doc(id).Delete(ctx, firestore.Exists)
	return wrap(err, "delete wishlist entry %s", id)
}

func (r *WishlistRepository) Listen(ctx context.Context, ownerID string, fn func([]model.WishlistEntry)) *live.Subscription {
	query := r.collection(ownerID).OrderBy("dateAdded", firestore.Desc)
	return live.Start(ctx, func(ctx context.Context) error {
		iter := query.Snapshots(ctx)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				return fmt.Errorf("listen wishlist: %w", err)
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("read wishlist snapshot: %w", err)
			}
			fn(decodeSnapshot(docs, r.logger, setEntryID))
		}
	})
}
