package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

// VisitRepository handles Firestore read/write for users/{uid}/visits.
type VisitRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

func NewVisitRepository(client *firestore.Client, logger *slog.Logger) *VisitRepository {
	return &VisitRepository{client: client, logger: logger}
}

func (r *VisitRepository) collection(ownerID string) *firestore.CollectionRef {
	return userDoc(r.client, ownerID).Collection(visitsCollection)
}

func setVisitID(v *model.Visit, id string) {
	if v.ID == "" {
		v.ID = id
	}
}

func (r *VisitRepository) Create(ctx context.Context, visit model.Visit) error {
	if visit.ID == "" || visit.UserID == "" {
		return errors.New("visit id and userId are required")
	}
	if _, err := r.collection(visit.UserID).Doc(visit.ID).Create(ctx, visit); err != nil {
		return fmt.Errorf("create visit %s: %w", visit.ID, err)
	}
	return nil
}

// CreateCapped creates visit inside a transaction that first reads up to
// limit of the owner's visit refs, so concurrent callers cannot overshoot.
func (r *VisitRepository) CreateCapped(ctx context.Context, visit model.Visit, limit int) error {
	if visit.ID == "" || visit.UserID == "" {
		return errors.New("visit id and userId are required")
	}
	col := r.collection(visit.UserID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(col.Select().Limit(limit)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) >= limit {
			return journal.ErrVisitLimitReached
		}
		return tx.Create(col.Doc(visit.ID), visit)
	})
	if errors.Is(err, journal.ErrVisitLimitReached) {
		return err
	}
	if err != nil {
		return fmt.Errorf("create visit %s: %w", visit.ID, err)
	}
	return nil
}

func (r *VisitRepository) Get(ctx context.Context, ownerID, id string) (model.Visit, error) {
	snap, err := r.collection(ownerID).Doc(id).Get(ctx)
	if err != nil {
		return model.Visit{}, wrap(err, "get visit %s", id)
	}
	var v model.Visit
	if err := snap.DataTo(&v); err != nil {
		return model.Visit{}, fmt.Errorf("decode visit %s: %w", id, err)
	}
	setVisitID(&v, snap.Ref.ID)
	return v, nil
}

// List returns the user's visits, most recent first.
func (r *VisitRepository) List(ctx context.Context, ownerID string) ([]model.Visit, error) {
	iter := r.collection(ownerID).OrderBy("dateVisited", firestore.Desc).Documents(ctx)
	visits, err := decodeAll(iter, r.logger, setVisitID)
	if err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return visits, nil
}

// Count uses a server-side aggregation so the documents are not transferred.
func (r *VisitRepository) Count(ctx context.Context, ownerID string) (int, error) {
	res, err := r.collection(ownerID).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	val, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count visits: unexpected aggregation result %T", res["all"])
	}
	return int(val.GetIntegerValue()), nil
}

// Replace overwrites every editable field of an existing visit.
func (r *VisitRepository) Replace(ctx context.Context, visit model.Visit) error {
	ref := r.collection(visit.UserID).Doc(visit.ID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "shopName", Value: visit.ShopName},
		{Path: "address", Value: visit.Address},
		{Path: "latitude", Value: visit.Latitude},
		{Path: "longitude", Value: visit.Longitude},
		optional("placeID", visit.PlaceID),
		{Path: "itemsOrdered", Value: visit.ItemsOrdered},
		{Path: "rating", Value: visit.Rating},
		{Path: "price", Value: visit.Price},
		notesUpdate(visit.Notes),
		optional("photoURL", visit.PhotoURL),
		{Path: "dateVisited", Value: visit.DateVisited},
	})
	return wrap(err, "replace visit %s", visit.ID)
}

func (r *VisitRepository) UpdateNotes(ctx context.Context, ownerID, id string, notes *string) error {
	_, err := r.collection(ownerID).Doc(id).Update(ctx, []firestore.Update{notesUpdate(notes)})
	return wrap(err, "update notes on visit %s", id)
}

func (r *VisitRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := r.collection(ownerID).Doc(id).Delete(ctx, firestore.Exists)
	return wrap(err, "delete visit %s", id)
}

// Listen streams the full visits list to fn on every change until the
// returned subscription is stopped.
func (r *VisitRepository) Listen(ctx context.Context, ownerID string, fn func([]model.Visit)) *live.Subscription {
	query := r.collection(ownerID).OrderBy("dateVisited", firestore.Desc)
	return live.Start(ctx, func(ctx context.Context) error {
		iter := query.Snapshots(ctx)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				return fmt.Errorf("listen visits: %w", err)
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("read visits snapshot: %w", err)
			}
			fn(decodeSnapshot(docs, r.logger, setVisitID))
		}
	})
}
