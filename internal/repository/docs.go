package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
)

const (
	usersCollection    = "users"
	visitsCollection   = "visits"
	wishlistCollection = "wishlist"
)

func userDoc(client *firestore.Client, ownerID string) *firestore.DocumentRef {
	return client.Collection(usersCollection).Doc(ownerID)
}

// wrap annotates err and maps Firestore's NotFound onto journal.ErrNotFound.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", msg, journal.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// decodeAll reads every document from iter into T. Documents that fail to
// decode are logged and skipped so one bad record does not hide the rest.
func decodeAll[T any](iter *firestore.DocumentIterator, logger *slog.Logger, setID func(*T, string)) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		item, ok := decode[T](doc, logger, setID)
		if ok {
			out = append(out, item)
		}
	}
}

func decodeSnapshot[T any](docs []*firestore.DocumentSnapshot, logger *slog.Logger, setID func(*T, string)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		if item, ok := decode[T](doc, logger, setID); ok {
			out = append(out, item)
		}
	}
	return out
}

func decode[T any](doc *firestore.DocumentSnapshot, logger *slog.Logger, setID func(*T, string)) (T, bool) {
	var item T
	if err := doc.DataTo(&item); err != nil {
		logger.Warn("skipping undecodable document", "path", doc.Ref.Path, "error", err)
		return item, false
	}
	setID(&item, doc.Ref.ID)
	return item, true
}

func notesUpdate(notes *string) firestore.Update {
	return optional("notes", notes)
}

// optional sets an optional string field, or removes it when v is nil.
func optional(path string, v *string) firestore.Update {
	if v == nil {
		return firestore.Update{Path: path, Value: firestore.Delete}
	}
	return firestore.Update{Path: path, Value: *v}
}
