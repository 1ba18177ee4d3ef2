package journal

import (
	"errors"
	"fmt"

	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrVisitLimitReached = errors.New("free tier visit limit reached")
	ErrPremiumRequired   = errors.New("premium subscription required")
)

// PartialConversionError reports a wishlist conversion whose visit was
// saved but whose wishlist entry could not be removed afterwards.
type PartialConversionError struct {
	Visit   model.Visit
	EntryID string
	Err     error
}

func (e *PartialConversionError) Error() string {
	return fmt.Sprintf("visit %s saved but wishlist entry %s was not removed: %v", e.Visit.ID, e.EntryID, e.Err)
}

func (e *PartialConversionError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
