package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Error taxonomy surfaced to the UI boundary. Unauthenticated, self-reference
// and permission errors are never retried; transient errors are the caller's
// responsibility to retry; the core performs no automatic retry.
var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrSelfReference    = errors.New("operation targets the acting user")
	ErrPermissionDenied = errors.New("caller is not the authorized party")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("uniqueness conflict")
	ErrTransient        = errors.New("transient store failure")
)

// mapStoreError translates store-layer failures into the service taxonomy.
// Anything that is not a recognizable domain condition is a transient store
// failure and keeps its cause in the message.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}
