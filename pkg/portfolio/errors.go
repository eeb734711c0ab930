package portfolio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrValidation indicates a caller-supplied payload was rejected
	ErrValidation = errors.New("validation failed")

	// ErrArtworkNotFound indicates an artwork was not found
	ErrArtworkNotFound = errors.New("artwork not found")

	// ErrTravelNotFound indicates a travel entry was not found
	ErrTravelNotFound = errors.New("travel entry not found")

	// ErrStorageUnavailable indicates the record or blob store failed.
	// The underlying cause is logged and kept on StorageError but never
	// rendered into the message.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBlobNotFound indicates a blob store has no object under a key
	ErrBlobNotFound = errors.New("object not found")

	// ErrNotSignable indicates a blob store cannot produce signed URLs
	ErrNotSignable = errors.New("blob store cannot sign URLs")
)

// ValidationError names the field that failed and why
type ValidationError struct {
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, tag, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Tag: tag, Message: fmt.Sprintf(format, args...)}
}

// RecordError represents an error related to a single record operation
type RecordError struct {
	Kind Kind
	ID   uuid.UUID
	Op   string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s operation %s failed for %s: %v", e.Kind, e.Op, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// StorageError represents a failure of the record store or the blob store.
// Error() stays generic so credentials and topology never reach callers.
type StorageError struct {
	Store string // "blob" or "record"
	Op    string
	Key   string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrStorageUnavailable, e.Store, e.Op)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
