package image

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no image record exists for the requested id.
// It is a normal outcome, not a store fault.
var ErrNotFound = errors.New("image not found")

// ErrInvalidContentType is returned when an upload's content type is not image/*.
var ErrInvalidContentType = errors.New("invalid file type, only images are allowed")

// ErrMalformedID marks ids that are not a valid primary-key form. It is always
// wrapped in a DatabaseError, keeping it distinct from ErrNotFound at the
// data-access layer.
var ErrMalformedID = errors.New("malformed image id")

// StorageError reports a failed object-store operation. When create or update
// fails with a StorageError no metadata was written; when delete fails with one
// both the blob and its record are still present.
type StorageError struct {
	Op  string // "upload", "overwrite", "remove"
	Key string // object key involved
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("object store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DatabaseError reports a failed metadata-store operation, including malformed
// record ids. A DatabaseError after a successful object-store write means the
// blob and its record may disagree until reconciled out of band.
type DatabaseError struct {
	Op  string // "insert", "find", "update", "delete"
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("metadata store: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
