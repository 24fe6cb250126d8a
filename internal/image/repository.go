package image

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picstash/image-service/internal/storage"
)

// Repository owns the mapping between one logical image and its two physical
// representations: the blob in the object store and the metadata record.
//
// The object store is always mutated before the metadata store, and the
// metadata step is skipped entirely when the object-store step fails. An
// interrupted operation therefore leaves at worst an orphaned or stale blob,
// never a record pointing at a missing blob. No compensating deletes and no
// retries: each failure surfaces as a StorageError or DatabaseError so the
// operator can tell which side of the pair is off.
type Repository struct {
	blobs storage.Storage
	meta  MetadataStore
	log   *zap.Logger
}

// NewRepository creates a Repository over the given blob and metadata stores.
func NewRepository(blobs storage.Storage, meta MetadataStore, log *zap.Logger) *Repository {
	return &Repository{blobs: blobs, meta: meta, log: log}
}

// Create stores the blob under a freshly generated object key, then inserts
// the metadata record and returns it with its store-assigned id.
func (r *Repository) Create(ctx context.Context, data []byte, contentType, filename, userID string) (*Record, error) {
	key := newObjectKey(filename)

	if err := r.blobs.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, &StorageError{Op: "upload", Key: key, Err: err}
	}

	rec := &Record{
		UserID:      userID,
		Filename:    filename,
		ObjectKey:   key,
		URL:         r.blobs.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
	}

	created, err := r.meta.Insert(ctx, rec)
	if err != nil {
		// The blob stays behind; reconciliation happens out of band.
		r.log.Warn("metadata insert failed after blob write, blob orphaned",
			zap.String("object_key", key), zap.Error(err))
		return nil, &DatabaseError{Op: "insert", Err: err}
	}

	return created, nil
}

// Update overwrites the blob in place at the record's existing object key and
// rewrites the record's mutable fields. The object key and URL never change.
func (r *Repository) Update(ctx context.Context, data []byte, contentType, filename, imageID, userID string) (*Record, error) {
	existing, err := r.meta.FindByID(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &DatabaseError{Op: "find", Err: err}
	}

	if err := r.blobs.Upload(ctx, existing.ObjectKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, &StorageError{Op: "overwrite", Key: existing.ObjectKey, Err: err}
	}

	updated, err := r.meta.UpdateByID(ctx, imageID, UpdateFields{
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		// The blob already carries the new content; the record is stale.
		r.log.Warn("metadata update failed after blob overwrite, record stale",
			zap.String("image_id", imageID),
			zap.String("object_key", existing.ObjectKey),
			zap.Error(err))
		return nil, &DatabaseError{Op: "update", Err: err}
	}

	return updated, nil
}

// Get reads the metadata record by primary key.
func (r *Repository) Get(ctx context.Context, imageID string) (*Record, error) {
	rec, err := r.meta.FindByID(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &DatabaseError{Op: "find", Err: err}
	}
	return rec, nil
}

// Delete removes the blob, then the record. A failed blob removal aborts
// before the record is touched, so the pair is either fully deleted or
// fully present apart from the documented failure window.
func (r *Repository) Delete(ctx context.Context, imageID string) error {
	rec, err := r.meta.FindByID(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &DatabaseError{Op: "find", Err: err}
	}

	if err := r.blobs.Delete(ctx, rec.ObjectKey); err != nil {
		return &StorageError{Op: "remove", Key: rec.ObjectKey, Err: err}
	}

	if err := r.meta.DeleteByID(ctx, imageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race with another delete; the blob is gone either way.
			return ErrNotFound
		}
		r.log.Warn("metadata delete failed after blob removal, record orphaned",
			zap.String("image_id", imageID),
			zap.String("object_key", rec.ObjectKey),
			zap.Error(err))
		return &DatabaseError{Op: "delete", Err: err}
	}

	return nil
}

// newObjectKey generates a unique storage key: a random UUID plus the
// original filename's extension, if it has one. Keys are never caller-supplied.
func newObjectKey(filename string) string {
	return uuid.New().String() + filepath.Ext(filename)
}
