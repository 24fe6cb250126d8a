// Package image manages image metadata records and the blobs they describe.
package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the persisted metadata document for one stored image.
// ObjectKey is serialized as "object_name" for wire compatibility.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	ObjectKey   string    `json:"object_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UpdateFields are the record fields rewritten by an update. ObjectKey, URL
// and ID are never touched by updates.
type UpdateFields struct {
	UserID      string
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// MetadataStore is the narrow persistence boundary for image records.
// Implementations assign the primary key on insert and return ErrNotFound
// for well-formed ids with no record.
type MetadataStore interface {
	Insert(ctx context.Context, rec *Record) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)
	UpdateByID(ctx context.Context, id string, fields UpdateFields) (*Record, error)
	DeleteByID(ctx context.Context, id string) error
}

// PostgresStore implements MetadataStore on a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore with the given connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert stores a new record and returns it with the store-assigned id.
func (s *PostgresStore) Insert(ctx context.Context, rec *Record) (*Record, error) {
	out := *rec
	err := s.db.QueryRow(ctx,
		`INSERT INTO images (user_id, filename, object_key, url, content_type, size, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		rec.UserID, rec.Filename, rec.ObjectKey, rec.URL, rec.ContentType, rec.Size, rec.UploadedAt,
	).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("insert image record: %w", err)
	}
	return &out, nil
}

// FindByID fetches a record by its primary key.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Record, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	rec := &Record{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, filename, object_key, url, content_type, size, uploaded_at
		 FROM images WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.ObjectKey, &rec.URL, &rec.ContentType, &rec.Size, &rec.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find image record: %w", err)
	}
	return rec, nil
}

// UpdateByID rewrites the mutable fields of a record and returns the result.
func (s *PostgresStore) UpdateByID(ctx context.Context, id string, fields UpdateFields) (*Record, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	rec := &Record{}
	err := s.db.QueryRow(ctx,
		`UPDATE images
		 SET user_id = $2, filename = $3, content_type = $4, size = $5, uploaded_at = $6
		 WHERE id = $1
		 RETURNING id, user_id, filename, object_key, url, content_type, size, uploaded_at`,
		id, fields.UserID, fields.Filename, fields.ContentType, fields.Size, fields.UploadedAt,
	).Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.ObjectKey, &rec.URL, &rec.ContentType, &rec.Size, &rec.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update image record: %w", err)
	}
	return rec, nil
}

// DeleteByID removes a record by its primary key.
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// validateID rejects ids that are not well-formed primary keys before any
// query runs, so malformed ids surface as a store error rather than ErrNotFound.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
	}
	return nil
}
