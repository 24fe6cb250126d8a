package image

import (
	"context"
	"errors"
	"strings"
)

// Service enforces domain rules in front of the Repository. It holds no
// state of its own; every call is validate, delegate, translate.
type Service struct {
	repo *Repository
}

// NewService creates a new image Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateImage validates the upload's content type and stores it. The check
// runs before the repository is invoked, so rejected uploads cause no store I/O.
func (s *Service) CreateImage(ctx context.Context, data []byte, contentType, filename, userID string) (*Record, error) {
	if !isImage(contentType) {
		return nil, ErrInvalidContentType
	}
	return s.repo.Create(ctx, data, contentType, filename, userID)
}

// UpdateImage validates the upload's content type and replaces the content
// and mutable metadata of an existing image.
func (s *Service) UpdateImage(ctx context.Context, data []byte, contentType, filename, imageID, userID string) (*Record, error) {
	if !isImage(contentType) {
		return nil, ErrInvalidContentType
	}
	return s.repo.Update(ctx, data, contentType, filename, imageID, userID)
}

// GetImage returns the metadata record for the given id. Malformed ids
// collapse to ErrNotFound here: a reader cannot tell an id that never existed
// from one that cannot exist.
func (s *Service) GetImage(ctx context.Context, imageID string) (*Record, error) {
	rec, err := s.repo.Get(ctx, imageID)
	if err != nil {
		if errors.Is(err, ErrMalformedID) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// DeleteImage removes the image's blob and record.
func (s *Service) DeleteImage(ctx context.Context, imageID string) error {
	return s.repo.Delete(ctx, imageID)
}

// IsNotFound returns true when the error indicates the image does not exist.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
