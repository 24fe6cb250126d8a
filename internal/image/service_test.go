package image

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func newTestService(blobs *mockBlobStore, meta *mockMetadataStore) *Service {
	return NewService(newTestRepository(blobs, meta))
}

func TestCreateImage_ContentTypeGate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"png accepted", "image/png", false},
		{"jpeg accepted", "image/jpeg", false},
		{"gif accepted", "image/gif", false},
		{"webp accepted", "image/webp", false},
		{"pdf rejected", "application/pdf", true},
		{"text rejected", "text/plain", true},
		{"empty rejected", "", true},
		{"bare image rejected", "image", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := &mockBlobStore{}
			meta := &mockMetadataStore{}
			svc := newTestService(blobs, meta)

			_, err := svc.CreateImage(context.Background(), []byte("data"), tt.contentType, "file.bin", "user-1")

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidContentType) {
					t.Fatalf("expected ErrInvalidContentType, got %v", err)
				}
				if len(blobs.uploadCalls) != 0 || meta.insertCalls != 0 {
					t.Error("rejected upload must cause no store I/O")
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestUpdateImage_RejectsNonImageBeforeLookup(t *testing.T) {
	blobs := &mockBlobStore{}
	meta := &mockMetadataStore{}
	svc := newTestService(blobs, meta)

	_, err := svc.UpdateImage(context.Background(), []byte("%PDF-1.4"), "application/pdf", "doc.pdf", "68909019-c7ce-6941-0ace-fca800000000", "user-1")

	if !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("expected ErrInvalidContentType, got %v", err)
	}
	if meta.findCalls != 0 || len(blobs.uploadCalls) != 0 {
		t.Error("rejected update must cause no store I/O")
	}
}

func TestGetImage_MalformedIDCollapsesToNotFound(t *testing.T) {
	meta := &mockMetadataStore{
		findFunc: func(ctx context.Context, id string) (*Record, error) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedID, id)
		},
	}
	svc := newTestService(&mockBlobStore{}, meta)

	_, err := svc.GetImage(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestGetImage_DatabaseErrorPropagates(t *testing.T) {
	meta := &mockMetadataStore{
		findFunc: func(ctx context.Context, id string) (*Record, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(&mockBlobStore{}, meta)

	_, err := svc.GetImage(context.Background(), "68909019-c7ce-6941-0ace-fca800000000")

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("database failure must stay distinct from not-found")
	}
}

func TestDeleteImage_NotFoundPassthrough(t *testing.T) {
	meta := &mockMetadataStore{
		findFunc: func(ctx context.Context, id string) (*Record, error) {
			return nil, ErrNotFound
		},
	}
	svc := newTestService(&mockBlobStore{}, meta)

	err := svc.DeleteImage(context.Background(), "68909019-c7ce-6941-0ace-fca800000000")
	if !svc.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
