package image

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/picstash/image-service/internal/middleware"
	"github.com/picstash/image-service/internal/response"
)

// Handler holds HTTP handlers for image endpoints.
type Handler struct {
	svc      *Service
	log      *zap.Logger
	maxBytes int64
}

// NewHandler creates a new image Handler. maxBytes caps a single upload.
func NewHandler(svc *Service, log *zap.Logger, maxBytes int64) *Handler {
	return &Handler{svc: svc, log: log, maxBytes: maxBytes}
}

// UploadImage godoc
//
//	@Summary		Upload image
//	@Description	Store an image blob and its metadata record. The user id comes from the user_id query parameter, or from the bearer token subject when the parameter is absent.
//	@Tags			image
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			user_id	query		string	false	"Owner identifier"
//	@Param			file	formData	file	true	"Image file"
//	@Success		201		{object}	Record
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/image/upload/ [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := h.resolveUserID(r)
	if userID == "" {
		response.BadRequest(w, "user_id is required")
		return
	}

	data, contentType, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.CreateImage(r.Context(), data, contentType, filename, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, rec)
}

// UpdateImage godoc
//
//	@Summary		Update image
//	@Description	Overwrite an existing image's content in place and refresh its metadata. The object key and URL never change.
//	@Tags			image
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			user_id		query		string	false	"Owner identifier"
//	@Param			image_id	query		string	true	"Image record id"
//	@Param			file		formData	file	true	"Image file"
//	@Success		200			{object}	Record
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/image/update/ [put]
func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	imageID := r.URL.Query().Get("image_id")
	if imageID == "" {
		response.BadRequest(w, "image_id is required")
		return
	}

	userID := h.resolveUserID(r)
	if userID == "" {
		response.BadRequest(w, "user_id is required")
		return
	}

	data, contentType, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.UpdateImage(r.Context(), data, contentType, filename, imageID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

// GetImage godoc
//
//	@Summary		Get image metadata
//	@Tags			image
//	@Produce		json
//	@Param			image_id	path		string	true	"Image record id"
//	@Success		200			{object}	Record
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/image/{image_id} [get]
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")

	rec, err := h.svc.GetImage(r.Context(), imageID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

// DeleteImage godoc
//
//	@Summary		Delete image
//	@Description	Remove the image blob and then its metadata record.
//	@Tags			image
//	@Produce		json
//	@Param			image_id	path		string	true	"Image record id"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/image/{image_id} [delete]
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")

	if err := h.svc.DeleteImage(r.Context(), imageID); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}

// readUpload parses the multipart form and reads the "file" field fully.
// On failure it writes the error response and returns ok=false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, contentType, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		response.BadRequest(w, "failed to parse multipart form")
		return nil, "", "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no image file provided")
		return nil, "", "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		h.log.Error("read upload body", zap.Error(err))
		response.InternalError(w)
		return nil, "", "", false
	}

	return data, header.Header.Get("Content-Type"), header.Filename, true
}

// resolveUserID returns the user_id query parameter, falling back to the
// bearer token subject attached by the identity middleware.
func (h *Handler) resolveUserID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return middleware.UserID(r.Context())
}

// writeError maps service errors to HTTP statuses. Storage and database
// failures both become 500s, logged with their kind so operators can tell
// which side of the blob/record pair failed.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var storageErr *StorageError
	var dbErr *DatabaseError

	switch {
	case errors.Is(err, ErrInvalidContentType):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "image not found")
	case errors.As(err, &storageErr):
		h.log.Error("object store failure",
			zap.String("op", storageErr.Op),
			zap.String("object_key", storageErr.Key),
			zap.Error(storageErr.Err))
		response.InternalError(w)
	case errors.As(err, &dbErr):
		h.log.Error("metadata store failure",
			zap.String("op", dbErr.Op),
			zap.Error(dbErr.Err))
		response.InternalError(w)
	default:
		h.log.Error("unexpected failure", zap.Error(err))
		response.InternalError(w)
	}
}
