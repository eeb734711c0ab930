package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// maxFilesPerUpload bounds /upload/multiple
const maxFilesPerUpload = 10

// UploadResponse wraps the stored blobs of a multi-file upload
type UploadResponse struct {
	Files []*portfolio.MediaUpload `json:"files"`
}

// ExtractPhotoMetadata reads capture date and location from a photo. Photos
// without usable EXIF data still succeed with hasMetadata=false.
func (h *Handler) ExtractPhotoMetadata(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	photo, closePhoto, err := formUpload(r, "photo")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closePhoto()
	if photo == nil {
		writeError(w, r, &portfolio.ValidationError{Field: "photo", Tag: "required", Message: "photo file is required"})
		return
	}

	md, err := h.service.ExtractPhotoMetadata(r.Context(), *photo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, md)
}

func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	media, closeMedia, err := formUpload(r, "media")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeMedia()
	if media == nil {
		writeError(w, r, &portfolio.ValidationError{Field: "media", Tag: "required", Message: "media file is required"})
		return
	}

	stored, err := h.service.UploadMedia(r.Context(), *media)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, stored)
}

// UploadMultiple stores up to ten files. Either all are stored or, on the
// first failure, those already stored are removed again.
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	headers := r.MultipartForm.File["media"]
	switch {
	case len(headers) == 0:
		writeError(w, r, &portfolio.ValidationError{Field: "media", Tag: "required", Message: "at least one media file is required"})
		return
	case len(headers) > maxFilesPerUpload:
		writeError(w, r, &portfolio.ValidationError{Field: "media", Tag: "max",
			Message: fmt.Sprintf("at most %d files per upload", maxFilesPerUpload)})
		return
	}

	resp := UploadResponse{Files: make([]*portfolio.MediaUpload, 0, len(headers))}
	for _, fh := range headers {
		upload, closeUpload, err := toUpload(fh)
		if err != nil {
			h.rollbackUploads(r, resp.Files)
			writeError(w, r, err)
			return
		}
		stored, err := h.service.UploadMedia(r.Context(), *upload)
		closeUpload()
		if err != nil {
			h.rollbackUploads(r, resp.Files)
			writeError(w, r, err)
			return
		}
		resp.Files = append(resp.Files, stored)
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

func (h *Handler) rollbackUploads(r *http.Request, stored []*portfolio.MediaUpload) {
	for _, m := range stored {
		if err := h.service.DeleteMedia(r.Context(), m.Key); err != nil {
			h.logger.Warn("rollback of uploaded media failed", "key", m.Key, "err", err)
		}
	}
}

// DeleteMedia removes a generic media blob by file name
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "fileName")
	if err := h.service.DeleteMedia(r.Context(), name); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// ServeFile streams a stored blob for deployments without an object store
// URL of their own
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" {
		writeError(w, r, badRequest("key", "object key is required"))
		return
	}

	meta, err := h.files.GetObjectMeta(r.Context(), key)
	if err != nil {
		h.blobFailure(w, r, key, err)
		return
	}
	body, err := h.files.Download(r.Context(), key)
	if err != nil {
		h.blobFailure(w, r, key, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	if meta.ETag != "" {
		w.Header().Set("ETag", `"`+meta.ETag+`"`)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("blob stream interrupted", "key", key, "err", err)
	}
}

func (h *Handler) blobFailure(w http.ResponseWriter, r *http.Request, key string, err error) {
	if errors.Is(err, portfolio.ErrBlobNotFound) {
		writeError(w, r, err)
		return
	}
	h.logger.Error("blob read failed", "key", key, "err", err)
	writeError(w, r, &portfolio.StorageError{Store: "blob", Op: "read", Key: key, Err: err})
}
