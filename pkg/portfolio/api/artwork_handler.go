package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// CreateArtworkFromURLRequest is the JSON body for creating an artwork whose
// media already lives at a URL
type CreateArtworkFromURLRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MediaURL    string `json:"mediaUrl"`
}

// MediaURLResponse carries a time-limited read URL
type MediaURLResponse struct {
	URL string `json:"url"`
}

func (h *Handler) ListArtworks(w http.ResponseWriter, r *http.Request) {
	artworks, err := h.service.ListArtworks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if artworks == nil {
		artworks = []*portfolio.Artwork{}
	}
	render.JSON(w, r, artworks)
}

func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	artwork, err := h.service.GetArtwork(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, artwork)
}

// GetArtworkMediaURL returns a signed URL for the artwork's media
func (h *Handler) GetArtworkMediaURL(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	artwork, err := h.service.GetArtwork(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.service.SignedMediaURL(r.Context(), artwork.MediaURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, MediaURLResponse{URL: url})
}

// CreateArtwork accepts a multipart form with title, description, category
// and a media file
func (h *Handler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
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

	artwork, err := h.service.CreateArtwork(r.Context(), portfolio.CreateArtworkRequest{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Category:    portfolio.Category(formValue(r, "category")),
		MediaURL:    formValue(r, "mediaUrl"),
		Media:       media,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.logger.Info("artwork created", "id", artwork.ID, "category", artwork.Category)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, artwork)
}

// CreateArtworkFromURL creates an artwork from JSON referencing existing media
func (h *Handler) CreateArtworkFromURL(w http.ResponseWriter, r *http.Request) {
	var req CreateArtworkFromURLRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, badRequest("body", "invalid JSON body"))
		return
	}
	if req.MediaURL == "" {
		writeError(w, r, &portfolio.ValidationError{Field: "mediaUrl", Tag: "required", Message: "mediaUrl is required"})
		return
	}

	artwork, err := h.service.CreateArtwork(r.Context(), portfolio.CreateArtworkRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    portfolio.Category(req.Category),
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.logger.Info("artwork created", "id", artwork.ID, "category", artwork.Category)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, artwork)
}

// UpdateArtwork replaces the artwork fields; a media file swaps the blob
func (h *Handler) UpdateArtwork(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
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

	artwork, err := h.service.UpdateArtwork(r.Context(), portfolio.UpdateArtworkRequest{
		ID:          id,
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Category:    portfolio.Category(formValue(r, "category")),
		Media:       media,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, artwork)
}

func (h *Handler) DeleteArtwork(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.DeleteArtwork(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *Handler) DeleteAllArtworks(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DeleteAllArtworks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
