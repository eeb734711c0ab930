package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func (h *Handler) ListTravels(w http.ResponseWriter, r *http.Request) {
	travels, err := h.service.ListTravels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if travels == nil {
		travels = []*portfolio.Travel{}
	}
	render.JSON(w, r, travels)
}

func (h *Handler) GetTravel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	travel, err := h.service.GetTravel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, travel)
}

// GetCurrentTravel answers null when no entry is flagged
func (h *Handler) GetCurrentTravel(w http.ResponseWriter, r *http.Request) {
	travel, err := h.service.GetCurrentTravel(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, travel)
}

// CreateTravel accepts a multipart form with an optional photo, or a JSON
// body without one
func (h *Handler) CreateTravel(w http.ResponseWriter, r *http.Request) {
	var req portfolio.CreateTravelRequest

	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			writeError(w, r, err)
			return
		}
		defer cleanupMultipart(r)

		fields, err := travelFieldsFromForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		photo, closePhoto, err := formUpload(r, "photo")
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer closePhoto()
		req = portfolio.CreateTravelRequest{TravelFields: fields, Photo: photo}
	} else if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, badRequest("body", "invalid JSON body"))
		return
	}

	travel, err := h.service.CreateTravel(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.logger.Info("travel entry created", "id", travel.ID, "current", travel.IsCurrentlyTraveling)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, travel)
}

// UpdateTravel replaces the entry's fields. A photo file swaps the photo;
// removePhoto=true drops it.
func (h *Handler) UpdateTravel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req portfolio.UpdateTravelRequest
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			writeError(w, r, err)
			return
		}
		defer cleanupMultipart(r)

		fields, err := travelFieldsFromForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		remove, err := formBool(r, "removePhoto")
		if err != nil {
			writeError(w, r, err)
			return
		}
		photo, closePhoto, err := formUpload(r, "photo")
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer closePhoto()
		req = portfolio.UpdateTravelRequest{TravelFields: fields, Photo: photo, RemovePhoto: remove}
	} else if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, badRequest("body", "invalid JSON body"))
		return
	}
	req.ID = id

	travel, err := h.service.UpdateTravel(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, travel)
}

func (h *Handler) DeleteTravel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.DeleteTravel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *Handler) DeleteAllTravels(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DeleteAllTravels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}
