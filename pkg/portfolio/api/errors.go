package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrArtworkNotFound),
		errors.Is(err, portfolio.ErrTravelNotFound),
		errors.Is(err, portfolio.ErrBlobNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with its mapped status. Only validation and
// not-found messages reach the client verbatim.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{}

	switch status {
	case http.StatusBadRequest:
		resp.Error = err.Error()
		var verr *portfolio.ValidationError
		if errors.As(err, &verr) {
			resp.Error = verr.Error()
			resp.Field = verr.Field
		}
	case http.StatusNotFound:
		switch {
		case errors.Is(err, portfolio.ErrArtworkNotFound):
			resp.Error = portfolio.ErrArtworkNotFound.Error()
		case errors.Is(err, portfolio.ErrTravelNotFound):
			resp.Error = portfolio.ErrTravelNotFound.Error()
		default:
			resp.Error = portfolio.ErrBlobNotFound.Error()
		}
	case http.StatusServiceUnavailable:
		resp.Error = portfolio.ErrStorageUnavailable.Error()
	default:
		slog.Error("unhandled request error", "method", r.Method, "path", r.URL.Path, "err", err)
		resp.Error = "internal server error"
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func badRequest(field, message string) error {
	return &portfolio.ValidationError{Field: field, Tag: "format", Message: message}
}
