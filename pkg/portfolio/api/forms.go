package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// multipartMemory is how much of a multipart body is held in memory; the
// rest is spooled to temporary files
const multipartMemory = 32 << 20

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mt, "multipart/")
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest("body", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return badRequest("body", "invalid multipart form")
	}
	return nil
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest("id", "invalid id")
	}
	return id, nil
}

// toUpload opens a multipart file header as a service upload
func toUpload(fh *multipart.FileHeader) (*portfolio.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return &portfolio.Upload{
		FileName: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Reader:   f,
	}, func() { _ = f.Close() }, nil
}

// formUpload returns the first file under field, or nil when none was sent
func formUpload(r *http.Request, field string) (*portfolio.Upload, func(), error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, func() {}, nil
	}
	return toUpload(r.MultipartForm.File[field][0])
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formBool(r *http.Request, key string) (bool, error) {
	raw := formValue(r, key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest(key, fmt.Sprintf("%s must be true or false", key))
	}
	return v, nil
}

// dateLayouts are the accepted forms for date fields
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func formDate(r *http.Request, key string) (*time.Time, error) {
	raw := formValue(r, key)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	t, ok := parseDate(raw)
	if !ok {
		return nil, badRequest(key, fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", key))
	}
	return &t, nil
}

func formFloat(r *http.Request, key string) (*float64, error) {
	raw := formValue(r, key)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badRequest(key, fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

// formCompanions accepts a JSON array or a comma separated list
func formCompanions(r *http.Request) ([]string, error) {
	raw := formValue(r, "companions")
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, badRequest("companions", "companions must be a JSON array of names")
		}
		return out, nil
	}
	return strings.Split(raw, ","), nil
}

// travelFieldsFromForm reads the editable travel fields from a multipart form
func travelFieldsFromForm(r *http.Request) (portfolio.TravelFields, error) {
	f := portfolio.TravelFields{
		Location:            formValue(r, "location"),
		Country:             formValue(r, "country"),
		Landmark:            formValue(r, "landmark"),
		CurrentTravelStatus: portfolio.TravelStatus(formValue(r, "currentTravelStatus")),
	}

	start, err := formDate(r, "startDate")
	if err != nil {
		return f, err
	}
	if start != nil {
		f.StartDate = *start
	}
	if f.EndDate, err = formDate(r, "endDate"); err != nil {
		return f, err
	}
	if f.PhotoDateTaken, err = formDate(r, "photoDateTaken"); err != nil {
		return f, err
	}
	if f.Lat, err = formFloat(r, "lat"); err != nil {
		return f, err
	}
	if f.Lng, err = formFloat(r, "lng"); err != nil {
		return f, err
	}
	if f.Companions, err = formCompanions(r); err != nil {
		return f, err
	}
	if f.IsCurrentlyTraveling, err = formBool(r, "isCurrentlyTraveling"); err != nil {
		return f, err
	}
	return f, nil
}
