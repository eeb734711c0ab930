package portfolio

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// Upload is a blob handed to the service by the transport layer
type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Reader   io.Reader
}

// CreateArtworkRequest contains parameters for creating an artwork. Exactly
// one of Media and MediaURL is expected; Media wins when both are set.
type CreateArtworkRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Category    Category `json:"category" validate:"required"`
	MediaURL    string   `json:"mediaUrl" validate:"omitempty,url"`
	Media       *Upload  `json:"-"`
}

// UpdateArtworkRequest replaces an artwork's fields. A nil Media keeps the
// current blob.
type UpdateArtworkRequest struct {
	ID          uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Category    Category  `json:"category" validate:"required"`
	Media       *Upload   `json:"-"`
}

// TravelFields are the caller-editable fields of a travel entry
type TravelFields struct {
	Location             string       `json:"location" validate:"required"`
	Country              string       `json:"country"`
	Landmark             string       `json:"landmark"`
	StartDate            time.Time    `json:"startDate" validate:"required"`
	EndDate              *time.Time   `json:"endDate"`
	Companions           []string     `json:"companions"`
	PhotoDateTaken       *time.Time   `json:"photoDateTaken"`
	Lat                  *float64     `json:"lat" validate:"omitempty,latitude"`
	Lng                  *float64     `json:"lng" validate:"omitempty,longitude"`
	IsCurrentlyTraveling bool         `json:"isCurrentlyTraveling"`
	CurrentTravelStatus  TravelStatus `json:"currentTravelStatus"`
}

// CreateTravelRequest contains parameters for creating a travel entry
type CreateTravelRequest struct {
	TravelFields
	Photo *Upload `json:"-"`
}

// UpdateTravelRequest replaces a travel entry's fields. Photo replaces the
// current photo; RemovePhoto drops it; neither keeps it.
type UpdateTravelRequest struct {
	ID uuid.UUID `json:"-"`
	TravelFields
	Photo       *Upload `json:"-"`
	RemovePhoto bool    `json:"removePhoto"`
}
