package portfolio

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies an artwork piece
type Category string

const (
	CategoryPainting   Category = "painting"
	CategoryCeramic    Category = "ceramic"
	CategoryEmbroidery Category = "embroidery"
)

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryPainting, CategoryCeramic, CategoryEmbroidery:
		return true
	}
	return false
}

// TravelStatus is the progress state of a travel entry
type TravelStatus string

const (
	TravelStatusPlanning  TravelStatus = "planning"
	TravelStatusTraveling TravelStatus = "traveling"
	TravelStatusArrived   TravelStatus = "arrived"
	TravelStatusCompleted TravelStatus = "completed"
)

// IsValid reports whether s is one of the known travel statuses
func (s TravelStatus) IsValid() bool {
	switch s {
	case TravelStatusPlanning, TravelStatusTraveling, TravelStatusArrived, TravelStatusCompleted:
		return true
	}
	return false
}

// Kind names the namespace an entity's blobs are stored under
type Kind string

const (
	KindArtwork Kind = "artwork"
	KindTravel  Kind = "travel"
	KindMedia   Kind = "media"
)

// Artwork is a single portfolio piece with its media
type Artwork struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	MediaURL    string    `json:"mediaUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Travel is a travel log entry with an optional photo
type Travel struct {
	ID                   uuid.UUID    `json:"id"`
	Location             string       `json:"location"`
	Country              string       `json:"country,omitempty"`
	Landmark             string       `json:"landmark,omitempty"`
	StartDate            time.Time    `json:"startDate"`
	EndDate              *time.Time   `json:"endDate,omitempty"`
	Companions           []string     `json:"companions"`
	PhotoURL             string       `json:"photoUrl"`
	PhotoDateTaken       *time.Time   `json:"photoDateTaken,omitempty"`
	Lat                  *float64     `json:"lat,omitempty"`
	Lng                  *float64     `json:"lng,omitempty"`
	IsCurrentlyTraveling bool         `json:"isCurrentlyTraveling"`
	CurrentTravelStatus  TravelStatus `json:"currentTravelStatus"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// GeoPoint is a decimal-degree coordinate pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PhotoMetadata is what could be read from an uploaded photo.
// DateTaken is always set; when HasMetadata is false it is the extraction time,
// not a capture time.
type PhotoMetadata struct {
	DateTaken   time.Time `json:"dateTaken"`
	Location    *GeoPoint `json:"location"`
	HasMetadata bool      `json:"hasMetadata"`
}

// BlobOutcome describes what happened to a record's blob during a delete
type BlobOutcome string

const (
	// BlobNone means the record referenced no blob
	BlobNone BlobOutcome = "none"
	// BlobReclaimed means the blob was deleted from the store
	BlobReclaimed BlobOutcome = "reclaimed"
	// BlobUnresolvable means the stored URL did not map to a storage key
	BlobUnresolvable BlobOutcome = "unresolvable"
	// BlobFailed means the store rejected the delete; the blob may be orphaned
	BlobFailed BlobOutcome = "failed"
)

// DeleteResult reports a single-record delete. The record is always removed
// when no error is returned; Blob tells whether its blob went with it.
type DeleteResult struct {
	ID             uuid.UUID   `json:"id"`
	RecordsDeleted int         `json:"recordsDeleted"`
	BlobsDeleted   int         `json:"blobsDeleted"`
	BlobKey        string      `json:"blobKey,omitempty"`
	Blob           BlobOutcome `json:"blob"`
}

// BulkDeleteResult reports a delete-all. RecordsDeleted and BlobsDeleted may
// legitimately differ; BlobFailures counts blobs that could not be removed.
type BulkDeleteResult struct {
	RecordsDeleted int64 `json:"recordsDeleted"`
	BlobsDeleted   int64 `json:"blobsDeleted"`
	BlobFailures   int64 `json:"blobFailures"`
}

// MediaUpload describes a stored blob
type MediaUpload struct {
	Key       string `json:"fileName"`
	URL       string `json:"fileUrl"`
	DirectURL string `json:"s3Url,omitempty"`
	FileName  string `json:"originalName,omitempty"`
	Size      int64  `json:"fileSize"`
	MimeType  string `json:"mimeType"`
}

// normalizeCompanions trims every name and drops the empty ones
func normalizeCompanions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
