package portfolio

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-portfolio/pkg/portfolio/urlstrategy"
)

// BlobStore defines the interface for object storage backends
type BlobStore interface {
	// UploadWithParams stores the reader's bytes under params.ObjectKey
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetDownloadURL returns a signed URL for reading the object
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)

	// Delete deletes content
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ArtworkRepository persists artwork records
type ArtworkRepository interface {
	CreateArtwork(ctx context.Context, artwork *Artwork) error
	GetArtwork(ctx context.Context, id uuid.UUID) (*Artwork, error)
	UpdateArtwork(ctx context.Context, artwork *Artwork) error
	DeleteArtwork(ctx context.Context, id uuid.UUID) error
	// ListArtworks returns every artwork, newest first
	ListArtworks(ctx context.Context) ([]*Artwork, error)
	DeleteAllArtworks(ctx context.Context) (int64, error)
}

// TravelRepository persists travel records
type TravelRepository interface {
	CreateTravel(ctx context.Context, travel *Travel) error
	GetTravel(ctx context.Context, id uuid.UUID) (*Travel, error)
	UpdateTravel(ctx context.Context, travel *Travel) error
	DeleteTravel(ctx context.Context, id uuid.UUID) error
	// ListTravels returns every travel entry by start date, latest first
	ListTravels(ctx context.Context) ([]*Travel, error)
	DeleteAllTravels(ctx context.Context) (int64, error)

	// GetCurrentTravel returns the flagged entry with the latest start date,
	// or ErrTravelNotFound when none is flagged.
	GetCurrentTravel(ctx context.Context) (*Travel, error)

	// ClearCurrentTravel unflags every flagged entry except the one with id
	// except (uuid.Nil excludes nothing), setting its status to completed.
	// It returns the number of entries changed.
	ClearCurrentTravel(ctx context.Context, except uuid.UUID) (int64, error)
}

// Repository defines the interface for record persistence
type Repository interface {
	ArtworkRepository
	TravelRepository

	// Ping reports whether the backing database is reachable
	Ping(ctx context.Context) error
}

// Transactor is implemented by travel repositories that can run several
// writes as one atomic unit. fn receives a repository bound to the unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo TravelRepository) error) error
}

// URLResolver builds public URLs for storage keys and maps persisted URLs
// back to keys. It is satisfied by *urlstrategy.Resolver.
type URLResolver interface {
	PublicURL(key string) string
	DirectURL(key string) string
	Resolve(rawURL string) urlstrategy.Resolution
}

// MetadataExtractor reads capture metadata from an image buffer.
// It never fails; see PhotoMetadata for the fallback contract.
type MetadataExtractor interface {
	Extract(data []byte) PhotoMetadata
}

// KeyGenerator names new blobs
type KeyGenerator interface {
	GenerateKey(kind string, fileName string) string
}

// MetricsRecorder receives lifecycle counters
type MetricsRecorder interface {
	BlobStored(kind Kind)
	BlobDeleted(kind Kind, outcome BlobOutcome)
	RecordWritten(kind Kind, op string)
	CurrentTravelCleared(n int64)
	PhotoMetadataExtracted(hasMetadata bool)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
	FileName  string
}
