package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the portfolio library
type Service interface {
	// Artwork operations
	CreateArtwork(ctx context.Context, req CreateArtworkRequest) (*Artwork, error)
	GetArtwork(ctx context.Context, id uuid.UUID) (*Artwork, error)
	ListArtworks(ctx context.Context) ([]*Artwork, error)
	UpdateArtwork(ctx context.Context, req UpdateArtworkRequest) (*Artwork, error)
	DeleteArtwork(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
	DeleteAllArtworks(ctx context.Context) (*BulkDeleteResult, error)

	// Travel operations
	CreateTravel(ctx context.Context, req CreateTravelRequest) (*Travel, error)
	GetTravel(ctx context.Context, id uuid.UUID) (*Travel, error)
	ListTravels(ctx context.Context) ([]*Travel, error)
	// GetCurrentTravel returns nil without error when no entry is flagged
	GetCurrentTravel(ctx context.Context) (*Travel, error)
	UpdateTravel(ctx context.Context, req UpdateTravelRequest) (*Travel, error)
	DeleteTravel(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
	DeleteAllTravels(ctx context.Context) (*BulkDeleteResult, error)

	// Media operations
	UploadMedia(ctx context.Context, upload Upload) (*MediaUpload, error)
	DeleteMedia(ctx context.Context, fileName string) error
	SignedMediaURL(ctx context.Context, publicURL string) (string, error)

	// ExtractPhotoMetadata only fails when the upload itself is rejected
	ExtractPhotoMetadata(ctx context.Context, photo Upload) (PhotoMetadata, error)

	// Ping checks the record store
	Ping(ctx context.Context) error
}
