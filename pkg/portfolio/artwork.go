package portfolio

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func normalizeArtwork(title, description *string, category *Category) {
	*title = strings.TrimSpace(*title)
	*description = strings.TrimSpace(*description)
	*category = Category(strings.ToLower(strings.TrimSpace(string(*category))))
}

func checkCategory(c Category) error {
	if !c.IsValid() {
		return invalid("category", "oneof", "category must be one of %s, %s, %s, got %q",
			CategoryPainting, CategoryCeramic, CategoryEmbroidery, c)
	}
	return nil
}

func (s *service) CreateArtwork(ctx context.Context, req CreateArtworkRequest) (*Artwork, error) {
	normalizeArtwork(&req.Title, &req.Description, &req.Category)
	req.MediaURL = strings.TrimSpace(req.MediaURL)

	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	if err := checkCategory(req.Category); err != nil {
		return nil, err
	}
	if req.Media == nil && req.MediaURL == "" {
		return nil, invalid("media", "required", "media file is required")
	}
	if req.Media != nil {
		if err := s.checkUpload(req.Media, "media", true, s.limits.MaxMediaBytes); err != nil {
			return nil, err
		}
	}

	mediaURL := req.MediaURL
	var key string
	if req.Media != nil {
		var err error
		key, mediaURL, err = s.storeBlob(ctx, KindArtwork, req.Media)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	artwork := &Artwork{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MediaURL:    mediaURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateArtwork(ctx, artwork); err != nil {
		s.discardBlob(ctx, KindArtwork, key)
		return nil, s.recordFailure(KindArtwork, artwork.ID, "create", err)
	}
	s.metrics.RecordWritten(KindArtwork, "create")

	return artwork, nil
}

func (s *service) GetArtwork(ctx context.Context, id uuid.UUID) (*Artwork, error) {
	artwork, err := s.repository.GetArtwork(ctx, id)
	if err != nil {
		return nil, s.recordFailure(KindArtwork, id, "get", err)
	}
	return artwork, nil
}

func (s *service) ListArtworks(ctx context.Context) ([]*Artwork, error) {
	artworks, err := s.repository.ListArtworks(ctx)
	if err != nil {
		return nil, s.storeFailure(KindArtwork, "list", err)
	}
	return artworks, nil
}

func (s *service) UpdateArtwork(ctx context.Context, req UpdateArtworkRequest) (*Artwork, error) {
	normalizeArtwork(&req.Title, &req.Description, &req.Category)

	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	if err := checkCategory(req.Category); err != nil {
		return nil, err
	}
	if req.Media != nil {
		if err := s.checkUpload(req.Media, "media", true, s.limits.MaxMediaBytes); err != nil {
			return nil, err
		}
	}

	existing, err := s.repository.GetArtwork(ctx, req.ID)
	if err != nil {
		return nil, s.recordFailure(KindArtwork, req.ID, "get", err)
	}

	updated := *existing
	updated.Title = req.Title
	updated.Description = req.Description
	updated.Category = req.Category
	updated.UpdatedAt = s.now()

	var newKey string
	if req.Media != nil {
		newKey, updated.MediaURL, err = s.storeBlob(ctx, KindArtwork, req.Media)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repository.UpdateArtwork(ctx, &updated); err != nil {
		s.discardBlob(ctx, KindArtwork, newKey)
		return nil, s.recordFailure(KindArtwork, req.ID, "update", err)
	}
	s.metrics.RecordWritten(KindArtwork, "update")

	// The old blob goes only once nothing references it
	if newKey != "" && existing.MediaURL != updated.MediaURL {
		s.reclaimBlob(ctx, KindArtwork, existing.MediaURL)
	}

	return &updated, nil
}

func (s *service) DeleteArtwork(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	existing, err := s.repository.GetArtwork(ctx, id)
	if err != nil {
		return nil, s.recordFailure(KindArtwork, id, "get", err)
	}

	outcome, key := s.reclaimBlob(ctx, KindArtwork, existing.MediaURL)

	if err := s.repository.DeleteArtwork(ctx, id); err != nil {
		return nil, s.recordFailure(KindArtwork, id, "delete", err)
	}
	s.metrics.RecordWritten(KindArtwork, "delete")

	return newDeleteResult(id, outcome, key), nil
}

func (s *service) DeleteAllArtworks(ctx context.Context) (*BulkDeleteResult, error) {
	artworks, err := s.repository.ListArtworks(ctx)
	if err != nil {
		return nil, s.storeFailure(KindArtwork, "list", err)
	}

	result := &BulkDeleteResult{}
	for _, a := range artworks {
		outcome, _ := s.reclaimBlob(ctx, KindArtwork, a.MediaURL)
		result.count(outcome)
	}

	n, err := s.repository.DeleteAllArtworks(ctx)
	if err != nil {
		return nil, s.storeFailure(KindArtwork, "delete_all", err)
	}
	result.RecordsDeleted = n
	s.metrics.RecordWritten(KindArtwork, "delete_all")

	s.logger.Info("artworks purged", "records", result.RecordsDeleted, "blobs", result.BlobsDeleted, "blob_failures", result.BlobFailures)
	return result, nil
}

func newDeleteResult(id uuid.UUID, outcome BlobOutcome, key string) *DeleteResult {
	result := &DeleteResult{ID: id, RecordsDeleted: 1, BlobKey: key, Blob: outcome}
	if outcome == BlobReclaimed {
		result.BlobsDeleted = 1
	}
	return result
}

func (r *BulkDeleteResult) count(outcome BlobOutcome) {
	switch outcome {
	case BlobReclaimed:
		r.BlobsDeleted++
	case BlobFailed, BlobUnresolvable:
		r.BlobFailures++
	}
}
