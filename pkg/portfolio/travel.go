package portfolio

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// prepareTravelFields trims and defaults f, then validates it
func prepareTravelFields(f *TravelFields) error {
	f.Location = strings.TrimSpace(f.Location)
	f.Country = strings.TrimSpace(f.Country)
	f.Landmark = strings.TrimSpace(f.Landmark)
	f.Companions = normalizeCompanions(f.Companions)
	f.CurrentTravelStatus = TravelStatus(strings.ToLower(strings.TrimSpace(string(f.CurrentTravelStatus))))
	if f.CurrentTravelStatus == "" {
		f.CurrentTravelStatus = TravelStatusCompleted
	}

	if err := validateStruct(f); err != nil {
		return err
	}
	if !f.CurrentTravelStatus.IsValid() {
		return invalid("currentTravelStatus", "oneof", "currentTravelStatus must be one of %s, %s, %s, %s, got %q",
			TravelStatusPlanning, TravelStatusTraveling, TravelStatusArrived, TravelStatusCompleted, f.CurrentTravelStatus)
	}
	if f.EndDate != nil && f.EndDate.Before(f.StartDate) {
		return invalid("endDate", "gtefield", "endDate must not be before startDate")
	}
	if (f.Lat == nil) != (f.Lng == nil) {
		return invalid("lat", "required_with", "lat and lng must be provided together")
	}
	return nil
}

func (f *TravelFields) applyTo(t *Travel) {
	t.Location = f.Location
	t.Country = f.Country
	t.Landmark = f.Landmark
	t.StartDate = f.StartDate
	t.EndDate = f.EndDate
	t.Companions = f.Companions
	t.PhotoDateTaken = f.PhotoDateTaken
	t.Lat = f.Lat
	t.Lng = f.Lng
	t.IsCurrentlyTraveling = f.IsCurrentlyTraveling
	t.CurrentTravelStatus = f.CurrentTravelStatus
}

func (s *service) CreateTravel(ctx context.Context, req CreateTravelRequest) (*Travel, error) {
	if err := prepareTravelFields(&req.TravelFields); err != nil {
		return nil, err
	}
	if req.Photo != nil {
		if err := s.checkUpload(req.Photo, "photo", false, s.limits.MaxPhotoBytes); err != nil {
			return nil, err
		}
	}

	var key, photoURL string
	if req.Photo != nil {
		var err error
		key, photoURL, err = s.storeBlob(ctx, KindTravel, req.Photo)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	travel := &Travel{
		ID:        uuid.New(),
		PhotoURL:  photoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.TravelFields.applyTo(travel)

	err := s.guard.commit(ctx, travel, func(ctx context.Context, repo TravelRepository) error {
		return repo.CreateTravel(ctx, travel)
	})
	if err != nil {
		s.discardBlob(ctx, KindTravel, key)
		return nil, s.recordFailure(KindTravel, travel.ID, "create", err)
	}
	s.metrics.RecordWritten(KindTravel, "create")

	return travel, nil
}

func (s *service) GetTravel(ctx context.Context, id uuid.UUID) (*Travel, error) {
	travel, err := s.repository.GetTravel(ctx, id)
	if err != nil {
		return nil, s.recordFailure(KindTravel, id, "get", err)
	}
	return travel, nil
}

func (s *service) ListTravels(ctx context.Context) ([]*Travel, error) {
	travels, err := s.repository.ListTravels(ctx)
	if err != nil {
		return nil, s.storeFailure(KindTravel, "list", err)
	}
	return travels, nil
}

func (s *service) GetCurrentTravel(ctx context.Context) (*Travel, error) {
	travel, err := s.repository.GetCurrentTravel(ctx)
	if errors.Is(err, ErrTravelNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storeFailure(KindTravel, "get_current", err)
	}
	return travel, nil
}

func (s *service) UpdateTravel(ctx context.Context, req UpdateTravelRequest) (*Travel, error) {
	if err := prepareTravelFields(&req.TravelFields); err != nil {
		return nil, err
	}
	if req.Photo != nil {
		if err := s.checkUpload(req.Photo, "photo", false, s.limits.MaxPhotoBytes); err != nil {
			return nil, err
		}
	}

	existing, err := s.repository.GetTravel(ctx, req.ID)
	if err != nil {
		return nil, s.recordFailure(KindTravel, req.ID, "get", err)
	}

	updated := *existing
	req.TravelFields.applyTo(&updated)
	updated.UpdatedAt = s.now()

	var newKey string
	switch {
	case req.Photo != nil:
		newKey, updated.PhotoURL, err = s.storeBlob(ctx, KindTravel, req.Photo)
		if err != nil {
			return nil, err
		}
	case req.RemovePhoto:
		updated.PhotoURL = ""
	}

	err = s.guard.commit(ctx, &updated, func(ctx context.Context, repo TravelRepository) error {
		return repo.UpdateTravel(ctx, &updated)
	})
	if err != nil {
		s.discardBlob(ctx, KindTravel, newKey)
		return nil, s.recordFailure(KindTravel, req.ID, "update", err)
	}
	s.metrics.RecordWritten(KindTravel, "update")

	if existing.PhotoURL != "" && existing.PhotoURL != updated.PhotoURL {
		s.reclaimBlob(ctx, KindTravel, existing.PhotoURL)
	}

	return &updated, nil
}

func (s *service) DeleteTravel(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	existing, err := s.repository.GetTravel(ctx, id)
	if err != nil {
		return nil, s.recordFailure(KindTravel, id, "get", err)
	}

	outcome, key := s.reclaimBlob(ctx, KindTravel, existing.PhotoURL)

	if err := s.repository.DeleteTravel(ctx, id); err != nil {
		return nil, s.recordFailure(KindTravel, id, "delete", err)
	}
	s.metrics.RecordWritten(KindTravel, "delete")

	return newDeleteResult(id, outcome, key), nil
}

func (s *service) DeleteAllTravels(ctx context.Context) (*BulkDeleteResult, error) {
	travels, err := s.repository.ListTravels(ctx)
	if err != nil {
		return nil, s.storeFailure(KindTravel, "list", err)
	}

	result := &BulkDeleteResult{}
	for _, t := range travels {
		outcome, _ := s.reclaimBlob(ctx, KindTravel, t.PhotoURL)
		result.count(outcome)
	}

	n, err := s.repository.DeleteAllTravels(ctx)
	if err != nil {
		return nil, s.storeFailure(KindTravel, "delete_all", err)
	}
	result.RecordsDeleted = n
	s.metrics.RecordWritten(KindTravel, "delete_all")

	s.logger.Info("travel entries purged", "records", result.RecordsDeleted, "blobs", result.BlobsDeleted, "blob_failures", result.BlobFailures)
	return result, nil
}
