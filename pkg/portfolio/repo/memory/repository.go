package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Repository implements portfolio.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	txMu     sync.Mutex // serializes WithinTx units
	artworks map[uuid.UUID]*portfolio.Artwork
	travels  map[uuid.UUID]*portfolio.Travel
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		artworks: make(map[uuid.UUID]*portfolio.Artwork),
		travels:  make(map[uuid.UUID]*portfolio.Travel),
	}
}

var (
	_ portfolio.Repository = (*Repository)(nil)
	_ portfolio.Transactor = (*Repository)(nil)
)

func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// WithinTx runs fn as one unit. Units are serialized against each other and
// travel changes made by a failing unit are rolled back.
func (r *Repository) WithinTx(ctx context.Context, fn func(repo portfolio.TravelRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := make(map[uuid.UUID]*portfolio.Travel, len(r.travels))
	for id, t := range r.travels {
		snapshot[id] = cloneTravel(t)
	}
	r.mu.RUnlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.travels = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

// Artwork operations

func (r *Repository) CreateArtwork(ctx context.Context, artwork *portfolio.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	artworkCopy := *artwork
	r.artworks[artwork.ID] = &artworkCopy
	return nil
}

func (r *Repository) GetArtwork(ctx context.Context, id uuid.UUID) (*portfolio.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artwork, exists := r.artworks[id]
	if !exists {
		return nil, portfolio.ErrArtworkNotFound
	}
	// Return a copy to prevent external modifications
	artworkCopy := *artwork
	return &artworkCopy, nil
}

func (r *Repository) UpdateArtwork(ctx context.Context, artwork *portfolio.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.artworks[artwork.ID]; !exists {
		return portfolio.ErrArtworkNotFound
	}
	artworkCopy := *artwork
	r.artworks[artwork.ID] = &artworkCopy
	return nil
}

func (r *Repository) DeleteArtwork(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.artworks[id]; !exists {
		return portfolio.ErrArtworkNotFound
	}
	delete(r.artworks, id)
	return nil
}

func (r *Repository) ListArtworks(ctx context.Context) ([]*portfolio.Artwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*portfolio.Artwork, 0, len(r.artworks))
	for _, artwork := range r.artworks {
		artworkCopy := *artwork
		result = append(result, &artworkCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) DeleteAllArtworks(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.artworks))
	r.artworks = make(map[uuid.UUID]*portfolio.Artwork)
	return n, nil
}

// Travel operations

func cloneTravel(t *portfolio.Travel) *portfolio.Travel {
	c := *t
	if t.EndDate != nil {
		end := *t.EndDate
		c.EndDate = &end
	}
	if t.PhotoDateTaken != nil {
		taken := *t.PhotoDateTaken
		c.PhotoDateTaken = &taken
	}
	if t.Lat != nil {
		lat := *t.Lat
		c.Lat = &lat
	}
	if t.Lng != nil {
		lng := *t.Lng
		c.Lng = &lng
	}
	c.Companions = append([]string(nil), t.Companions...)
	return &c
}

func (r *Repository) CreateTravel(ctx context.Context, travel *portfolio.Travel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.travels[travel.ID] = cloneTravel(travel)
	return nil
}

func (r *Repository) GetTravel(ctx context.Context, id uuid.UUID) (*portfolio.Travel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	travel, exists := r.travels[id]
	if !exists {
		return nil, portfolio.ErrTravelNotFound
	}
	return cloneTravel(travel), nil
}

func (r *Repository) UpdateTravel(ctx context.Context, travel *portfolio.Travel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.travels[travel.ID]; !exists {
		return portfolio.ErrTravelNotFound
	}
	r.travels[travel.ID] = cloneTravel(travel)
	return nil
}

func (r *Repository) DeleteTravel(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.travels[id]; !exists {
		return portfolio.ErrTravelNotFound
	}
	delete(r.travels, id)
	return nil
}

// sortTravels orders by start date, latest first
func sortTravels(travels []*portfolio.Travel) {
	sort.Slice(travels, func(i, j int) bool {
		if !travels[i].StartDate.Equal(travels[j].StartDate) {
			return travels[i].StartDate.After(travels[j].StartDate)
		}
		return travels[i].CreatedAt.After(travels[j].CreatedAt)
	})
}

func (r *Repository) ListTravels(ctx context.Context) ([]*portfolio.Travel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*portfolio.Travel, 0, len(r.travels))
	for _, travel := range r.travels {
		result = append(result, cloneTravel(travel))
	}
	sortTravels(result)
	return result, nil
}

func (r *Repository) DeleteAllTravels(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.travels))
	r.travels = make(map[uuid.UUID]*portfolio.Travel)
	return n, nil
}

func (r *Repository) GetCurrentTravel(ctx context.Context) (*portfolio.Travel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current []*portfolio.Travel
	for _, travel := range r.travels {
		if travel.IsCurrentlyTraveling {
			current = append(current, travel)
		}
	}
	if len(current) == 0 {
		return nil, portfolio.ErrTravelNotFound
	}
	sortTravels(current)
	return cloneTravel(current[0]), nil
}

func (r *Repository) ClearCurrentTravel(ctx context.Context, except uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, travel := range r.travels {
		if id == except || !travel.IsCurrentlyTraveling {
			continue
		}
		travel.IsCurrentlyTraveling = false
		travel.CurrentTravelStatus = portfolio.TravelStatusCompleted
		n++
	}
	return n, nil
}
