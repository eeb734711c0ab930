package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// beginner starts transactions; satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrCurrentTravelConflict reports that a concurrent writer flagged another
// travel entry as current first
var ErrCurrentTravelConflict = errors.New("another travel entry is already current")

// Repository implements portfolio.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

var (
	_ portfolio.Repository = (*Repository)(nil)
	_ portfolio.Transactor = (*Repository)(nil)
)

// Ping checks connectivity when the underlying handle supports it
func (r *Repository) Ping(ctx context.Context) error {
	if p, ok := r.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := r.db.Exec(ctx, "SELECT 1")
	return err
}

// WithinTx runs fn in a transaction. Handles that cannot begin one (a
// repository already bound to a tx) run fn directly.
func (r *Repository) WithinTx(ctx context.Context, fn func(repo portfolio.TravelRepository) error) error {
	b, ok := r.db.(beginner)
	if !ok {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, b, func(tx pgx.Tx) error {
		return fn(&Repository{db: tx})
	})
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if pgErr.ConstraintName == "travel_single_current_idx" {
				return fmt.Errorf("%s: %w", operation, ErrCurrentTravelConflict)
			}
			return fmt.Errorf("%s: duplicate entry: %w", operation, err)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s is missing: %w", operation, pgErr.ColumnName, err)
		case "23514": // check_violation
			return fmt.Errorf("%s: value rejected by %s: %w", operation, pgErr.ConstraintName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - database migration required: %w", operation, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Artwork operations

const artworkColumns = `id, title, description, category, media_url, created_at, updated_at`

func scanArtwork(row pgx.Row) (*portfolio.Artwork, error) {
	var a portfolio.Artwork
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.MediaURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) CreateArtwork(ctx context.Context, artwork *portfolio.Artwork) error {
	query := `
		INSERT INTO artwork (` + artworkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		artwork.ID, artwork.Title, artwork.Description, artwork.Category,
		artwork.MediaURL, artwork.CreatedAt, artwork.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create artwork", err)
	}
	return nil
}

func (r *Repository) GetArtwork(ctx context.Context, id uuid.UUID) (*portfolio.Artwork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artwork WHERE id = $1`

	artwork, err := scanArtwork(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrArtworkNotFound
		}
		return nil, r.handlePostgresError("get artwork", err)
	}
	return artwork, nil
}

func (r *Repository) UpdateArtwork(ctx context.Context, artwork *portfolio.Artwork) error {
	query := `
		UPDATE artwork SET
			title = $2, description = $3, category = $4, media_url = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		artwork.ID, artwork.Title, artwork.Description, artwork.Category,
		artwork.MediaURL, artwork.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update artwork", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrArtworkNotFound
	}
	return nil
}

func (r *Repository) DeleteArtwork(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM artwork WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete artwork", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrArtworkNotFound
	}
	return nil
}

func (r *Repository) ListArtworks(ctx context.Context) ([]*portfolio.Artwork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artwork ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list artworks", err)
	}
	defer rows.Close()

	artworks := []*portfolio.Artwork{}
	for rows.Next() {
		artwork, err := scanArtwork(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan artwork", err)
		}
		artworks = append(artworks, artwork)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list artworks", err)
	}
	return artworks, nil
}

func (r *Repository) DeleteAllArtworks(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM artwork`)
	if err != nil {
		return 0, r.handlePostgresError("delete all artworks", err)
	}
	return tag.RowsAffected(), nil
}

// Travel operations

const travelColumns = `id, location, country, landmark, start_date, end_date, companions,
	photo_url, photo_date_taken, lat, lng, is_currently_traveling, current_travel_status,
	created_at, updated_at`

func scanTravel(row pgx.Row) (*portfolio.Travel, error) {
	var t portfolio.Travel
	if err := row.Scan(
		&t.ID, &t.Location, &t.Country, &t.Landmark, &t.StartDate, &t.EndDate, &t.Companions,
		&t.PhotoURL, &t.PhotoDateTaken, &t.Lat, &t.Lng, &t.IsCurrentlyTraveling, &t.CurrentTravelStatus,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if t.Companions == nil {
		t.Companions = []string{}
	}
	return &t, nil
}

func companions(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}

func (r *Repository) CreateTravel(ctx context.Context, travel *portfolio.Travel) error {
	query := `
		INSERT INTO travel (` + travelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		travel.ID, travel.Location, travel.Country, travel.Landmark, travel.StartDate, travel.EndDate,
		companions(travel.Companions), travel.PhotoURL, travel.PhotoDateTaken, travel.Lat, travel.Lng,
		travel.IsCurrentlyTraveling, travel.CurrentTravelStatus, travel.CreatedAt, travel.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create travel", err)
	}
	return nil
}

func (r *Repository) GetTravel(ctx context.Context, id uuid.UUID) (*portfolio.Travel, error) {
	query := `SELECT ` + travelColumns + ` FROM travel WHERE id = $1`

	travel, err := scanTravel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrTravelNotFound
		}
		return nil, r.handlePostgresError("get travel", err)
	}
	return travel, nil
}

func (r *Repository) UpdateTravel(ctx context.Context, travel *portfolio.Travel) error {
	query := `
		UPDATE travel SET
			location = $2, country = $3, landmark = $4, start_date = $5, end_date = $6,
			companions = $7, photo_url = $8, photo_date_taken = $9, lat = $10, lng = $11,
			is_currently_traveling = $12, current_travel_status = $13, updated_at = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		travel.ID, travel.Location, travel.Country, travel.Landmark, travel.StartDate, travel.EndDate,
		companions(travel.Companions), travel.PhotoURL, travel.PhotoDateTaken, travel.Lat, travel.Lng,
		travel.IsCurrentlyTraveling, travel.CurrentTravelStatus, travel.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update travel", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrTravelNotFound
	}
	return nil
}

func (r *Repository) DeleteTravel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM travel WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete travel", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrTravelNotFound
	}
	return nil
}

func (r *Repository) queryTravels(ctx context.Context, op, query string, args ...interface{}) ([]*portfolio.Travel, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError(op, err)
	}
	defer rows.Close()

	travels := []*portfolio.Travel{}
	for rows.Next() {
		travel, err := scanTravel(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan travel", err)
		}
		travels = append(travels, travel)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError(op, err)
	}
	return travels, nil
}

func (r *Repository) ListTravels(ctx context.Context) ([]*portfolio.Travel, error) {
	return r.queryTravels(ctx, "list travels",
		`SELECT `+travelColumns+` FROM travel ORDER BY start_date DESC, created_at DESC`)
}

func (r *Repository) DeleteAllTravels(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM travel`)
	if err != nil {
		return 0, r.handlePostgresError("delete all travels", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) GetCurrentTravel(ctx context.Context) (*portfolio.Travel, error) {
	travels, err := r.queryTravels(ctx, "get current travel",
		`SELECT `+travelColumns+` FROM travel WHERE is_currently_traveling
		 ORDER BY start_date DESC, created_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(travels) == 0 {
		return nil, portfolio.ErrTravelNotFound
	}
	return travels[0], nil
}

func (r *Repository) ClearCurrentTravel(ctx context.Context, except uuid.UUID) (int64, error) {
	query := `
		UPDATE travel SET
			is_currently_traveling = false,
			current_travel_status = 'completed',
			updated_at = now()
		WHERE is_currently_traveling AND id <> $1`

	tag, err := r.db.Exec(ctx, query, except)
	if err != nil {
		return 0, r.handlePostgresError("clear current travel", err)
	}
	return tag.RowsAffected(), nil
}
