package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/memory"
)

func newTravel(location string, start time.Time, current bool) *portfolio.Travel {
	status := portfolio.TravelStatusCompleted
	if current {
		status = portfolio.TravelStatusTraveling
	}
	return &portfolio.Travel{
		ID:                   uuid.New(),
		Location:             location,
		StartDate:            start,
		Companions:           []string{"Ana"},
		IsCurrentlyTraveling: current,
		CurrentTravelStatus:  status,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
}

func TestMemoryRepository_ArtworkOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := &portfolio.Artwork{ID: uuid.New(), Title: "Older", Description: "d", Category: portfolio.CategoryCeramic, CreatedAt: base}
	newer := &portfolio.Artwork{ID: uuid.New(), Title: "Newer", Description: "d", Category: portfolio.CategoryPainting, CreatedAt: base.Add(time.Hour)}

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, repo.CreateArtwork(ctx, older))
		require.NoError(t, repo.CreateArtwork(ctx, newer))

		got, err := repo.GetArtwork(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Older", got.Title)

		// Returned records are copies
		got.Title = "mutated"
		again, err := repo.GetArtwork(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Older", again.Title)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		list, err := repo.ListArtworks(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
	})

	t.Run("Update", func(t *testing.T) {
		updated := *older
		updated.Title = "Renamed"
		require.NoError(t, repo.UpdateArtwork(ctx, &updated))

		got, err := repo.GetArtwork(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)

		missing := &portfolio.Artwork{ID: uuid.New()}
		assert.ErrorIs(t, repo.UpdateArtwork(ctx, missing), portfolio.ErrArtworkNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteArtwork(ctx, older.ID))
		_, err := repo.GetArtwork(ctx, older.ID)
		assert.ErrorIs(t, err, portfolio.ErrArtworkNotFound)
		assert.ErrorIs(t, repo.DeleteArtwork(ctx, older.ID), portfolio.ErrArtworkNotFound)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		n, err := repo.DeleteAllArtworks(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		list, err := repo.ListArtworks(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryRepository_TravelOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	lisbon := newTravel("Lisbon", base, false)
	kyoto := newTravel("Kyoto", base.AddDate(0, 2, 0), true)
	lat := 38.72
	lisbon.Lat = &lat

	require.NoError(t, repo.CreateTravel(ctx, lisbon))
	require.NoError(t, repo.CreateTravel(ctx, kyoto))

	t.Run("DeepCopy", func(t *testing.T) {
		lat = 0
		lisbon.Companions[0] = "changed"

		got, err := repo.GetTravel(ctx, lisbon.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Lat)
		assert.Equal(t, 38.72, *got.Lat)
		assert.Equal(t, []string{"Ana"}, got.Companions)
	})

	t.Run("ListLatestStartFirst", func(t *testing.T) {
		list, err := repo.ListTravels(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Kyoto", list[0].Location)
	})

	t.Run("GetCurrentTravel", func(t *testing.T) {
		current, err := repo.GetCurrentTravel(ctx)
		require.NoError(t, err)
		assert.Equal(t, kyoto.ID, current.ID)
	})

	t.Run("ClearCurrentTravelExcept", func(t *testing.T) {
		n, err := repo.ClearCurrentTravel(ctx, kyoto.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		n, err = repo.ClearCurrentTravel(ctx, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := repo.GetTravel(ctx, kyoto.ID)
		require.NoError(t, err)
		assert.False(t, got.IsCurrentlyTraveling)
		assert.Equal(t, portfolio.TravelStatusCompleted, got.CurrentTravelStatus)

		_, err = repo.GetCurrentTravel(ctx)
		assert.ErrorIs(t, err, portfolio.ErrTravelNotFound)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		n, err := repo.DeleteAllTravels(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestMemoryRepository_WithinTx(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	active := newTravel("Oslo", time.Now(), true)
	require.NoError(t, repo.CreateTravel(ctx, active))

	t.Run("RollbackOnError", func(t *testing.T) {
		boom := errors.New("write failed")
		err := repo.WithinTx(ctx, func(tx portfolio.TravelRepository) error {
			n, err := tx.ClearCurrentTravel(ctx, uuid.Nil)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.GetTravel(ctx, active.ID)
		require.NoError(t, err)
		assert.True(t, got.IsCurrentlyTraveling)
	})

	t.Run("Commit", func(t *testing.T) {
		next := newTravel("Bergen", time.Now(), true)
		err := repo.WithinTx(ctx, func(tx portfolio.TravelRepository) error {
			if _, err := tx.ClearCurrentTravel(ctx, next.ID); err != nil {
				return err
			}
			return tx.CreateTravel(ctx, next)
		})
		require.NoError(t, err)

		current, err := repo.GetCurrentTravel(ctx)
		require.NoError(t, err)
		assert.Equal(t, next.ID, current.ID)

		old, err := repo.GetTravel(ctx, active.ID)
		require.NoError(t, err)
		assert.False(t, old.IsCurrentlyTraveling)
	})
}
