package portfolio

import (
	"context"
	"fmt"
	"log/slog"
)

// currentTravelGuard keeps at most one travel entry flagged as current.
//
// Before a write that flags an entry, every other flagged entry is unflagged
// and marked completed. When the repository implements Transactor both steps
// commit together; otherwise the clear is awaited before the write is issued,
// which still leaves a window for concurrent writers.
type currentTravelGuard struct {
	repo    TravelRepository
	logger  *slog.Logger
	metrics MetricsRecorder
}

// commit runs write for travel, clearing competing flags first
func (g *currentTravelGuard) commit(ctx context.Context, travel *Travel, write func(ctx context.Context, repo TravelRepository) error) error {
	var cleared int64
	unit := func(repo TravelRepository) error {
		cleared = 0
		if travel.IsCurrentlyTraveling {
			n, err := repo.ClearCurrentTravel(ctx, travel.ID)
			if err != nil {
				return fmt.Errorf("clear current travel: %w", err)
			}
			cleared = n
		}
		return write(ctx, repo)
	}

	var err error
	if tx, ok := g.repo.(Transactor); ok {
		err = tx.WithinTx(ctx, unit)
	} else {
		err = unit(g.repo)
	}
	if err != nil {
		return err
	}

	if cleared > 0 {
		g.logger.Info("current travel reassigned", "travel_id", travel.ID, "cleared", cleared)
		g.metrics.CurrentTravelCleared(cleared)
	}
	return nil
}
