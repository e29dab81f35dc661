// Package store persists completed pipeline runs: the metrics collection
// plus the raw association records behind it. Everything stored here is
// derived output, rebuilt fully each run.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/powderline/resort-cli/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = eris.New("store: not found")

// Run describes one persisted pipeline run.
type Run struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	ResortCount      int       `json:"resort_count"`
	AssociationCount int       `json:"association_count"`
}

// Store is the persistence interface for pipeline output.
type Store interface {
	// SaveRun persists a full result set and returns the new run.
	SaveRun(ctx context.Context, metrics []model.ResortMetrics, assocs []model.Association) (*Run, error)

	// LatestRun returns the most recently created run, or ErrNotFound.
	LatestRun(ctx context.Context) (*Run, error)

	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// ListMetrics returns a run's metrics records in their original order,
	// or ErrNotFound for an unknown run.
	ListMetrics(ctx context.Context, runID string) ([]model.ResortMetrics, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
