package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/powderline/resort-cli/internal/db"
	"github.com/powderline/resort-cli/internal/model"
)

// PostgresStore implements Store on a pgx pool. Associations are bulk-loaded
// with COPY; metrics carry an explicit sequence column to preserve input
// order.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres connects to PostgreSQL and wraps the pool in a store.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	resort_count      INTEGER NOT NULL,
	association_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resort_metrics (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	seq         INTEGER NOT NULL,
	resort_id   BIGINT NOT NULL,
	resort_type TEXT NOT NULL,
	name        TEXT NOT NULL,
	centroid    BYTEA,
	record      JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS associations (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	resort_id    BIGINT NOT NULL,
	resort_type  TEXT NOT NULL,
	element_kind TEXT NOT NULL,
	element_id   BIGINT NOT NULL,
	record       JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resort_metrics_run_id ON resort_metrics(run_id);
CREATE INDEX IF NOT EXISTS idx_associations_run_id ON associations(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, metrics []model.ResortMetrics, assocs []model.Association) (*Run, error) {
	run := &Run{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		ResortCount:      len(metrics),
		AssociationCount: len(assocs),
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, created_at, resort_count, association_count) VALUES ($1, $2, $3, $4)`,
		run.ID, run.CreatedAt, run.ResortCount, run.AssociationCount,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	metricRows := make([][]any, 0, len(metrics))
	for i := range metrics {
		record, err := json.Marshal(&metrics[i])
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal metrics")
		}
		centroid, err := centroidEWKB(&metrics[i])
		if err != nil {
			return nil, err
		}
		metricRows = append(metricRows, []any{
			run.ID, i, metrics[i].ResortID, metrics[i].ResortType, metrics[i].Name, centroid, record,
		})
	}
	if _, err := db.CopyFrom(ctx, s.pool, "resort_metrics",
		[]string{"run_id", "seq", "resort_id", "resort_type", "name", "centroid", "record"}, metricRows,
	); err != nil {
		return nil, err
	}

	assocRows := make([][]any, 0, len(assocs))
	for i := range assocs {
		record, err := json.Marshal(&assocs[i])
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal association")
		}
		assocRows = append(assocRows, []any{
			run.ID, assocs[i].ResortID, assocs[i].ResortType,
			string(assocs[i].Element.Kind), assocs[i].Element.ID, record,
		})
	}
	if _, err := db.CopyFrom(ctx, s.pool, "associations",
		[]string{"run_id", "resort_id", "resort_type", "element_kind", "element_id", "record"}, assocRows,
	); err != nil {
		return nil, err
	}

	return run, nil
}

// centroidEWKB encodes the resort centroid as an EWKB point with SRID 4326,
// or nil when the resort has no centroid.
func centroidEWKB(m *model.ResortMetrics) ([]byte, error) {
	if !m.HasCentroid {
		return nil, nil
	}
	pt := geom.NewPointFlat(geom.XY, []float64{m.CentroidLon, m.CentroidLat}).SetSRID(4326)
	data, err := ewkb.Marshal(pt, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: encode centroid")
	}
	return data, nil
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, resort_count, association_count FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var run Run
	if err := row.Scan(&run.ID, &run.CreatedAt, &run.ResortCount, &run.AssociationCount); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: latest run")
	}
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, resort_count, association_count FROM runs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.ResortCount, &run.AssociationCount); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) ListMetrics(ctx context.Context, runID string) ([]model.ResortMetrics, error) {
	var exists int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM runs WHERE id = $1`, runID).Scan(&exists); err != nil {
		return nil, eris.Wrap(err, "postgres: check run")
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.pool.Query(ctx,
		`SELECT record FROM resort_metrics WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list metrics")
	}
	defer rows.Close()

	var metrics []model.ResortMetrics
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, eris.Wrap(err, "postgres: scan metrics")
		}
		var m model.ResortMetrics
		if err := json.Unmarshal(record, &m); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal metrics")
		}
		metrics = append(metrics, m)
	}
	return metrics, eris.Wrap(rows.Err(), "postgres: iterate metrics")
}

// Open constructs a store from driver name and DSN. Recognized drivers are
// "sqlite" and "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
