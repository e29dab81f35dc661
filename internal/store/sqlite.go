package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/powderline/resort-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	resort_count      INTEGER NOT NULL,
	association_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resort_metrics (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	resort_id   INTEGER NOT NULL,
	resort_type TEXT NOT NULL,
	name        TEXT NOT NULL,
	record      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS associations (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	resort_id    INTEGER NOT NULL,
	resort_type  TEXT NOT NULL,
	element_kind TEXT NOT NULL,
	element_id   INTEGER NOT NULL,
	record       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resort_metrics_run_id ON resort_metrics(run_id);
CREATE INDEX IF NOT EXISTS idx_associations_run_id ON associations(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, metrics []model.ResortMetrics, assocs []model.Association) (*Run, error) {
	run := &Run{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		ResortCount:      len(metrics),
		AssociationCount: len(assocs),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, resort_count, association_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.ResortCount, run.AssociationCount,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	for i := range metrics {
		record, err := json.Marshal(&metrics[i])
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal metrics")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resort_metrics (run_id, resort_id, resort_type, name, record) VALUES (?, ?, ?, ?, ?)`,
			run.ID, metrics[i].ResortID, metrics[i].ResortType, metrics[i].Name, string(record),
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: insert metrics")
		}
	}

	for i := range assocs {
		record, err := json.Marshal(&assocs[i])
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal association")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO associations (run_id, resort_id, resort_type, element_kind, element_id, record) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, assocs[i].ResortID, assocs[i].ResortType, string(assocs[i].Element.Kind), assocs[i].Element.ID, string(record),
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: insert association")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return run, nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, resort_count, association_count FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var run Run
	if err := row.Scan(&run.ID, &run.CreatedAt, &run.ResortCount, &run.AssociationCount); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: latest run")
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, resort_count, association_count FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.ResortCount, &run.AssociationCount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) ListMetrics(ctx context.Context, runID string) ([]model.ResortMetrics, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, eris.Wrap(err, "sqlite: check run")
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM resort_metrics WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list metrics")
	}
	defer rows.Close()

	var metrics []model.ResortMetrics
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan metrics")
		}
		var m model.ResortMetrics
		if err := json.Unmarshal([]byte(record), &m); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal metrics")
		}
		metrics = append(metrics, m)
	}
	return metrics, eris.Wrap(rows.Err(), "sqlite: iterate metrics")
}
