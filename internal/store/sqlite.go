// Package store persists run metadata, place centroids, and direction
// distributions in a local SQLite database so later stages and the API
// server can reuse them without recomputing.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/distribution"
)

// Store wraps a SQLite database using modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	shapefile       TEXT NOT NULL,
	place_count     INTEGER NOT NULL,
	relation_count  INTEGER NOT NULL,
	partition_count INTEGER NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS places (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	seq       INTEGER NOT NULL,
	name      TEXT NOT NULL,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);

CREATE TABLE IF NOT EXISTS distributions (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	direction  TEXT NOT NULL,
	count      INTEGER NOT NULL,
	percentage REAL NOT NULL,
	PRIMARY KEY (run_id, direction)
);

CREATE INDEX IF NOT EXISTS idx_places_run_seq ON places(run_id, seq);
`

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one recorded relations run.
type Run struct {
	ID             string
	Shapefile      string
	PlaceCount     int
	RelationCount  int
	PartitionCount int
	CreatedAt      time.Time
}

// CreateRun records a run and its place centroids in one transaction.
func (s *Store) CreateRun(ctx context.Context, shapefile string, mapping *centroid.Mapping, relationCount, partitionCount int) (*Run, error) {
	run := &Run{
		ID:             uuid.NewString(),
		Shapefile:      shapefile,
		PlaceCount:     mapping.Len(),
		RelationCount:  relationCount,
		PartitionCount: partitionCount,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "store: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, shapefile, place_count, relation_count, partition_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Shapefile, run.PlaceCount, run.RelationCount, run.PartitionCount, run.CreatedAt,
	); err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO places (run_id, seq, name, latitude, longitude) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "store: prepare places insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, name := range mapping.Names {
		c := mapping.Coords[name]
		if _, err := stmt.ExecContext(ctx, run.ID, i, name, c.Lat, c.Lon); err != nil {
			return nil, eris.Wrapf(err, "store: insert place %s", name)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "store: commit run")
	}
	return run, nil
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, shapefile, place_count, relation_count, partition_count, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT 1`,
	).Scan(&run.ID, &run.Shapefile, &run.PlaceCount, &run.RelationCount, &run.PartitionCount, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("store: no runs recorded")
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: query latest run")
	}
	return &run, nil
}

// Places returns the centroid mapping recorded for a run, in the
// original shapefile record order.
func (s *Store) Places(ctx context.Context, runID string) (*centroid.Mapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, latitude, longitude FROM places WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query places")
	}
	defer rows.Close()

	mapping := &centroid.Mapping{Coords: make(map[string]centroid.Coordinate)}
	for rows.Next() {
		var name string
		var c centroid.Coordinate
		if err := rows.Scan(&name, &c.Lat, &c.Lon); err != nil {
			return nil, eris.Wrap(err, "store: scan place row")
		}
		mapping.Names = append(mapping.Names, name)
		mapping.Coords[name] = c
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate place rows")
	}
	if mapping.Len() == 0 {
		return nil, eris.Errorf("store: no places recorded for run %s", runID)
	}
	return mapping, nil
}

// SaveDistribution records the direction distribution for a run,
// replacing any previous summary.
func (s *Store) SaveDistribution(ctx context.Context, runID string, summary *distribution.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM distributions WHERE run_id = ?`, runID); err != nil {
		return eris.Wrap(err, "store: clear distribution")
	}
	for _, row := range summary.Rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO distributions (run_id, direction, count, percentage) VALUES (?, ?, ?, ?)`,
			runID, row.Direction, row.Count, row.Percentage,
		); err != nil {
			return eris.Wrapf(err, "store: insert distribution row %s", row.Direction)
		}
	}

	return eris.Wrap(tx.Commit(), "store: commit distribution")
}

// Distribution returns the stored summary for a run.
func (s *Store) Distribution(ctx context.Context, runID string) (*distribution.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT direction, count, percentage FROM distributions WHERE run_id = ? ORDER BY direction`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query distribution")
	}
	defer rows.Close()

	summary := &distribution.Summary{}
	for rows.Next() {
		var row distribution.Row
		if err := rows.Scan(&row.Direction, &row.Count, &row.Percentage); err != nil {
			return nil, eris.Wrap(err, "store: scan distribution row")
		}
		summary.Rows = append(summary.Rows, row)
		summary.Total += row.Count
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate distribution rows")
	}
	if summary.Total == 0 {
		return nil, eris.Errorf("store: no distribution recorded for run %s", runID)
	}
	return summary, nil
}
