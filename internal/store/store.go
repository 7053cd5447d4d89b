// Package store persists training runs, per-generation cost summaries and
// champion policies in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"blackjackga/internal/ga"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	seed        INTEGER NOT NULL,
	config_yaml TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS generations (
	run_id     TEXT NOT NULL,
	generation INTEGER NOT NULL,
	min_cost   REAL NOT NULL,
	max_cost   REAL NOT NULL,
	mean_cost  REAL NOT NULL,
	count      INTEGER NOT NULL,
	PRIMARY KEY (run_id, generation),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS champions (
	champion_id TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	generation  INTEGER NOT NULL,
	cost        REAL NOT NULL,
	genes       BLOB NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Store manages run history in SQLite.
type Store struct {
	db *sql.DB
}

// Generation is one stored per-generation cost summary
type Generation struct {
	Generation int
	Stats      ga.CostStats
}

// Champion is a stored policy snapshot
type Champion struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	Generation int
	Cost       float64
	Genes      []ga.Gene
	CreatedAt  time.Time
}

// Open opens (or creates) a SQLite database and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun registers a new run and returns its id.
func (s *Store) CreateRun(ctx context.Context, seed uint64, configYAML string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, seed, config_yaml, started_at) VALUES (?, ?, ?, ?)`,
		id.String(), int64(seed), configYAML, now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run's completion time.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE run_id = ?`, now(), runID.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

// RecordGeneration stores one generation summary. Re-recording the same
// generation overwrites it.
func (s *Store) RecordGeneration(ctx context.Context, runID uuid.UUID, gen int, stats ga.CostStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, min_cost, max_cost, mean_cost, count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			min_cost = excluded.min_cost,
			max_cost = excluded.max_cost,
			mean_cost = excluded.mean_cost,
			count = excluded.count
	`, runID.String(), gen, stats.Min, stats.Max, stats.Mean, stats.Count)
	if err != nil {
		return fmt.Errorf("record generation %d: %w", gen, err)
	}
	return nil
}

// Generations returns a run's summaries in generation order.
func (s *Store) Generations(ctx context.Context, runID uuid.UUID) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT generation, min_cost, max_cost, mean_cost, count
		FROM generations WHERE run_id = ? ORDER BY generation`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.Generation, &g.Stats.Min, &g.Stats.Max, &g.Stats.Mean, &g.Stats.Count); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SaveChampion stores a policy snapshot for a run.
func (s *Store) SaveChampion(ctx context.Context, runID uuid.UUID, gen int, cost float64, genes []ga.Gene) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO champions (champion_id, run_id, generation, cost, genes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), runID.String(), gen, cost, encodeGenes(genes), now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("save champion: %w", err)
	}
	return id, nil
}

// LatestChampion returns the most recent champion of a run, choosing the
// lowest cost among snapshots of the same generation.
func (s *Store) LatestChampion(ctx context.Context, runID uuid.UUID) (Champion, bool, error) {
	var (
		c              Champion
		id, run, stamp string
		blob           []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT champion_id, run_id, generation, cost, genes, created_at
		FROM champions WHERE run_id = ?
		ORDER BY generation DESC, cost ASC LIMIT 1`, runID.String()).
		Scan(&id, &run, &c.Generation, &c.Cost, &blob, &stamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Champion{}, false, nil
		}
		return Champion{}, false, err
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return Champion{}, false, fmt.Errorf("champion id: %w", err)
	}
	if c.RunID, err = uuid.Parse(run); err != nil {
		return Champion{}, false, fmt.Errorf("run id: %w", err)
	}
	if c.Genes, err = decodeGenes(blob); err != nil {
		return Champion{}, false, fmt.Errorf("decode champion %s: %w", id, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
		return Champion{}, false, fmt.Errorf("champion timestamp: %w", err)
	}
	return c, true, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// encodeGenes packs genes as little-endian int32s
func encodeGenes(genes []ga.Gene) []byte {
	buf := make([]byte, len(genes)*4)
	for i, g := range genes {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(g))
	}
	return buf
}

func decodeGenes(b []byte) ([]ga.Gene, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("gene blob length %d is not a multiple of 4", len(b))
	}
	genes := make([]ga.Gene, len(b)/4)
	for i := range genes {
		genes[i] = ga.Gene(int32(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return genes, nil
}
