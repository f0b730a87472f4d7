package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/pkg/database"
	"github.com/wonny/finlab/backend/pkg/logger"
)

// PostgresStore keeps results in simulation.results as JSONB
type PostgresStore struct {
	db     *database.DB
	opts   Options
	logger *logger.Logger
}

// NewPostgresStore creates a PostgreSQL-backed store. Call EnsureSchema once at startup
func NewPostgresStore(db *database.DB, opts Options, log *logger.Logger) *PostgresStore {
	if log == nil {
		log = logger.Nop()
	}
	return &PostgresStore{
		db:     db,
		opts:   opts,
		logger: log.WithComponent("session.postgres"),
	}
}

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS simulation`,
	`CREATE TABLE IF NOT EXISTS simulation.results (
		id         TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_expires_at ON simulation.results (expires_at)`,
}

// EnsureSchema creates the schema and table if missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

// Save upserts a result
func (s *PostgresStore) Save(ctx context.Context, result *montecarlo.SimulationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal simulation: %w", err)
	}

	var expiresAt *time.Time
	if exp := s.opts.expiresAt(time.Now()); !exp.IsZero() {
		expiresAt = &exp
	}

	query := `
		INSERT INTO simulation.results (id, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := s.db.Pool.Exec(ctx, query, result.ID, payload, result.Timestamp, expiresAt); err != nil {
		return fmt.Errorf("failed to save simulation %s: %w", result.ID, err)
	}
	return nil
}

// Get loads a live result by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*montecarlo.SimulationResult, error) {
	query := `
		SELECT payload
		FROM simulation.results
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var payload []byte
	err := s.db.Pool.QueryRow(ctx, query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation %s: %w", id, err)
	}

	var result montecarlo.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulation %s: %w", id, err)
	}
	return &result, nil
}

// List returns live results ordered by creation time
func (s *PostgresStore) List(ctx context.Context) ([]*montecarlo.SimulationResult, error) {
	query := `
		SELECT payload
		FROM simulation.results
		WHERE expires_at IS NULL OR expires_at > NOW()
		ORDER BY created_at
	`

	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	results := make([]*montecarlo.SimulationResult, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}

		var result montecarlo.SimulationResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal simulation: %w", err)
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// Delete removes a result
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM simulation.results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EvictExpired deletes rows past expires_at
func (s *PostgresStore) EvictExpired(ctx context.Context) (int, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM simulation.results WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to evict expired simulations: %w", err)
	}

	count := int(tag.RowsAffected())
	if count > 0 {
		s.logger.WithField("count", count).Info("Evicted expired simulations")
	}
	return count, nil
}

// Len counts live rows
func (s *PostgresStore) Len(ctx context.Context) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM simulation.results WHERE expires_at IS NULL OR expires_at > NOW()`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count simulations: %w", err)
	}
	return count, nil
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
