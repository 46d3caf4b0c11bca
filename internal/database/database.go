// Package database persists match lifecycle snapshots to Postgres. The
// live match state stays in memory; only the initial setup and final
// result are written, for replay and audit.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil until ConnectDB succeeds;
// callers must check before persisting.
var DB *pgxpool.Pool

// ConnectDB opens the pool and verifies connectivity. An empty URL
// leaves persistence disabled.
func ConnectDB(ctx context.Context, url string) error {
	if url == "" {
		logrus.Info("database: no DATABASE_URL set, persistence disabled")
		return nil
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("database: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("database: ping: %w", err)
	}
	DB = pool
	logrus.Info("database: connected to postgres")
	return nil
}

// EnsureSchema creates the match snapshot tables when missing.
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database: pool not initialized")
	}
	_, err := DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_initial_states (
			match_id   UUID PRIMARY KEY,
			state      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS match_final_states (
			match_id   UUID PRIMARY KEY,
			state      JSONB NOT NULL,
			winner     SMALLINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("database: ensure schema: %w", err)
	}
	return nil
}

// UpsertInitialMatchState stores the board snapshot a match started
// from.
func UpsertInitialMatchState(ctx context.Context, matchID uuid.UUID, snapshot interface{}) error {
	if DB == nil {
		return fmt.Errorf("database: pool not initialized")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("database: marshal initial state for match %s: %w", matchID, err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO match_initial_states (match_id, state)
		VALUES ($1, $2)
		ON CONFLICT (match_id) DO UPDATE SET state = EXCLUDED.state
	`, matchID, data)
	if err != nil {
		return fmt.Errorf("database: upsert initial state for match %s: %w", matchID, err)
	}
	return nil
}

// StoreFinalMatchState stores the final standings when a match ends.
func StoreFinalMatchState(ctx context.Context, matchID uuid.UUID, winner int8, snapshot interface{}) error {
	if DB == nil {
		return fmt.Errorf("database: pool not initialized")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("database: marshal final state for match %s: %w", matchID, err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO match_final_states (match_id, state, winner)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id) DO UPDATE SET state = EXCLUDED.state, winner = EXCLUDED.winner
	`, matchID, data, winner)
	if err != nil {
		return fmt.Errorf("database: store final state for match %s: %w", matchID, err)
	}
	return nil
}
