package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id BIGSERIAL PRIMARY KEY,
			sender_id BIGINT NOT NULL,
			receiver_id BIGINT NOT NULL,
			pair_low BIGINT NOT NULL,
			pair_high BIGINT NOT NULL,
			is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
			is_cancelled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT friend_requests_no_self CHECK (sender_id <> receiver_id),
			CONSTRAINT friend_requests_single_state CHECK (NOT (is_accepted AND is_cancelled)),
			CONSTRAINT friend_requests_pair_ordered CHECK (pair_low < pair_high),
			CONSTRAINT friend_requests_pair_unique UNIQUE (pair_low, pair_high)
			)`,
		`CREATE INDEX IF NOT EXISTS friend_requests_sender_idx ON friend_requests (sender_id)`,
		`CREATE INDEX IF NOT EXISTS friend_requests_receiver_idx ON friend_requests (receiver_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
