// Package postgres reads tutor usage counters directly from the project
// database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/lingua"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Interface compliance check.
var _ lingua.ProgressStore = (*ProgressStore)(nil)

const progressQuery = `SELECT user_id::text,
	COALESCE(total_lessons, 0),
	COALESCE(total_words, 0),
	COALESCE(total_time_seconds, 0),
	COALESCE(current_streak, 0),
	COALESCE(longest_streak, 0)
FROM user_progress
WHERE user_id::text = $1
LIMIT 1`

// ProgressStore implements [lingua.ProgressStore] over the user_progress
// table. It never writes.
type ProgressStore struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*ProgressStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &ProgressStore{pool: pool}, nil
}

// New wraps an existing pool. The caller keeps ownership of the pool.
func New(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

// Close releases the pool.
func (s *ProgressStore) Close() {
	s.pool.Close()
}

// Progress returns the counters for userID, or [lingua.ErrNoProgress] when
// the user has none yet.
func (s *ProgressStore) Progress(ctx context.Context, userID string) (lingua.Progress, error) {
	if userID == "" {
		return lingua.Progress{}, fmt.Errorf("postgres: user id is required: %w", lingua.ErrValidation)
	}
	var p lingua.Progress
	err := s.pool.QueryRow(ctx, progressQuery, userID).Scan(
		&p.UserID,
		&p.TotalLessons,
		&p.TotalWords,
		&p.TotalTimeSeconds,
		&p.CurrentStreak,
		&p.LongestStreak,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return lingua.Progress{}, fmt.Errorf("postgres: user %s: %w", userID, lingua.ErrNoProgress)
	}
	if err != nil {
		return lingua.Progress{}, fmt.Errorf("postgres: read progress: %w", err)
	}
	return p, nil
}
