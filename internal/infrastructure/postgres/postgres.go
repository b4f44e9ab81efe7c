package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
)

// PostgresRepo is the check event log backed by PostgreSQL. The table is
// append-only: events are inserted and read, never updated or deleted. The
// serial seq column breaks timestamp ties in insertion order.
type PostgresRepo struct {
	Pool *pgxpool.Pool
}

// New creates a new connection pool.
func New(dsn string) (*PostgresRepo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	return &PostgresRepo{Pool: pool}, nil
}

// Close closes the connection pool.
func (r *PostgresRepo) Close() {
	r.Pool.Close()
}

// Ping checks the database connection.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

// AppendEvent inserts a new check event.
func (r *PostgresRepo) AppendEvent(ctx context.Context, ev *entity.CheckEvent) error {
	sql := `INSERT INTO check_events (id, user_id, username, checked_in, ts, latitude, longitude, address)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.Pool.Exec(ctx, sql,
		ev.ID, ev.UserID, ev.Username, ev.CheckedIn, ev.Timestamp,
		ev.Location.Latitude, ev.Location.Longitude, ev.Location.Address)
	return err
}

// ListByTimeRange returns the events with ts in [from, to), in timestamp
// order with insertion order breaking ties.
func (r *PostgresRepo) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*entity.CheckEvent, error) {
	sql := `SELECT id, user_id, username, checked_in, ts, latitude, longitude, address
			FROM check_events WHERE ts >= $1 AND ts < $2 ORDER BY ts ASC, seq ASC`
	rows, err := r.Pool.Query(ctx, sql, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.CheckEvent
	for rows.Next() {
		var ev entity.CheckEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Username, &ev.CheckedIn, &ev.Timestamp,
			&ev.Location.Latitude, &ev.Location.Longitude, &ev.Location.Address); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// LastEventForUser returns the user's most recent event with ts in [from, to),
// or nil when the user has none.
func (r *PostgresRepo) LastEventForUser(ctx context.Context, userID string, from, to time.Time) (*entity.CheckEvent, error) {
	sql := `SELECT id, user_id, username, checked_in, ts, latitude, longitude, address
			FROM check_events WHERE user_id = $1 AND ts >= $2 AND ts < $3
			ORDER BY ts DESC, seq DESC LIMIT 1`
	var ev entity.CheckEvent
	err := r.Pool.QueryRow(ctx, sql, userID, from, to).Scan(
		&ev.ID, &ev.UserID, &ev.Username, &ev.CheckedIn, &ev.Timestamp,
		&ev.Location.Latitude, &ev.Location.Longitude, &ev.Location.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// CountActiveUsers returns how many distinct users produced a check-in event
// in the last windowMinutes.
func (r *PostgresRepo) CountActiveUsers(ctx context.Context, windowMinutes int) (int, error) {
	startTime := time.Now().Add(-time.Duration(windowMinutes) * time.Minute)

	sql := `SELECT COUNT(DISTINCT user_id) FROM check_events WHERE checked_in AND ts >= $1`
	var count int
	if err := r.Pool.QueryRow(ctx, sql, startTime).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
