package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
)

// Keys.
const (
	liveLocationsKey   = "user_locations"
	sessionCachePrefix = "sessions:"
)

// RedisRepo backs the live location store, the geocode task queue, and the
// daily session cache.
type RedisRepo struct {
	Client     *redis.Client
	SessionTTL time.Duration
}

// New creates a new Redis connection.
func New(addr string, sessionTTL time.Duration) (*RedisRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepo{Client: client, SessionTTL: sessionTTL}, nil
}

// Close closes the connection.
func (r *RedisRepo) Close() {
	r.Client.Close()
}

// Ping checks Redis availability.
func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Live locations

// SetSnapshot stores the user's latest position snapshot.
func (r *RedisRepo) SetSnapshot(ctx context.Context, snap *entity.PositionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.Client.HSet(ctx, liveLocationsKey, snap.UserID, data).Err()
}

// DeleteSnapshot removes the user from the live store.
func (r *RedisRepo) DeleteSnapshot(ctx context.Context, userID string) error {
	return r.Client.HDel(ctx, liveLocationsKey, userID).Err()
}

// ListSnapshots returns every user's latest snapshot.
func (r *RedisRepo) ListSnapshots(ctx context.Context) ([]*entity.PositionSnapshot, error) {
	vals, err := r.Client.HGetAll(ctx, liveLocationsKey).Result()
	if err != nil {
		return nil, err
	}

	snaps := make([]*entity.PositionSnapshot, 0, len(vals))
	for _, raw := range vals {
		var snap entity.PositionSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}
	return snaps, nil
}

// UpdateAddress sets the resolved address on an existing snapshot. A user
// that went offline in the meantime is left removed.
func (r *RedisRepo) UpdateAddress(ctx context.Context, userID, address string) error {
	raw, err := r.Client.HGet(ctx, liveLocationsKey, userID).Result()
	if err == redis.Nil {
		return nil // user is gone, nothing to update
	}
	if err != nil {
		return err
	}

	var snap entity.PositionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return err
	}
	snap.Address = address

	data, err := json.Marshal(&snap)
	if err != nil {
		return err
	}
	return r.Client.HSet(ctx, liveLocationsKey, userID, data).Err()
}

// Queue

// Enqueue adds a task to the list queue (LPush).
func (r *RedisRepo) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.Client.LPush(ctx, queueName, data).Err()
}

// Dequeue pops a task from the queue (BRPop, blocking read).
func (r *RedisRepo) Dequeue(ctx context.Context, queueName string) (string, error) {
	// BRPop blocks until an element arrives. 0 = wait forever.
	result, err := r.Client.BRPop(ctx, 0, queueName).Result()
	if err != nil {
		return "", err
	}
	// result holds [queue name, value]
	if len(result) < 2 {
		return "", fmt.Errorf("redis pop unexpected result")
	}
	return result[1], nil
}

// Session cache

// SetSessions caches the reconciled sessions for a date with TTL.
func (r *RedisRepo) SetSessions(ctx context.Context, date string, sessions []*entity.AttendanceSession) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, sessionCachePrefix+date, data, r.SessionTTL).Err()
}

// GetSessions returns the cached sessions for a date, or nil on a miss.
func (r *RedisRepo) GetSessions(ctx context.Context, date string) ([]*entity.AttendanceSession, error) {
	val, err := r.Client.Get(ctx, sessionCachePrefix+date).Result()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}

	var sessions []*entity.AttendanceSession
	if err := json.Unmarshal([]byte(val), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// InvalidateSessions drops the cached sessions for a date.
func (r *RedisRepo) InvalidateSessions(ctx context.Context, date string) error {
	return r.Client.Del(ctx, sessionCachePrefix+date).Err()
}
