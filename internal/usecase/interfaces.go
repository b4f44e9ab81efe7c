package usecase

import (
	"context"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
)

// CheckEventRepository is the append-only check event log. Events are never
// updated or deleted.
type CheckEventRepository interface {
	AppendEvent(ctx context.Context, ev *entity.CheckEvent) error
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]*entity.CheckEvent, error)
	LastEventForUser(ctx context.Context, userID string, from, to time.Time) (*entity.CheckEvent, error)
	CountActiveUsers(ctx context.Context, windowMinutes int) (int, error)
}

// LiveLocationRepository stores the latest position snapshot per user.
type LiveLocationRepository interface {
	SetSnapshot(ctx context.Context, snap *entity.PositionSnapshot) error
	DeleteSnapshot(ctx context.Context, userID string) error
	ListSnapshots(ctx context.Context) ([]*entity.PositionSnapshot, error)
	UpdateAddress(ctx context.Context, userID, address string) error
}

// QueueRepository is a task queue (geocode resolution tasks).
type QueueRepository interface {
	Enqueue(ctx context.Context, queue string, payload interface{}) error
	Dequeue(ctx context.Context, queue string) (string, error) // returns payload JSON
}

// SessionCache caches reconciled daily sessions keyed by date (YYYY-MM-DD).
type SessionCache interface {
	SetSessions(ctx context.Context, date string, sessions []*entity.AttendanceSession) error
	GetSessions(ctx context.Context, date string) ([]*entity.AttendanceSession, error)
	InvalidateSessions(ctx context.Context, date string) error
}

// Geocoder resolves coordinates to a display address. Implementations return
// a fallback string rather than an empty address when the upstream has no
// result; transport failures surface as errors.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}
