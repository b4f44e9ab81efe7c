package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/logger"
)

// Rejection explains why a check request was refused. No event is recorded
// for a rejected request.
type Rejection struct {
	Reason string `json:"reason"`
}

// AttendanceService coordinates geofence gating with the append-only event
// log for check-in/check-out requests.
type AttendanceService struct {
	Geofence *GeofenceService
	Events   CheckEventRepository
	Cache    SessionCache
}

// NewAttendanceService creates the check coordinator.
func NewAttendanceService(gf *GeofenceService, events CheckEventRepository, cache SessionCache) *AttendanceService {
	return &AttendanceService{Geofence: gf, Events: events, Cache: cache}
}

// RequestCheckToggle decides a check-in/check-out request and constructs the
// resulting event. Check-ins are gated by the geofence; checkouts are allowed
// from anywhere. The function has no side effects: exactly one of the event
// or the rejection is non-nil, and persistence is the caller's job.
func (s *AttendanceService) RequestCheckToggle(userID, username string, pos entity.GeoPoint, address string, currentlyCheckedIn bool, now time.Time) (*entity.CheckEvent, *Rejection) {
	if !currentlyCheckedIn {
		if decision := s.Geofence.CanCheckIn(pos); !decision.Allowed {
			return nil, &Rejection{Reason: decision.Reason}
		}
	}

	return &entity.CheckEvent{
		UserID:    userID,
		Username:  username,
		CheckedIn: !currentlyCheckedIn,
		Timestamp: now,
		Location: entity.Location{
			GeoPoint: pos,
			Address:  address,
		},
	}, nil
}

// CheckToggle validates the position, decides the request, and persists the
// accepted event. The cached sessions for the event's date are invalidated so
// the next read reflects it.
func (s *AttendanceService) CheckToggle(ctx context.Context, userID, username string, pos entity.GeoPoint, address string, currentlyCheckedIn bool) (*entity.CheckEvent, *Rejection, error) {
	if err := pos.Validate(); err != nil {
		return nil, nil, err
	}

	ev, rejection := s.RequestCheckToggle(userID, username, pos, address, currentlyCheckedIn, time.Now())
	if rejection != nil {
		return nil, rejection, nil
	}

	ev.ID = uuid.NewString()
	if err := s.Events.AppendEvent(ctx, ev); err != nil {
		return nil, nil, fmt.Errorf("append check event: %w", err)
	}

	if err := s.Cache.InvalidateSessions(ctx, DateKey(ev.Timestamp)); err != nil {
		logger.Sugar.Warnw("failed to invalidate session cache", "date", DateKey(ev.Timestamp), "err", err)
	}

	return ev, nil, nil
}
