package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/logger"
)

// DateKey formats a timestamp as the local calendar date used to bucket
// events and sessions.
func DateKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// ReconcileState accumulates attendance sessions for one calendar date as
// events are applied. It is plain state with no locking; the caller applies
// one batch at a time.
type ReconcileState struct {
	date   string
	byUser map[string][]*entity.AttendanceSession
}

// NewReconcileState starts reconciliation for the calendar date of forDate.
func NewReconcileState(forDate time.Time) *ReconcileState {
	return &ReconcileState{
		date:   DateKey(forDate),
		byUser: make(map[string][]*entity.AttendanceSession),
	}
}

// ApplyEvent folds one event into the state. Events outside the state's date
// are ignored. A check-in always opens a new session; a checkout closes the
// most recent open session, or records an orphan session when none is open.
func (st *ReconcileState) ApplyEvent(ev *entity.CheckEvent) {
	if DateKey(ev.Timestamp) != st.date {
		return
	}

	sessions := st.byUser[ev.UserID]

	if ev.CheckedIn {
		ts := ev.Timestamp
		st.byUser[ev.UserID] = append(sessions, &entity.AttendanceSession{
			UserID:   ev.UserID,
			Username: ev.Username,
			Date:     st.date,
			CheckIn:  &ts,
			Address:  ev.Location.Address,
		})
		return
	}

	// Checkout: match the most recent open session.
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Open() {
			ts := ev.Timestamp
			sessions[i].CheckOut = &ts
			return
		}
	}

	// No open session for this user: record an orphan rather than dropping
	// the checkout.
	ts := ev.Timestamp
	st.byUser[ev.UserID] = append(sessions, &entity.AttendanceSession{
		UserID:   ev.UserID,
		Username: ev.Username,
		Date:     st.date,
		CheckOut: &ts,
		Address:  ev.Location.Address,
	})
}

// Sessions returns all users' sessions for the date, ordered by the earliest
// meaningful timestamp (check-in when present, otherwise checkout).
func (st *ReconcileState) Sessions() []*entity.AttendanceSession {
	var out []*entity.AttendanceSession
	for _, sessions := range st.byUser {
		out = append(out, sessions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt().Before(out[j].StartedAt())
	})
	return out
}

// Reconcile reduces a set of check events to attendance sessions for one
// calendar date. The result is a pure function of the event set: replaying
// the same events yields the same sessions. Events are processed in ascending
// timestamp order with ties keeping arrival order.
func Reconcile(events []*entity.CheckEvent, forDate time.Time) []*entity.AttendanceSession {
	ordered := make([]*entity.CheckEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	st := NewReconcileState(forDate)
	for _, ev := range ordered {
		st.ApplyEvent(ev)
	}
	return st.Sessions()
}

// SessionService serves reconciled attendance views over the event log,
// caching per-date results.
type SessionService struct {
	Events CheckEventRepository
	Cache  SessionCache
}

// NewSessionService creates a session service.
func NewSessionService(events CheckEventRepository, cache SessionCache) *SessionService {
	return &SessionService{Events: events, Cache: cache}
}

// dayBounds returns the local [start, end) range of the date's calendar day.
func dayBounds(date time.Time) (time.Time, time.Time) {
	local := date.Local()
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 0, 1)
}

// DailySessions returns the attendance sessions for the given date, from
// cache when fresh, otherwise reconciled from the event log.
func (s *SessionService) DailySessions(ctx context.Context, date time.Time) ([]*entity.AttendanceSession, error) {
	key := DateKey(date)

	if cached, err := s.Cache.GetSessions(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	from, to := dayBounds(date)
	events, err := s.Events.ListByTimeRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	sessions := Reconcile(events, date)
	if err := s.Cache.SetSessions(ctx, key, sessions); err != nil {
		logger.Sugar.Warnw("failed to cache sessions", "date", key, "err", err)
	}
	return sessions, nil
}

// IsCheckedIn reports whether the user's most recent event today is a
// check-in, i.e. whether the next toggle should be a checkout.
func (s *SessionService) IsCheckedIn(ctx context.Context, userID string, now time.Time) (bool, error) {
	from, to := dayBounds(now)
	last, err := s.Events.LastEventForUser(ctx, userID, from, to)
	if err != nil {
		return false, err
	}
	if last == nil {
		return false, nil
	}
	return last.CheckedIn, nil
}

// ActiveUsers counts distinct users with a check-in event inside the recent
// window.
func (s *SessionService) ActiveUsers(ctx context.Context, windowMinutes int) (int, error) {
	return s.Events.CountActiveUsers(ctx, windowMinutes)
}
