package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/usecase"
)

type MockEventRepo struct {
	Events []*entity.CheckEvent
}

func (m *MockEventRepo) AppendEvent(ctx context.Context, ev *entity.CheckEvent) error {
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MockEventRepo) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*entity.CheckEvent, error) {
	var out []*entity.CheckEvent
	for _, ev := range m.Events {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MockEventRepo) LastEventForUser(ctx context.Context, userID string, from, to time.Time) (*entity.CheckEvent, error) {
	var last *entity.CheckEvent
	for _, ev := range m.Events {
		if ev.UserID != userID || ev.Timestamp.Before(from) || !ev.Timestamp.Before(to) {
			continue
		}
		if last == nil || !ev.Timestamp.Before(last.Timestamp) {
			last = ev
		}
	}
	return last, nil
}

func (m *MockEventRepo) CountActiveUsers(ctx context.Context, windowMinutes int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(windowMinutes) * time.Minute)
	users := make(map[string]bool)
	for _, ev := range m.Events {
		if ev.CheckedIn && !ev.Timestamp.Before(cutoff) {
			users[ev.UserID] = true
		}
	}
	return len(users), nil
}

var _ usecase.CheckEventRepository = (*MockEventRepo)(nil)

type MockSessionCache struct {
	Sessions     map[string][]*entity.AttendanceSession
	Invalidated  []string
	SetCallCount int
}

func NewMockSessionCache() *MockSessionCache {
	return &MockSessionCache{Sessions: make(map[string][]*entity.AttendanceSession)}
}

func (m *MockSessionCache) SetSessions(ctx context.Context, date string, sessions []*entity.AttendanceSession) error {
	m.Sessions[date] = sessions
	m.SetCallCount++
	return nil
}

func (m *MockSessionCache) GetSessions(ctx context.Context, date string) ([]*entity.AttendanceSession, error) {
	return m.Sessions[date], nil
}

func (m *MockSessionCache) InvalidateSessions(ctx context.Context, date string) error {
	delete(m.Sessions, date)
	m.Invalidated = append(m.Invalidated, date)
	return nil
}

var _ usecase.SessionCache = (*MockSessionCache)(nil)

type MockLiveRepo struct {
	mu    sync.Mutex
	Snaps map[string]*entity.PositionSnapshot
}

func NewMockLiveRepo() *MockLiveRepo {
	return &MockLiveRepo{Snaps: make(map[string]*entity.PositionSnapshot)}
}

func (m *MockLiveRepo) SetSnapshot(ctx context.Context, snap *entity.PositionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snaps[snap.UserID] = snap
	return nil
}

func (m *MockLiveRepo) DeleteSnapshot(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Snaps, userID)
	return nil
}

func (m *MockLiveRepo) ListSnapshots(ctx context.Context) ([]*entity.PositionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.PositionSnapshot, 0, len(m.Snaps))
	for _, snap := range m.Snaps {
		out = append(out, snap)
	}
	return out, nil
}

func (m *MockLiveRepo) UpdateAddress(ctx context.Context, userID, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap, ok := m.Snaps[userID]; ok {
		snap.Address = address
	}
	return nil
}

var _ usecase.LiveLocationRepository = (*MockLiveRepo)(nil)

type MockQueue struct {
	mu       sync.Mutex
	Enqueued []string
}

func (m *MockQueue) Enqueue(ctx context.Context, queue string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, queue)
	return nil
}

func (m *MockQueue) Dequeue(ctx context.Context, queue string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

var _ usecase.QueueRepository = (*MockQueue)(nil)
