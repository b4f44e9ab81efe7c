package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/usecase"
)

func newAttendanceService() (*usecase.AttendanceService, *MockEventRepo, *MockSessionCache) {
	repo := &MockEventRepo{}
	cache := NewMockSessionCache()
	svc := usecase.NewAttendanceService(usecase.NewGeofenceService(officeZone), repo, cache)
	return svc, repo, cache
}

func TestRequestCheckToggleDeniedOutside(t *testing.T) {
	svc, _, _ := newAttendanceService()

	outside := entity.GeoPoint{Latitude: 17.5, Longitude: 78.5}
	ev, rejection := svc.RequestCheckToggle("u1", "anna", outside, "", false, time.Now())

	if ev != nil {
		t.Errorf("Expected no event on denial, got %+v", ev)
	}
	if rejection == nil || rejection.Reason == "" {
		t.Fatalf("Expected a rejection with reason, got %+v", rejection)
	}
}

func TestRequestCheckToggleCheckInInside(t *testing.T) {
	svc, _, _ := newAttendanceService()

	now := time.Now()
	ev, rejection := svc.RequestCheckToggle("u1", "anna", officeZone.Center, "Office Road", false, now)

	if rejection != nil {
		t.Fatalf("Unexpected rejection: %+v", rejection)
	}
	if ev == nil || !ev.CheckedIn {
		t.Fatalf("Expected a check-in event, got %+v", ev)
	}
	if !ev.Timestamp.Equal(now) || ev.Location.Address != "Office Road" {
		t.Errorf("Event fields wrong: %+v", ev)
	}
}

func TestRequestCheckToggleCheckoutFromAnywhere(t *testing.T) {
	svc, _, _ := newAttendanceService()

	// Far outside the zone, but checkouts are never gated.
	outside := entity.GeoPoint{Latitude: 28.6139, Longitude: 77.2090}
	ev, rejection := svc.RequestCheckToggle("u1", "anna", outside, "", true, time.Now())

	if rejection != nil {
		t.Fatalf("Unexpected rejection on checkout: %+v", rejection)
	}
	if ev == nil || ev.CheckedIn {
		t.Fatalf("Expected a checkout event, got %+v", ev)
	}
}

func TestCheckTogglePersistsAndInvalidatesCache(t *testing.T) {
	svc, repo, cache := newAttendanceService()

	ev, rejection, err := svc.CheckToggle(context.Background(), "u1", "anna", officeZone.Center, "Office Road", false)
	if err != nil || rejection != nil {
		t.Fatalf("Unexpected outcome: err=%v rejection=%+v", err, rejection)
	}
	if ev.ID == "" {
		t.Error("Expected a generated event ID")
	}
	if len(repo.Events) != 1 {
		t.Fatalf("Expected 1 persisted event, got %d", len(repo.Events))
	}
	if len(cache.Invalidated) != 1 || cache.Invalidated[0] != usecase.DateKey(ev.Timestamp) {
		t.Errorf("Expected session cache invalidation for %s, got %v",
			usecase.DateKey(ev.Timestamp), cache.Invalidated)
	}
}

func TestCheckToggleDenialRecordsNothing(t *testing.T) {
	svc, repo, cache := newAttendanceService()

	outside := entity.GeoPoint{Latitude: 17.5, Longitude: 78.5}
	ev, rejection, err := svc.CheckToggle(context.Background(), "u1", "anna", outside, "", false)
	if err != nil {
		t.Fatalf("Denial must not be an error: %v", err)
	}
	if ev != nil || rejection == nil {
		t.Fatalf("Expected rejection only, got ev=%+v rejection=%+v", ev, rejection)
	}
	if len(repo.Events) != 0 {
		t.Errorf("Expected no persisted events, got %d", len(repo.Events))
	}
	if len(cache.Invalidated) != 0 {
		t.Errorf("Expected no cache invalidation, got %v", cache.Invalidated)
	}
}

func TestCheckToggleRejectsInvalidCoordinate(t *testing.T) {
	svc, repo, _ := newAttendanceService()

	bad := entity.GeoPoint{Latitude: math.NaN(), Longitude: 0}
	_, _, err := svc.CheckToggle(context.Background(), "u1", "anna", bad, "", false)
	if !errors.Is(err, entity.ErrInvalidCoordinate) {
		t.Fatalf("Expected ErrInvalidCoordinate, got %v", err)
	}
	if len(repo.Events) != 0 {
		t.Errorf("Expected no persisted events, got %d", len(repo.Events))
	}
}

func TestDailySessionsCachesResult(t *testing.T) {
	repo := &MockEventRepo{}
	cache := NewMockSessionCache()
	svc := usecase.NewSessionService(repo, cache)

	repo.Events = []*entity.CheckEvent{
		event("u1", true, at(9, 0)),
	}

	sessions, err := svc.DailySessions(context.Background(), day)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}

	if cache.SetCallCount != 1 {
		t.Errorf("Expected one cache fill, got %d", cache.SetCallCount)
	}

	// Second read hits the cache; no second fill.
	if _, err := svc.DailySessions(context.Background(), day); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("Expected cached read, got %d fills", cache.SetCallCount)
	}
}

func TestIsCheckedInFollowsLastEvent(t *testing.T) {
	repo := &MockEventRepo{}
	svc := usecase.NewSessionService(repo, NewMockSessionCache())

	now := time.Now()
	checkedIn, err := svc.IsCheckedIn(context.Background(), "u1", now)
	if err != nil || checkedIn {
		t.Fatalf("Expected not checked in with empty log, got %v err=%v", checkedIn, err)
	}

	repo.Events = append(repo.Events, event("u1", true, now.Add(-2*time.Hour)))
	checkedIn, _ = svc.IsCheckedIn(context.Background(), "u1", now)
	if !checkedIn {
		t.Error("Expected checked in after check-in event")
	}

	repo.Events = append(repo.Events, event("u1", false, now.Add(-time.Hour)))
	checkedIn, _ = svc.IsCheckedIn(context.Background(), "u1", now)
	if checkedIn {
		t.Error("Expected checked out after checkout event")
	}
}
