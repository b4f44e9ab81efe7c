package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/geo"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/identity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/logger"
)

// GeocodeQueueName is the Redis list the geocode worker consumes.
const GeocodeQueueName = "geocode_tasks"

// TrackedUser is one user's live state enriched for rendering: marker style
// and the geofence classification of the latest position.
type TrackedUser struct {
	entity.LiveUserState
	Style          identity.MarkerStyle `json:"style"`
	Inside         bool                 `json:"inside"`
	DistanceMeters float64              `json:"distance_meters"`
}

// LiveUpdate is the per-batch output of the tracker: all current users plus
// the bounding box for map fit. The box always includes the office center.
type LiveUpdate struct {
	Users  []*TrackedUser     `json:"users"`
	Bounds geo.Bounds         `json:"bounds"`
	Zone   entity.GeofenceZone `json:"zone"`
}

// PathTracker folds position snapshot batches into bounded per-user
// trajectories. It holds plain state with no locking; callers serialize
// batches.
type PathTracker struct {
	zone    entity.GeofenceZone
	limit   int // max path points per user, 0 = unbounded
	users   map[string]*entity.LiveUserState
	stopped bool
}

// NewPathTracker creates a tracker for the given zone. pathLimit caps the
// stored trajectory per user (oldest points dropped first); 0 disables the
// cap.
func NewPathTracker(zone entity.GeofenceZone, pathLimit int) *PathTracker {
	return &PathTracker{
		zone:  zone,
		limit: pathLimit,
		users: make(map[string]*entity.LiveUserState),
	}
}

// ApplyBatch applies one atomic delivery of snapshots. Users absent from the
// batch or marked offline are removed from the live set entirely. Returns the
// update to render, or nil if the tracker has been stopped.
func (t *PathTracker) ApplyBatch(snaps []*entity.PositionSnapshot) *LiveUpdate {
	if t.stopped {
		return nil
	}

	seen := make(map[string]bool, len(snaps))
	for _, snap := range snaps {
		if snap.Status == entity.StatusOffline {
			continue
		}
		if err := snap.Location.Validate(); err != nil {
			// Keep the user's prior state; never store an invalid point.
			if _, ok := t.users[snap.UserID]; ok {
				seen[snap.UserID] = true
			}
			continue
		}
		seen[snap.UserID] = true
		t.apply(snap)
	}

	for id := range t.users {
		if !seen[id] {
			delete(t.users, id)
		}
	}

	return t.update()
}

func (t *PathTracker) apply(snap *entity.PositionSnapshot) {
	state, ok := t.users[snap.UserID]
	if !ok {
		state = &entity.LiveUserState{UserID: snap.UserID}
		t.users[snap.UserID] = state
	}

	state.Username = snap.Username
	state.Status = snap.Status
	state.UpdatedAt = snap.Timestamp
	if snap.Address != "" {
		state.LastAddress = snap.Address
	}

	// Duplicate suppression: a repeated point would draw a zero-length
	// segment.
	if last, ok := state.Latest(); ok && last == snap.Location {
		return
	}
	state.Path = append(state.Path, snap.Location)

	if t.limit > 0 && len(state.Path) > t.limit {
		trimmed := make([]entity.GeoPoint, t.limit)
		copy(trimmed, state.Path[len(state.Path)-t.limit:])
		state.Path = trimmed
	}
}

func (t *PathTracker) update() *LiveUpdate {
	upd := &LiveUpdate{
		Users:  make([]*TrackedUser, 0, len(t.users)),
		Bounds: geo.NewBounds(t.zone.Center),
		Zone:   t.zone,
	}

	for _, state := range t.users {
		latest, ok := state.Latest()
		if !ok {
			continue
		}
		dist := geo.DistanceMeters(latest, t.zone.Center)
		upd.Users = append(upd.Users, &TrackedUser{
			LiveUserState:  *state,
			Style:          identity.AssignStyle(state.UserID),
			Inside:         dist <= t.zone.RadiusMeters,
			DistanceMeters: dist,
		})
		upd.Bounds = upd.Bounds.Extend(latest)
	}

	sort.Slice(upd.Users, func(i, j int) bool {
		return upd.Users[i].UserID < upd.Users[j].UserID
	})
	return upd
}

// Stop ends the tracking session. Stopping is idempotent; after Stop the
// tracker discards its state and ApplyBatch returns nil.
func (t *PathTracker) Stop() {
	t.stopped = true
	t.users = nil
}

// Stopped reports whether Stop has been called.
func (t *PathTracker) Stopped() bool {
	return t.stopped
}

// LiveTrackService drives path tracking from the live location store: it
// ingests position snapshots, maintains a shared tracker for one-shot reads,
// and hands out cancellable polling subscriptions.
type LiveTrackService struct {
	Live  LiveLocationRepository
	Queue QueueRepository

	zone      entity.GeofenceZone
	pathLimit int
	poll      time.Duration

	mu      sync.Mutex
	tracker *PathTracker
}

// NewLiveTrackService creates the live tracking service.
func NewLiveTrackService(live LiveLocationRepository, queue QueueRepository, zone entity.GeofenceZone, pathLimit int, poll time.Duration) *LiveTrackService {
	return &LiveTrackService{
		Live:      live,
		Queue:     queue,
		zone:      zone,
		pathLimit: pathLimit,
		poll:      poll,
		tracker:   NewPathTracker(zone, pathLimit),
	}
}

// PublishSnapshot stores a user's latest position. An offline status removes
// the user from the live store. A snapshot without a resolved address gets a
// geocode task queued for the background worker.
func (s *LiveTrackService) PublishSnapshot(ctx context.Context, snap *entity.PositionSnapshot) error {
	if snap.Status == entity.StatusOffline {
		return s.Live.DeleteSnapshot(ctx, snap.UserID)
	}

	if err := snap.Location.Validate(); err != nil {
		return err
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	if snap.Status == "" {
		snap.Status = entity.StatusOnline
	}

	if err := s.Live.SetSnapshot(ctx, snap); err != nil {
		return err
	}

	if snap.Address == "" {
		task := entity.GeocodeTask{
			UserID:    snap.UserID,
			Latitude:  snap.Location.Latitude,
			Longitude: snap.Location.Longitude,
		}
		if err := s.Queue.Enqueue(ctx, GeocodeQueueName, task); err != nil {
			logger.Sugar.Warnw("failed to enqueue geocode task", "user_id", snap.UserID, "err", err)
		}
	}
	return nil
}

// RemoveUser drops a user from the live store (logout or explicit offline).
func (s *LiveTrackService) RemoveUser(ctx context.Context, userID string) error {
	return s.Live.DeleteSnapshot(ctx, userID)
}

// Refresh reads the current snapshots and applies them to the shared tracker
// as one batch.
func (s *LiveTrackService) Refresh(ctx context.Context) (*LiveUpdate, error) {
	snaps, err := s.Live.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.ApplyBatch(snaps), nil
}

// Subscription is a cancellable live update feed. Updates arrive on C until
// Stop is called or the parent context ends; C is closed afterwards.
type Subscription struct {
	C <-chan *LiveUpdate

	cancel context.CancelFunc
	once   sync.Once
}

// Stop ends the subscription. It is safe to call multiple times; no updates
// are delivered after the first call returns the channel to closed state.
func (sub *Subscription) Stop() {
	sub.once.Do(sub.cancel)
}

// Subscribe starts a polling tracking session with its own path tracker and
// returns its handle. Each poll of the live store is applied as one atomic
// batch.
func (s *LiveTrackService) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan *LiveUpdate, 1)
	sub := &Subscription{C: ch, cancel: cancel}

	tracker := NewPathTracker(s.zone, s.pathLimit)

	go func() {
		defer close(ch)
		defer tracker.Stop()

		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snaps, err := s.Live.ListSnapshots(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Sugar.Warnw("live poll failed", "err", err)
					continue
				}
				upd := tracker.ApplyBatch(snaps)
				if upd == nil {
					return
				}
				// Drop the stale update if the consumer is behind.
				select {
				case ch <- upd:
				default:
					select {
					case <-ch:
					default:
					}
					ch <- upd
				}
			}
		}
	}()

	return sub
}
