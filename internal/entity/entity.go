package entity

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is
// non-finite or outside the valid range. Invalid points are rejected at the
// boundary and never reach sessions or paths.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint is a validated WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that both components are finite and within range.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return ErrInvalidCoordinate
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Location is a coordinate plus its resolved display address. The address is
// opaque display text, never a key.
type Location struct {
	GeoPoint
	Address string `json:"address"`
}

// CheckEvent is an immutable check-in/check-out fact. Events are persisted
// append-only and never mutated or deleted; sessions are derived from them.
type CheckEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CheckedIn bool      `json:"checked_in"`
	Timestamp time.Time `json:"timestamp"`
	Location  Location  `json:"location"`
}

// AttendanceSession is one check-in/check-out pairing for a user on a
// calendar date. CheckIn is nil for orphan sessions (a checkout that had no
// matching open check-in), CheckOut is nil while the session is open.
type AttendanceSession struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	Date     string     `json:"date"` // YYYY-MM-DD, local time
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Address  string     `json:"address"`
}

// Open reports whether the session has a check-in but no checkout yet.
func (s AttendanceSession) Open() bool {
	return s.CheckIn != nil && s.CheckOut == nil
}

// StartedAt returns the earliest meaningful timestamp of the session:
// the check-in when present, otherwise the checkout.
func (s AttendanceSession) StartedAt() time.Time {
	if s.CheckIn != nil {
		return *s.CheckIn
	}
	if s.CheckOut != nil {
		return *s.CheckOut
	}
	return time.Time{}
}

// GeofenceZone is the circular office zone. Static configuration, immutable
// for the lifetime of the process.
type GeofenceZone struct {
	Center       GeoPoint `json:"center"`
	RadiusMeters float64  `json:"radius_meters"`
}

// Presence status values carried by position snapshots.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// PositionSnapshot is one "latest state per user" delivery from the position
// source. Status other than offline keeps the user in the live set.
type PositionSnapshot struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	Location  GeoPoint  `json:"location"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

// LiveUserState is the ephemeral tracking state for one active user. It is a
// view over continuously arriving snapshots, never persisted as history.
type LiveUserState struct {
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	Path        []GeoPoint `json:"path"`
	Status      string     `json:"status"`
	LastAddress string     `json:"last_address"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Latest returns the most recent point of the path.
func (s LiveUserState) Latest() (GeoPoint, bool) {
	if len(s.Path) == 0 {
		return GeoPoint{}, false
	}
	return s.Path[len(s.Path)-1], true
}

// GeocodeTask is queued when a position arrives without a resolved address.
// The background worker reverse-geocodes it and updates the live store.
type GeocodeTask struct {
	UserID    string  `json:"user_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
