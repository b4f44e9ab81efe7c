package usecase

import (
	"fmt"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/geo"
)

// GeofenceService classifies positions against the configured office zone
// and gates check-in eligibility.
type GeofenceService struct {
	Zone entity.GeofenceZone
}

// NewGeofenceService creates a geofence evaluator for the given zone.
func NewGeofenceService(zone entity.GeofenceZone) *GeofenceService {
	return &GeofenceService{Zone: zone}
}

// Evaluation is the classification of one position against the zone.
type Evaluation struct {
	Inside         bool    `json:"inside"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Decision is the outcome of a check-in eligibility test. Reason is only set
// when the check-in is denied and is surfaced verbatim to the user.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Evaluate returns the inside/outside classification and the distance to the
// zone center. The zone boundary is inclusive.
func (s *GeofenceService) Evaluate(p entity.GeoPoint) Evaluation {
	dist := geo.DistanceMeters(p, s.Zone.Center)
	return Evaluation{
		Inside:         dist <= s.Zone.RadiusMeters,
		DistanceMeters: dist,
	}
}

// CanCheckIn allows a check-in only from inside the zone. A denial carries a
// human-readable distance for user feedback.
func (s *GeofenceService) CanCheckIn(p entity.GeoPoint) Decision {
	eval := s.Evaluate(p)
	if eval.Inside {
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("Not in range. Distance to office: %s", FormatDistance(eval.DistanceMeters)),
	}
}

// FormatDistance renders a distance as whole meters below 1 km and as
// kilometers with two decimals from 1 km up. The exact format is a contract:
// it appears verbatim in denial messages shown to the user.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f meters", meters)
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}
