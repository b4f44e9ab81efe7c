package geo

import (
	"math"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
)

// earthRadiusMeters is the mean Earth radius of the spherical model.
const earthRadiusMeters = 6371000

// DistanceMeters computes the great-circle distance between two points in
// meters using the Haversine formula. Identical points yield exactly 0;
// antipodal points are safe (no division by zero).
func DistanceMeters(a, b entity.GeoPoint) float64 {
	if a == b {
		return 0
	}

	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	deltaPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether point lies within radiusMeters of center.
// The boundary is inclusive.
func IsWithinRadius(point, center entity.GeoPoint, radiusMeters float64) bool {
	return DistanceMeters(point, center) <= radiusMeters
}

// Bounds is an axis-aligned bounding box over a set of points, used to fit
// the map view around the office and all tracked users.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`

	valid bool
}

// NewBounds returns a bounding box containing only the given point.
func NewBounds(p entity.GeoPoint) Bounds {
	return Bounds{
		MinLat: p.Latitude, MaxLat: p.Latitude,
		MinLng: p.Longitude, MaxLng: p.Longitude,
		valid: true,
	}
}

// Extend grows the box to include p.
func (b Bounds) Extend(p entity.GeoPoint) Bounds {
	if !b.valid {
		return NewBounds(p)
	}
	if p.Latitude < b.MinLat {
		b.MinLat = p.Latitude
	}
	if p.Latitude > b.MaxLat {
		b.MaxLat = p.Latitude
	}
	if p.Longitude < b.MinLng {
		b.MinLng = p.Longitude
	}
	if p.Longitude > b.MaxLng {
		b.MaxLng = p.Longitude
	}
	return b
}

// Valid reports whether the box contains at least one point.
func (b Bounds) Valid() bool {
	return b.valid
}
