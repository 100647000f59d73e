package geo

import "math"

const (
	// EarthRadiusMeters is the mean earth radius used by the Haversine formula.
	EarthRadiusMeters = 6371000.0

	// DefaultRadiusMeters is the geofence radius for attendance validation.
	DefaultRadiusMeters = 50.0
)

// Distance returns the great-circle distance in meters between two
// coordinates using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	latFrom := lat1 * (math.Pi / 180.0)
	latTo := lat2 * (math.Pi / 180.0)

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latFrom)*math.Cos(latTo)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Floating rounding can push a just past 1, which would make Asin return NaN.
	root := math.Sqrt(a)
	if root > 1 {
		root = 1
	}

	return 2 * EarthRadiusMeters * math.Asin(root)
}

// WithinRadius reports whether a distance in meters falls inside the limit.
func WithinRadius(distanceMeters, limitMeters float64) bool {
	return distanceMeters <= limitMeters
}
