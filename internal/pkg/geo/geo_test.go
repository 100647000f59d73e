package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	eventLat = 14.5636541
	eventLon = 121.0676173
)

func TestDistance_IdenticalPoints(t *testing.T) {
	d := Distance(eventLat, eventLon, eventLat, eventLon)
	assert.Equal(t, 0.0, d)
}

func TestDistance_Symmetry(t *testing.T) {
	d1 := Distance(eventLat, eventLon, 14.6091, 121.0223)
	d2 := Distance(14.6091, 121.0223, eventLat, eventLon)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistance_FiftyMeterBoundary(t *testing.T) {
	// 0.00045 degrees of latitude is ~50m; nudge either side of the fence.
	inside := Distance(eventLat, eventLon, eventLat+0.00044, eventLon)
	outside := Distance(eventLat, eventLon, eventLat+0.00046, eventLon)

	assert.True(t, WithinRadius(inside, DefaultRadiusMeters), "expected %.2fm to be inside the fence", inside)
	assert.False(t, WithinRadius(outside, DefaultRadiusMeters), "expected %.2fm to be outside the fence", outside)
}

func TestDistance_OneKilometerAway(t *testing.T) {
	// ~0.009 degrees of latitude is roughly 1km.
	d := Distance(eventLat, eventLon, eventLat+0.009, eventLon)
	assert.InDelta(t, 1000, d, 10)
	assert.False(t, WithinRadius(d, DefaultRadiusMeters))
}

func TestWithinRadius_ExactLimit(t *testing.T) {
	assert.True(t, WithinRadius(50, DefaultRadiusMeters))
	assert.False(t, WithinRadius(50.01, DefaultRadiusMeters))
}
