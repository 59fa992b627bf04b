package geo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orcalabs/kyogre/internal/domain/geo"
)

func TestHaversineDistanceMeters_SamePoint(t *testing.T) {
	p := geo.Point{Lat: 69.65, Lon: 18.96}
	assert.InDelta(t, 0, geo.HaversineDistanceMeters(p, p), 1e-6)
}

func TestHaversineDistanceMeters_KnownDistance(t *testing.T) {
	// Roughly Tromsø to Bodø, around 320km apart.
	tromso := geo.Point{Lat: 69.6496, Lon: 18.9560}
	bodo := geo.Point{Lat: 67.2804, Lon: 14.4049}

	d := geo.HaversineDistanceMeters(tromso, bodo)
	assert.InDelta(t, 322000, d, 20000)
}

func TestKnotsBetween_ZeroElapsedReturnsZero(t *testing.T) {
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 1, Lon: 1}
	assert.Equal(t, 0.0, geo.KnotsBetween(a, b, 0))
	assert.Equal(t, 0.0, geo.KnotsBetween(a, b, -5))
}

func TestCentroid_Empty(t *testing.T) {
	assert.Equal(t, geo.Point{}, geo.Centroid(nil))
}

func TestCentroid_Average(t *testing.T) {
	points := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 2, Lon: 4},
	}
	c := geo.Centroid(points)
	assert.Equal(t, geo.Point{Lat: 1, Lon: 2}, c)
}

func TestInterval_HalfOpenContains(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	iv := geo.NewInterval(start, end)

	assert.True(t, iv.Contains(start))
	assert.False(t, iv.Contains(end))
	assert.True(t, iv.Contains(start.Add(30*time.Minute)))
}

func TestInterval_DegenerateContainsSingleInstant(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iv := geo.NewDegenerateInterval(at)

	assert.True(t, iv.Contains(at))
	assert.False(t, iv.Contains(at.Add(time.Second)))
	assert.False(t, iv.IsEmpty())
}

func TestInterval_IsEmptyWithoutDegenerateMarker(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iv := geo.NewInterval(at, at)
	assert.True(t, iv.IsEmpty())
}

func TestInterval_MakeNonDegenerate(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	iv := geo.NewInterval(at, at)
	fixed := iv.MakeNonDegenerate()

	assert.False(t, fixed.IsEmpty())
	assert.True(t, fixed.Contains(at))
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := geo.NewInterval(base, base.Add(2*time.Hour))
	b := geo.NewInterval(base.Add(time.Hour), base.Add(3*time.Hour))
	c := geo.NewInterval(base.Add(3*time.Hour), base.Add(4*time.Hour))

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}

func TestPolygon_Contains(t *testing.T) {
	square := geo.Polygon{Points: []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 10},
		{Lat: 10, Lon: 10},
		{Lat: 10, Lon: 0},
	}}

	assert.True(t, square.Contains(geo.Point{Lat: 5, Lon: 5}))
	assert.False(t, square.Contains(geo.Point{Lat: 20, Lon: 20}))
}

func TestPolygon_ContainsPointOnEdge(t *testing.T) {
	square := geo.Polygon{Points: []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 10},
		{Lat: 10, Lon: 10},
		{Lat: 10, Lon: 0},
	}}

	assert.True(t, square.Contains(geo.Point{Lat: 0, Lon: 5}))
}

func TestPolygon_DegenerateTooFewPoints(t *testing.T) {
	line := geo.Polygon{Points: []geo.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}}
	assert.False(t, line.Contains(geo.Point{Lat: 0.5, Lon: 0.5}))
}
