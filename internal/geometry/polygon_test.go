package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolygonRejectsTooFewVertices(t *testing.T) {
	_, err := NewPolygon([]Vertex{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}})
	require.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestNewPolygonRejectsZeroArea(t *testing.T) {
	// All vertices collinear.
	_, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 1, Lon: 1},
		{Lat: 2, Lon: 2},
	})
	require.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestNewPolygonAcceptsTriangle(t *testing.T) {
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2},
		{Lat: 2, Lon: 1},
	})
	require.NoError(t, err)
	assert.False(t, polygon.IsZero())
	assert.Len(t, polygon.Vertices(), 3)
}

func TestNewPolygonToleratesClosedRing(t *testing.T) {
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2},
		{Lat: 2, Lon: 1},
		{Lat: 0, Lon: 0}, // drawing widgets often repeat the first vertex
	})
	require.NoError(t, err)
	assert.Len(t, polygon.Vertices(), 3)
}

func square(t *testing.T) Polygon {
	t.Helper()
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2},
		{Lat: 2, Lon: 2},
		{Lat: 2, Lon: 0},
	})
	require.NoError(t, err)
	return polygon
}

func TestContainsInsideAndOutside(t *testing.T) {
	polygon := square(t)

	assert.True(t, polygon.Contains(1, 1))
	assert.False(t, polygon.Contains(3, 3))
	assert.False(t, polygon.Contains(-0.5, 1))
}

func TestContainsIsBoundaryInclusive(t *testing.T) {
	polygon := square(t)

	// On an edge.
	assert.True(t, polygon.Contains(0, 1))
	assert.True(t, polygon.Contains(1, 2))
	// On a vertex.
	assert.True(t, polygon.Contains(0, 0))
	assert.True(t, polygon.Contains(2, 2))
}

func TestContainsWithRepeatedAndCollinearVertices(t *testing.T) {
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 1}, // repeated
		{Lat: 0, Lon: 2}, // collinear with the previous edge
		{Lat: 2, Lon: 2},
		{Lat: 2, Lon: 0},
	})
	require.NoError(t, err)

	assert.True(t, polygon.Contains(1, 1))
	assert.False(t, polygon.Contains(-1, 1))
}

func TestCentroidOfSquare(t *testing.T) {
	polygon := square(t)

	lat, lon := polygon.Centroid()
	assert.InDelta(t, 1, lat, 1e-9)
	assert.InDelta(t, 1, lon, 1e-9)
}
