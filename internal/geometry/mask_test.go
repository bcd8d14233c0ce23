package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGrid is a north-up grid with 1-degree cells, row 0 at the top.
type testGrid struct {
	width  int
	height int
	maxLat float64
	minLon float64
}

func (g testGrid) Size() (int, int) {
	return g.width, g.height
}

func (g testGrid) CellCenter(col, row int) (lat, lon float64) {
	return g.maxLat - float64(row) - 0.5, g.minLon + float64(col) + 0.5
}

func TestMaskReturnsRowMajorCells(t *testing.T) {
	grid := testGrid{width: 4, height: 4, maxLat: 4, minLon: 0}
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 4},
		{Lat: 4, Lon: 4},
		{Lat: 4, Lon: 0},
	})
	require.NoError(t, err)

	cells := Mask(polygon, grid)
	require.Len(t, cells, 16)

	// Row-major: row index never decreases, columns ascend within a row.
	for i := 1; i < len(cells); i++ {
		previous, current := cells[i-1], cells[i]
		assert.GreaterOrEqual(t, current.Row, previous.Row)
		if current.Row == previous.Row {
			assert.Greater(t, current.Col, previous.Col)
		}
	}

	assert.Equal(t, Cell{Col: 0, Row: 0, Lat: 3.5, Lon: 0.5}, cells[0])
	assert.Equal(t, Cell{Col: 3, Row: 3, Lat: 0.5, Lon: 3.5}, cells[15])
}

func TestMaskPartialCoverage(t *testing.T) {
	grid := testGrid{width: 4, height: 4, maxLat: 4, minLon: 0}
	// Lower-left triangle half of the grid.
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 4},
		{Lat: 4, Lon: 0},
	})
	require.NoError(t, err)

	cells := Mask(polygon, grid)
	require.NotEmpty(t, cells)
	assert.Less(t, len(cells), 16)

	for _, cell := range cells {
		assert.True(t, polygon.Contains(cell.Lat, cell.Lon))
	}
}

func TestMaskSmallerThanOnePixelIsEmpty(t *testing.T) {
	grid := testGrid{width: 4, height: 4, maxLat: 4, minLon: 0}
	// A sliver between cell centers: no center can fall inside.
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0.9, Lon: 0.9},
		{Lat: 0.9, Lon: 1.1},
		{Lat: 1.1, Lon: 1.1},
		{Lat: 1.1, Lon: 0.9},
	})
	require.NoError(t, err)

	cells := Mask(polygon, grid)
	assert.Empty(t, cells)
}

func TestMaskIsDeterministic(t *testing.T) {
	grid := testGrid{width: 5, height: 5, maxLat: 5, minLon: 0}
	polygon, err := NewPolygon([]Vertex{
		{Lat: 0.2, Lon: 0.2},
		{Lat: 0.4, Lon: 4.6},
		{Lat: 4.8, Lon: 4.2},
		{Lat: 4.4, Lon: 0.6},
	})
	require.NoError(t, err)

	first := Mask(polygon, grid)
	second := Mask(polygon, grid)
	assert.Equal(t, first, second)
}
