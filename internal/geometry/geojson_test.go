package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGeoJSONFeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]
			}
		}]
	}`)

	polygon, err := FromGeoJSON(data)
	require.NoError(t, err)
	assert.True(t, polygon.Contains(1, 1))
}

func TestFromGeoJSONBareGeometry(t *testing.T) {
	data := []byte(`{
		"type": "Polygon",
		"coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]
	}`)

	polygon, err := FromGeoJSON(data)
	require.NoError(t, err)
	assert.True(t, polygon.Contains(1, 1))
}

func TestFromGeoJSONDegeneratePolygonKeepsSentinel(t *testing.T) {
	// A two-vertex "polygon" drawn by accident must surface as an
	// invalid-polygon error, not a generic parse failure.
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[1,1],[0,0]]]
			}
		}]
	}`)

	_, err := FromGeoJSON(data)
	require.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestFromGeoJSONEmptyFeatureCollection(t *testing.T) {
	data := []byte(`{"type": "FeatureCollection", "features": []}`)

	_, err := FromGeoJSON(data)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPolygon)
}
