package geometry

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FromGeoJSON builds a Polygon from the exterior ring of the first
// Polygon or MultiPolygon feature in a GeoJSON document. GeoJSON
// coordinates are [lon, lat] pairs.
func FromGeoJSON(data []byte) (Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		// The drawing widget may also submit a bare geometry.
		geom, gerr := geojson.UnmarshalGeometry(data)
		if gerr != nil {
			return Polygon{}, fmt.Errorf("failed to parse parcel GeoJSON: %w", err)
		}
		return fromOrbGeometry(geom.Geometry())
	}

	var lastErr error
	for _, feature := range fc.Features {
		polygon, err := fromOrbGeometry(feature.Geometry)
		if err == nil {
			return polygon, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return Polygon{}, fmt.Errorf("no usable polygon feature in GeoJSON document: %w", lastErr)
	}
	return Polygon{}, fmt.Errorf("no polygon feature found in GeoJSON document")
}

// FromGeoJSONFile reads a parcel boundary stored as a .geojson file.
func FromGeoJSONFile(path string) (Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Polygon{}, fmt.Errorf("failed to read parcel file: %w", err)
	}
	return FromGeoJSON(data)
}

func fromOrbGeometry(geom orb.Geometry) (Polygon, error) {
	var ring orb.Ring
	switch g := geom.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return Polygon{}, fmt.Errorf("polygon geometry has no rings")
		}
		ring = g[0]
	case orb.MultiPolygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return Polygon{}, fmt.Errorf("multipolygon geometry has no rings")
		}
		ring = g[0][0]
	default:
		return Polygon{}, fmt.Errorf("unsupported geometry type %s", geom.GeoJSONType())
	}

	vertices := make([]Vertex, len(ring))
	for i, pt := range ring {
		vertices[i] = Vertex{Lat: pt[1], Lon: pt[0]}
	}
	return NewPolygon(vertices)
}
