package geometry

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var ErrInvalidPolygon = errors.New("invalid polygon: at least 3 vertices enclosing a non-zero area are required")

const areaEpsilon = 1e-12

// Vertex is one polygon corner in geographic coordinates.
type Vertex struct {
	Lat float64
	Lon float64
}

// Polygon is an implicitly closed boundary drawn by the user. It is
// immutable once built; self-intersecting rings are accepted as drawn.
type Polygon struct {
	ring orb.Ring
}

// NewPolygon validates the vertex list and builds a Polygon. The last
// vertex is connected back to the first, a trailing duplicate of the
// first vertex is tolerated.
func NewPolygon(vertices []Vertex) (Polygon, error) {
	points := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		points = append(points, orb.Point{v.Lon, v.Lat})
	}
	if len(points) > 3 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return Polygon{}, ErrInvalidPolygon
	}

	closed := append(orb.Ring{}, points...)
	closed = append(closed, closed[0])
	if math.Abs(planar.Area(closed)) < areaEpsilon {
		return Polygon{}, ErrInvalidPolygon
	}

	return Polygon{ring: points}, nil
}

// IsZero reports whether the polygon was never built through NewPolygon.
func (p Polygon) IsZero() bool {
	return len(p.ring) == 0
}

// Vertices returns a copy of the polygon corners.
func (p Polygon) Vertices() []Vertex {
	vertices := make([]Vertex, len(p.ring))
	for i, pt := range p.ring {
		vertices[i] = Vertex{Lat: pt[1], Lon: pt[0]}
	}
	return vertices
}

// Centroid returns the area-weighted center of the polygon.
func (p Polygon) Centroid() (lat, lon float64) {
	closed := append(orb.Ring{}, p.ring...)
	closed = append(closed, closed[0])
	center, _ := planar.CentroidArea(orb.Polygon{closed})
	return center.Y(), center.X()
}

// Bound returns the geographic bounding box of the polygon.
func (p Polygon) Bound() orb.Bound {
	return p.ring.Bound()
}

// Contains reports whether the point lies inside the polygon using the
// even-odd ray casting rule. Points exactly on an edge count as inside,
// so thin parcels do not silently resolve to zero pixels.
func (p Polygon) Contains(lat, lon float64) bool {
	pt := orb.Point{lon, lat}
	inside := false
	n := len(p.ring)
	for i := 0; i < n; i++ {
		a := p.ring[i]
		b := p.ring[(i+1)%n]
		if onSegment(pt, a, b) {
			return true
		}
		if (a[1] > pt[1]) != (b[1] > pt[1]) {
			crossX := a[0] + (pt[1]-a[1])/(b[1]-a[1])*(b[0]-a[0])
			if pt[0] < crossX {
				inside = !inside
			}
		}
	}
	return inside
}

const segmentEpsilon = 1e-12

func onSegment(pt, a, b orb.Point) bool {
	// Degenerate edge from a repeated vertex: collapse to a point check.
	if a == b {
		return math.Abs(pt[0]-a[0]) < segmentEpsilon && math.Abs(pt[1]-a[1]) < segmentEpsilon
	}
	cross := (b[0]-a[0])*(pt[1]-a[1]) - (b[1]-a[1])*(pt[0]-a[0])
	if math.Abs(cross) > segmentEpsilon {
		return false
	}
	return pt[0] >= math.Min(a[0], b[0])-segmentEpsilon && pt[0] <= math.Max(a[0], b[0])+segmentEpsilon &&
		pt[1] >= math.Min(a[1], b[1])-segmentEpsilon && pt[1] <= math.Max(a[1], b[1])+segmentEpsilon
}
