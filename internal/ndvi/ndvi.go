package ndvi

import "math"

// Epsilon below which the band sum counts as no reflectance at all
// (cloud-masked or empty pixels), making the ratio undefined.
const Epsilon = 1e-9

// PixelSample is one masked grid cell with its geographic center and the
// reflectance pair read from the scene bands.
type PixelSample struct {
	Col int
	Row int
	Lat float64
	Lon float64
	NIR float64
	RED float64
}

// PixelValue is a computed NDVI value attached to a pixel coordinate.
type PixelValue struct {
	Col   int
	Row   int
	Lat   float64
	Lon   float64
	Value float64
}

// Result carries one NDVI computation. NoData pixels must be excluded
// from aggregation and counted separately; Clamped flags sensor
// artifacts pulled back into [-1, 1].
type Result struct {
	Value   float64
	NoData  bool
	Clamped bool
}

// Compute evaluates (nir-red)/(nir+red) with a guard on degenerate
// denominators and a clamp to the physical NDVI range.
func Compute(nir, red float64) Result {
	if math.IsNaN(nir) || math.IsNaN(red) || math.IsInf(nir, 0) || math.IsInf(red, 0) {
		return Result{NoData: true}
	}

	denominator := nir + red
	if math.Abs(denominator) < Epsilon {
		return Result{NoData: true}
	}

	value := (nir - red) / denominator
	if value > 1 {
		return Result{Value: 1, Clamped: true}
	}
	if value < -1 {
		return Result{Value: -1, Clamped: true}
	}
	return Result{Value: value}
}
