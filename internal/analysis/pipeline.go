package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/parcelhealth/parcelhealth-api/internal/geometry"
	"github.com/parcelhealth/parcelhealth-api/internal/ndvi"
	"github.com/parcelhealth/parcelhealth-api/internal/scene"
	"github.com/parcelhealth/parcelhealth-api/internal/stats"
	"github.com/schollz/progressbar/v3"
)

// Stage names the pipeline state machine steps. A run moves
// Idle → Resolving → Masking → Computing → Aggregating → Done, and can
// fail out of Resolving (scene not found) or Masking (invalid polygon).
type Stage int

const (
	StageIdle Stage = iota
	StageResolving
	StageMasking
	StageComputing
	StageAggregating
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageResolving:
		return "resolving"
	case StageMasking:
		return "masking"
	case StageComputing:
		return "computing"
	case StageAggregating:
		return "aggregating"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// PixelRecord is one exportable row of the per-pixel table.
type PixelRecord struct {
	Latitude  float64 `csv:"latitude" json:"lat" bson:"lat"`
	Longitude float64 `csv:"longitude" json:"lon" bson:"lon"`
	NDVI      float64 `csv:"ndvi" json:"ndvi" bson:"ndvi"`
}

// Result is the output aggregate of one pipeline run. Pixels holds the
// valid per-pixel values in row-major scene order for CSV export.
type Result struct {
	RequestedDate    time.Time
	SceneDate        time.Time
	SceneSubstituted bool

	MaskedPixels  int
	NoDataPixels  int
	ClampedPixels int

	Stats  stats.Summary
	Pixels []PixelRecord

	// Values keeps the grid-positioned NDVI values for rendering.
	Values []ndvi.PixelValue
}

const defaultWorkers = 8

// Pipeline runs one (polygon, date) analysis. It holds no mutable state
// across runs, so concurrent invocations need no coordination.
type Pipeline struct {
	resolver *scene.Resolver
	workers  int
	progress bool
}

func NewPipeline(resolver *scene.Resolver) *Pipeline {
	return &Pipeline{resolver: resolver, workers: defaultWorkers}
}

// WithProgress enables a progress bar over the per-pixel compute loop.
func (p *Pipeline) WithProgress() *Pipeline {
	p.progress = true
	return p
}

func (p *Pipeline) Run(ctx context.Context, polygon geometry.Polygon, date time.Time) (*Result, error) {
	if polygon.IsZero() {
		return nil, geometry.ErrInvalidPolygon
	}

	// Resolving
	resolution, err := p.resolver.Resolve(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageResolving, err)
	}

	// Masking
	cells := geometry.Mask(polygon, resolution.Scene)

	// Computing: per-pixel NDVI is embarrassingly parallel; each worker
	// writes a disjoint slot so no lock is needed.
	samples := make([]ndvi.PixelSample, len(cells))
	computed := make([]ndvi.Result, len(cells))

	var bar *progressbar.ProgressBar
	if p.progress && len(cells) > 0 {
		bar = progressbar.Default(int64(len(cells)), "Computing NDVI")
	}

	wp := workerpool.New(p.workers)
	for i, cell := range cells {
		i, cell := i, cell
		wp.Submit(func() {
			nir, red := resolution.Scene.Sample(cell.Col, cell.Row)
			samples[i] = ndvi.PixelSample{
				Col: cell.Col, Row: cell.Row,
				Lat: cell.Lat, Lon: cell.Lon,
				NIR: nir, RED: red,
			}
			computed[i] = ndvi.Compute(nir, red)
			if bar != nil {
				bar.Add(1)
			}
		})
	}
	wp.StopWait()
	if bar != nil {
		bar.Finish()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", StageComputing, err)
	}

	// Aggregating
	result := &Result{
		RequestedDate:    resolution.RequestedDate,
		SceneDate:        resolution.ActualDate,
		SceneSubstituted: resolution.Substituted,
		MaskedPixels:     len(cells),
	}

	values := make([]float64, 0, len(cells))
	for i, r := range computed {
		if r.NoData {
			result.NoDataPixels++
			continue
		}
		if r.Clamped {
			result.ClampedPixels++
		}
		values = append(values, r.Value)
		result.Pixels = append(result.Pixels, PixelRecord{
			Latitude:  samples[i].Lat,
			Longitude: samples[i].Lon,
			NDVI:      r.Value,
		})
		result.Values = append(result.Values, ndvi.PixelValue{
			Col: samples[i].Col, Row: samples[i].Row,
			Lat: samples[i].Lat, Lon: samples[i].Lon,
			Value: r.Value,
		})
	}

	if result.ClampedPixels > 0 {
		log.Printf("scene %s: clamped %d out-of-range NDVI values to [-1,1]",
			result.SceneDate.Format("2006-01-02"), result.ClampedPixels)
	}

	summary, err := stats.Aggregate(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageAggregating, err)
	}
	result.Stats = summary

	return result, nil
}
