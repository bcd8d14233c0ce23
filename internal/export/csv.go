package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/parcelhealth/parcelhealth-api/internal/analysis"
)

// SummaryRow is the flattened one-row statistics export, matching the
// columns the web UI download offered.
type SummaryRow struct {
	Date          string  `csv:"date"`
	MeanNDVI      float64 `csv:"mean_ndvi"`
	MedianNDVI    float64 `csv:"median_ndvi"`
	StdDevNDVI    float64 `csv:"std_dev_ndvi"`
	MinNDVI       float64 `csv:"min_ndvi"`
	MaxNDVI       float64 `csv:"max_ndvi"`
	Percentile10  float64 `csv:"percentile_10"`
	Percentile90  float64 `csv:"percentile_90"`
	PixelCount    int     `csv:"pixel_count"`
	PoorPct       float64 `csv:"poor_pct"`
	ModeratePct   float64 `csv:"moderate_pct"`
	ExcellentPct  float64 `csv:"excellent_pct"`
	NoDataPixels  int     `csv:"no_data_pixels"`
	ClampedPixels int     `csv:"clamped_pixels"`
}

// WritePixelCSV writes the per-pixel table (latitude, longitude, ndvi)
// with a header row, one row per valid pixel.
func WritePixelCSV(path string, pixels []analysis.PixelRecord) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&pixels, file); err != nil {
		return fmt.Errorf("failed to write pixel CSV: %w", err)
	}
	return nil
}

// WriteSummaryCSV writes the flattened statistics row. Results with zero
// valid pixels carry no statistics and are refused rather than exported
// as misleading zeros.
func WriteSummaryCSV(path string, result *analysis.Result) error {
	if !result.Stats.Defined() {
		return fmt.Errorf("no valid pixels to export for %s", result.SceneDate.Format("2006-01-02"))
	}

	rows := []SummaryRow{{
		Date:          result.SceneDate.Format("2006-01-02"),
		MeanNDVI:      *result.Stats.Mean,
		MedianNDVI:    *result.Stats.Median,
		StdDevNDVI:    *result.Stats.StdDev,
		MinNDVI:       *result.Stats.Min,
		MaxNDVI:       *result.Stats.Max,
		Percentile10:  *result.Stats.P10,
		Percentile90:  *result.Stats.P90,
		PixelCount:    result.Stats.PixelCount,
		PoorPct:       result.Stats.Histogram.Poor.Pct,
		ModeratePct:   result.Stats.Histogram.Moderate.Pct,
		ExcellentPct:  result.Stats.Histogram.Excellent.Pct,
		NoDataPixels:  result.NoDataPixels,
		ClampedPixels: result.ClampedPixels,
	}}

	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create export folder: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	return file, nil
}
