package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parcelhealth/parcelhealth-api/internal/analysis"
	"github.com/parcelhealth/parcelhealth-api/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePixelCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pixels.csv")
	pixels := []analysis.PixelRecord{
		{Latitude: 2.5, Longitude: 0.5, NDVI: 0.6667},
		{Latitude: 1.5, Longitude: 0.5, NDVI: 0.3333},
	}

	require.NoError(t, WritePixelCSV(path, pixels))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "latitude,longitude,ndvi", lines[0])
	assert.Contains(t, lines[1], "2.5")
	assert.Contains(t, lines[1], "0.6667")
}

func TestWritePixelCSVEmptyStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.csv")

	require.NoError(t, WritePixelCSV(path, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "latitude,longitude,ndvi", strings.TrimSpace(string(content)))
}

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	sceneDate, _ := time.Parse("2006-01-02", "2025-04-22")

	summary, err := stats.Aggregate([]float64{0.6667, 0.3333, 0.8824})
	require.NoError(t, err)

	result := &analysis.Result{
		SceneDate:    sceneDate,
		MaskedPixels: 3,
		Stats:        summary,
	}

	require.NoError(t, WriteSummaryCSV(path, result))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"date,mean_ndvi,median_ndvi,std_dev_ndvi,min_ndvi,max_ndvi,percentile_10,percentile_90,pixel_count,poor_pct,moderate_pct,excellent_pct,no_data_pixels,clamped_pixels",
		lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-04-22,"))
	assert.Contains(t, lines[1], ",3,") // pixel_count
}

func TestWriteSummaryCSVRefusesUndefinedStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	result := &analysis.Result{Stats: stats.Summary{}}

	err := WriteSummaryCSV(path, result)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
