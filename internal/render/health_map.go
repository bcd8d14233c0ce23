package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/parcelhealth/parcelhealth-api/internal/ndvi"
)

func normalize(value float64) float64 {
	norm := (value + 1) / 2
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

// ndviToRGB maps the normalized NDVI onto a red-yellow-green ramp, the
// usual vegetation-health palette.
func ndviToRGB(norm float64) (r, g, b float64) {
	if norm <= 0.5 {
		// Transition from red to yellow
		ratio := norm / 0.5
		return 1, ratio, 0
	}
	// Transition from yellow to green
	ratio := (norm - 0.5) / 0.5
	return 1 - ratio, 1, 0
}

// CreateHealthMap draws the masked pixels as a colored raster cropped to
// their bounding box and saves it as a PNG. Pixels outside the parcel
// stay transparent.
func CreateHealthMap(values []ndvi.PixelValue, outputPath string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no pixels to render")
	}

	minX, maxX := values[0].Col, values[0].Col
	minY, maxY := values[0].Row, values[0].Row
	for _, v := range values {
		if v.Col < minX {
			minX = v.Col
		}
		if v.Col > maxX {
			maxX = v.Col
		}
		if v.Row < minY {
			minY = v.Row
		}
		if v.Row > maxY {
			maxY = v.Row
		}
	}

	width := maxX - minX + 1
	height := maxY - minY + 1
	dc := gg.NewContext(width, height)

	for _, v := range values {
		r, g, b := ndviToRGB(normalize(v.Value))
		dc.SetRGB(r, g, b)
		dc.SetPixel(v.Col-minX, v.Row-minY)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	if err := dc.SavePNG(outputPath); err != nil {
		return "", fmt.Errorf("failed to save health map: %w", err)
	}
	return outputPath, nil
}
