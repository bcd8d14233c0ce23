package scene

import (
	"fmt"
	"time"
)

// Scene is one satellite capture: a raster grid with a geotransform and
// the two reflectance bands NDVI needs. Scenes are read-only once built.
type Scene struct {
	Date   time.Time
	Width  int
	Height int

	// GeoTransform follows the GDAL affine convention:
	// [originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight].
	GeoTransform [6]float64

	// NIR and RED hold reflectance values in row-major order.
	NIR []float64
	RED []float64
}

// Size returns the raster dimensions in pixels.
func (s *Scene) Size() (width, height int) {
	return s.Width, s.Height
}

// CellCenter converts grid indices to the geographic coordinate of the
// pixel center, offsetting by half a pixel in each axis.
func (s *Scene) CellCenter(col, row int) (lat, lon float64) {
	gt := s.GeoTransform
	lon = gt[0] + gt[1]*(float64(col)+0.5) + gt[2]*(float64(row)+0.5)
	lat = gt[3] + gt[4]*(float64(col)+0.5) + gt[5]*(float64(row)+0.5)
	return lat, lon
}

// Sample returns the (NIR, RED) reflectance pair at the given cell.
func (s *Scene) Sample(col, row int) (nir, red float64) {
	i := row*s.Width + col
	return s.NIR[i], s.RED[i]
}

func (s *Scene) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("scene %s has invalid dimensions %dx%d", s.Date.Format("2006-01-02"), s.Width, s.Height)
	}
	if len(s.NIR) != s.Width*s.Height || len(s.RED) != s.Width*s.Height {
		return fmt.Errorf("scene %s band size does not match %dx%d grid", s.Date.Format("2006-01-02"), s.Width, s.Height)
	}
	return nil
}
