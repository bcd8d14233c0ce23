package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/parcelhealth/parcelhealth-api/internal/utils"
)

var registerDrivers sync.Once

// GeoTIFFCatalog serves scenes from a directory of per-date GeoTIFF
// files named YYYY-MM-DD.tiff. Band 1 carries NIR (B08) and band 2 RED
// (B04), the order the Sentinel Hub evalscript emits them in.
type GeoTIFFCatalog struct {
	dir string
}

func NewGeoTIFFCatalog(dir string) *GeoTIFFCatalog {
	registerDrivers.Do(godal.RegisterInternalDrivers)
	return &GeoTIFFCatalog{dir: dir}
}

func (c *GeoTIFFCatalog) Dates(ctx context.Context) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read scene directory %s: %v", ErrProviderUnavailable, c.dir, err)
	}

	var dates []time.Time
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".tiff") && !strings.HasSuffix(name, ".tif") {
			continue
		}
		name = strings.TrimSuffix(strings.TrimSuffix(name, ".tiff"), ".tif")
		date, err := time.Parse("2006-01-02", name)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return utils.SortDates(dates, true), nil
}

func (c *GeoTIFFCatalog) GetScene(ctx context.Context, date time.Time) (*Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, date.Format("2006-01-02")+".tiff")
	if _, err := os.Stat(path); err != nil {
		alt := filepath.Join(c.dir, date.Format("2006-01-02")+".tif")
		if _, aerr := os.Stat(alt); aerr != nil {
			return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, date.Format("2006-01-02"))
		}
		path = alt
	}

	var s *Scene
	var err error
	utils.ExecuteWithGDALLock(func() {
		s, err = readSceneFromTIFF(path, date)
	})
	return s, err
}

func readSceneFromTIFF(path string, date time.Time) (*Scene, error) {
	dataset, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene TIFF %s: %w", path, err)
	}
	defer dataset.Close()

	geoTransform, err := dataset.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get geotransform for %s: %w", path, err)
	}

	width := dataset.Structure().SizeX
	height := dataset.Structure().SizeY
	bands := dataset.Bands()
	if len(bands) < 2 {
		return nil, fmt.Errorf("scene TIFF %s has %d bands, expected NIR and RED", path, len(bands))
	}

	readBand := func(band godal.Band) ([]float64, error) {
		data := make([]float64, width*height)
		if err := band.Read(0, 0, data, width, height); err != nil {
			return nil, err
		}
		return data, nil
	}

	nir, err := readBand(bands[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read NIR band from %s: %w", path, err)
	}
	red, err := readBand(bands[1])
	if err != nil {
		return nil, fmt.Errorf("failed to read RED band from %s: %w", path, err)
	}

	return &Scene{
		Date:         date,
		Width:        width,
		Height:       height,
		GeoTransform: geoTransform,
		NIR:          nir,
		RED:          red,
	}, nil
}
