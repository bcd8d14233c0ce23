package delivery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parcelhealth/parcelhealth-api/internal/analysis"
	"github.com/parcelhealth/parcelhealth-api/internal/cache"
	"github.com/parcelhealth/parcelhealth-api/internal/export"
	"github.com/parcelhealth/parcelhealth-api/internal/geometry"
	"github.com/parcelhealth/parcelhealth-api/internal/properties"
	"github.com/parcelhealth/parcelhealth-api/internal/render"
	"github.com/parcelhealth/parcelhealth-api/internal/scene"
	"github.com/parcelhealth/parcelhealth-api/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Sentinel-2 ground resolution for the bands NDVI uses.
const sentinelResolutionMeters = 10

// ParcelAnalysis bundles the pipeline result with the artifact paths
// produced for it.
type ParcelAnalysis struct {
	Parcel         string
	Result         *analysis.Result
	PixelCSVPath   string
	SummaryCSVPath string
	HealthMapPath  string
}

// AnalyzeParcel runs the full analysis for a named parcel boundary and a
// requested acquisition date, then fans out CSV export, health-map
// rendering and history persistence. A nearestWindow of zero keeps the
// strict exact-date contract.
func AnalyzeParcel(ctx context.Context, parcelName string, date time.Time, nearestWindow time.Duration) (*ParcelAnalysis, error) {
	polygon, err := LoadParcel(parcelName)
	if err != nil {
		return nil, err
	}

	catalog, err := buildCatalog(polygon, parcelName)
	if err != nil {
		return nil, err
	}

	var resolver *scene.Resolver
	if nearestWindow > 0 {
		resolver = scene.NewNearestResolver(catalog, nearestWindow)
	} else {
		resolver = scene.NewResolver(catalog)
	}

	result, err := analysis.NewPipeline(resolver).WithProgress().Run(ctx, polygon, date)
	if err != nil {
		return nil, err
	}

	out := &ParcelAnalysis{Parcel: parcelName, Result: result}

	resultDir := fmt.Sprintf("%s/data/result/%s", properties.RootPath(), parcelName)
	baseName := fmt.Sprintf("%s_%s", parcelName, result.SceneDate.Format("2006-01-02"))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		path := fmt.Sprintf("%s/%s_pixels.csv", resultDir, baseName)
		if err := export.WritePixelCSV(path, result.Pixels); err != nil {
			return err
		}
		out.PixelCSVPath = path
		return nil
	})

	if result.Stats.Defined() {
		group.Go(func() error {
			path := fmt.Sprintf("%s/%s_stats.csv", resultDir, baseName)
			if err := export.WriteSummaryCSV(path, result); err != nil {
				return err
			}
			out.SummaryCSVPath = path
			return nil
		})

		group.Go(func() error {
			path := fmt.Sprintf("%s/%s_health.png", resultDir, baseName)
			if _, err := render.CreateHealthMap(result.Values, path); err != nil {
				return err
			}
			out.HealthMapPath = path
			return nil
		})
	}

	if properties.MongoURI() != "" {
		group.Go(func() error {
			return saveAnalysis(groupCtx, parcelName, result)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadParcel reads a parcel boundary from data/parcels/<name>.geojson.
func LoadParcel(parcelName string) (geometry.Polygon, error) {
	path := fmt.Sprintf("%s/data/parcels/%s.geojson", properties.RootPath(), parcelName)
	return geometry.FromGeoJSONFile(path)
}

// ListParcels returns the parcel names available for analysis.
func ListParcels() ([]string, error) {
	entries, err := os.ReadDir(fmt.Sprintf("%s/data/parcels", properties.RootPath()))
	if err != nil {
		return nil, fmt.Errorf("failed to read parcels folder: %w", err)
	}

	var parcels []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".geojson") {
			parcels = append(parcels, strings.TrimSuffix(entry.Name(), ".geojson"))
		}
	}
	return parcels, nil
}

// ListCatalogDates returns the acquisition dates available for a parcel,
// the list a date picker would be populated from. Remote catalog lookups
// are cached for the rest of the day; local scene folders are re-read.
func ListCatalogDates(ctx context.Context, parcelName string) ([]time.Time, error) {
	polygon, err := LoadParcel(parcelName)
	if err != nil {
		return nil, err
	}
	catalog, err := buildCatalog(polygon, parcelName)
	if err != nil {
		return nil, err
	}

	if properties.CopernicusClientID() == "" {
		return catalog.Dates(ctx)
	}

	datesCache := cache.NewFileCache[[]time.Time]("catalog")
	key := datesCache.GenerateKey(parcelName, time.Now().UTC().Format("2006-01-02"))
	if dates, ok := datesCache.Get(key); ok {
		return dates, nil
	}

	dates, err := catalog.Dates(ctx)
	if err != nil {
		return nil, err
	}
	if err := datesCache.Set(key, dates); err != nil {
		return nil, fmt.Errorf("failed to cache catalog dates: %w", err)
	}
	return dates, nil
}

// buildCatalog prefers the Sentinel Hub provider when credentials are
// configured, falling back to locally stored per-date GeoTIFFs.
func buildCatalog(polygon geometry.Polygon, parcelName string) (scene.Catalog, error) {
	if properties.CopernicusClientID() != "" {
		return scene.NewSentinelHubCatalog(polygon, sentinelResolutionMeters), nil
	}

	dir := fmt.Sprintf("%s/data/scenes/%s", properties.RootPath(), parcelName)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("no imagery source for parcel %s: set COPERNICUS_CLIENT_ID or add scenes under %s", parcelName, dir)
	}
	return scene.NewGeoTIFFCatalog(dir), nil
}

func saveAnalysis(ctx context.Context, parcelName string, result *analysis.Result) error {
	store, err := storage.NewStore(ctx, properties.MongoURI(), properties.MongoDatabase())
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	return store.SaveAnalysis(ctx, storage.NewAnalysisRecord(parcelName, result))
}

// AnalysisHistory lists the persisted analyses for a parcel, most recent
// first.
func AnalysisHistory(ctx context.Context, parcelName string) ([]storage.AnalysisRecord, error) {
	if properties.MongoURI() == "" {
		return nil, fmt.Errorf("analysis history requires MONGO_URI to be configured")
	}

	store, err := storage.NewStore(ctx, properties.MongoURI(), properties.MongoDatabase())
	if err != nil {
		return nil, err
	}
	defer store.Close(ctx)

	return store.ListAnalyses(ctx, parcelName)
}
