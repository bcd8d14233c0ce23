package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parcelhealth/parcelhealth-api/internal/cache"
	"github.com/parcelhealth/parcelhealth-api/internal/geometry"
	"github.com/parcelhealth/parcelhealth-api/internal/properties"
	"github.com/parcelhealth/parcelhealth-api/internal/utils"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	sentinelProcessURL = "https://sh.dataspace.copernicus.eu/api/v1/process"
	sentinelCatalogURL = "https://sh.dataspace.copernicus.eu/api/v1/catalog/1.0.0/search"
)

// Reflectance bands requested from the process API, in output order.
const sentinelEvalscript = `
    //VERSION=3
    function setup() {
      return {
        input: ["B08", "B04"],
        output: {
          id: "default",
          bands: 2,
          sampleType: SampleType.FLOAT32,
        },
      }
    }

    function evaluatePixel(sample) {
      return [sample.B08, sample.B04];
    }
  `

// SentinelHubCatalog fetches per-date scenes for one parcel from the
// Copernicus Sentinel Hub process API. The available acquisition dates
// are enumerated up front; the date picker in the UI mirrors this list.
// Downloaded TIFFs are kept in a file cache keyed by date and geometry.
type SentinelHubCatalog struct {
	polygon    geometry.Polygon
	dates      []time.Time
	lookback   time.Duration
	resolution float64
	cache      *cache.RawFileCache
	processURL string
	catalogURL string
}

// NewSentinelHubCatalog discovers acquisition dates through the catalog
// search API, looking back one year from now.
func NewSentinelHubCatalog(polygon geometry.Polygon, resolutionMeters float64) *SentinelHubCatalog {
	return &SentinelHubCatalog{
		polygon:    polygon,
		lookback:   365 * 24 * time.Hour,
		resolution: resolutionMeters,
		cache:      cache.NewRawFileCache("scenes", ".tiff"),
		processURL: sentinelProcessURL,
		catalogURL: sentinelCatalogURL,
	}
}

// NewEnumeratedSentinelHubCatalog serves a fixed acquisition date list,
// the list the UI's date picker is populated from.
func NewEnumeratedSentinelHubCatalog(polygon geometry.Polygon, dates []time.Time, resolutionMeters float64) *SentinelHubCatalog {
	c := NewSentinelHubCatalog(polygon, resolutionMeters)
	normalized := make([]time.Time, len(dates))
	for i, d := range dates {
		normalized[i] = normalizeDate(d)
	}
	c.dates = utils.SortDates(normalized, true)
	return c
}

func (c *SentinelHubCatalog) Dates(ctx context.Context) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.dates) > 0 {
		dates := make([]time.Time, len(c.dates))
		copy(dates, c.dates)
		return dates, nil
	}
	return c.searchDates(ctx)
}

func (c *SentinelHubCatalog) GetScene(ctx context.Context, date time.Time) (*Scene, error) {
	date = normalizeDate(date)
	if len(c.dates) > 0 && !c.hasDate(date) {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, date.Format("2006-01-02"))
	}

	bound := c.polygon.Bound()
	key := cache.Key(date.Format("2006-01-02"), bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1], c.resolution)
	path := c.cache.Path(key)
	if !c.cache.Has(key) {
		content, err := c.requestImage(ctx, date)
		if err != nil {
			return nil, err
		}
		path, err = c.cache.Set(key, content)
		if err != nil {
			return nil, err
		}
	}

	var s *Scene
	var err error
	utils.ExecuteWithGDALLock(func() {
		s, err = readSceneFromTIFF(path, date)
	})
	return s, err
}

func (c *SentinelHubCatalog) hasDate(date time.Time) bool {
	for _, d := range c.dates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

// searchDates queries the STAC catalog for sentinel-2-l2a acquisitions
// over the parcel within the lookback period.
func (c *SentinelHubCatalog) searchDates(ctx context.Context) ([]time.Time, error) {
	bound := c.polygon.Bound()
	now := time.Now().UTC()

	requestPayload := map[string]interface{}{
		"bbox":        []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]},
		"datetime":    fmt.Sprintf("%s/%s", now.Add(-c.lookback).Format(time.RFC3339), now.Format(time.RFC3339)),
		"collections": []string{"sentinel-2-l2a"},
		"limit":       100,
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog search payload: %v", err)
	}

	httpClient, err := c.authorizedClient(ctx)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.catalogURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return nil, fmt.Errorf("%w: catalog search returned status %d: %s", ErrProviderUnavailable, response.StatusCode, string(body))
	}

	var searchResult struct {
		Features []struct {
			Properties struct {
				Datetime time.Time `json:"datetime"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(response.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("%w: failed to decode catalog search response: %v", ErrProviderUnavailable, err)
	}

	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, feature := range searchResult.Features {
		date := normalizeDate(feature.Properties.Datetime)
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	return utils.SortDates(dates, true), nil
}

func (c *SentinelHubCatalog) authorizedClient(ctx context.Context) (*http.Client, error) {
	clientID := properties.CopernicusClientID()
	clientSecret := properties.CopernicusClientSecret()
	tokenURL := properties.CopernicusTokenURL()
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("%w: missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL", ErrProviderUnavailable)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return config.Client(ctx), nil
}

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}

func (c *SentinelHubCatalog) requestImage(ctx context.Context, date time.Time) ([]byte, error) {
	bound := c.polygon.Bound()
	widthPixels := calculatePixels(bound.Max[0]-bound.Min[0], c.resolution)
	heightPixels := calculatePixels(bound.Max[1]-bound.Min[1], c.resolution)
	// Clamp to allowed range (1-2500)
	if widthPixels > 2500 {
		widthPixels = 2500
	}
	if heightPixels > 2500 {
		heightPixels = 2500
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": polygonGeoJSON(c.polygon),
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": date.Format("2006-01-02") + "T00:00:00Z",
							"to":   date.Format("2006-01-02") + "T23:59:59Z",
						},
					},
					"type": "sentinel-2-l2a",
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": sentinelEvalscript,
		"mosaicking": "mostRecent",
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	httpClient, err := c.authorizedClient(ctx)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.processURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	// No retry here: backoff policy belongs to the caller.
	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return nil, fmt.Errorf("%w: process API returned status %d: %s", ErrProviderUnavailable, response.StatusCode, string(body))
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrProviderUnavailable, err)
	}
	return content, nil
}

func polygonGeoJSON(polygon geometry.Polygon) map[string]interface{} {
	vertices := polygon.Vertices()
	ring := make([][]float64, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, []float64{v.Lon, v.Lat})
	}
	ring = append(ring, ring[0])

	return map[string]interface{}{
		"type":        "Polygon",
		"coordinates": [][][]float64{ring},
	}
}
