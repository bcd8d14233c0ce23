package scene

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCatalog struct {
	scenes   map[string]*Scene
	datesErr error
	getCalls int
}

func (m *memoryCatalog) Dates(ctx context.Context) ([]time.Time, error) {
	if m.datesErr != nil {
		return nil, m.datesErr
	}
	var dates []time.Time
	for key := range m.scenes {
		date, _ := time.Parse("2006-01-02", key)
		dates = append(dates, date)
	}
	return dates, nil
}

func (m *memoryCatalog) GetScene(ctx context.Context, date time.Time) (*Scene, error) {
	m.getCalls++
	s, ok := m.scenes[date.Format("2006-01-02")]
	if !ok {
		return nil, ErrSceneNotFound
	}
	return s, nil
}

func testScene(dateStr string) *Scene {
	date, _ := time.Parse("2006-01-02", dateStr)
	return &Scene{
		Date:         date,
		Width:        1,
		Height:       1,
		GeoTransform: [6]float64{0, 1, 0, 1, 0, -1},
		NIR:          []float64{0.5},
		RED:          []float64{0.1},
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestResolveExactMatch(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
		"2025-04-22": testScene("2025-04-22"),
	}}
	resolver := NewResolver(catalog)

	resolution, err := resolver.Resolve(context.Background(), date(t, "2025-04-22"))
	require.NoError(t, err)

	assert.Equal(t, date(t, "2025-04-22"), resolution.ActualDate)
	assert.False(t, resolution.Substituted)
	assert.NotNil(t, resolution.Scene)
}

func TestResolveMissingDateIsSceneNotFound(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
	}}
	resolver := NewResolver(catalog)

	_, err := resolver.Resolve(context.Background(), date(t, "2025-05-01"))
	require.ErrorIs(t, err, ErrSceneNotFound)
	assert.Zero(t, catalog.getCalls)
}

func TestResolveDoesNotFallBackByDefault(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
	}}
	resolver := NewResolver(catalog)

	// One day off an existing scene must still be a miss in exact mode.
	_, err := resolver.Resolve(context.Background(), date(t, "2025-04-13"))
	require.ErrorIs(t, err, ErrSceneNotFound)
}

func TestNearestResolverSubstitutesWithinWindow(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
		"2025-04-22": testScene("2025-04-22"),
	}}
	resolver := NewNearestResolver(catalog, 5*24*time.Hour)

	resolution, err := resolver.Resolve(context.Background(), date(t, "2025-04-24"))
	require.NoError(t, err)

	assert.Equal(t, date(t, "2025-04-22"), resolution.ActualDate)
	assert.Equal(t, date(t, "2025-04-24"), resolution.RequestedDate)
	assert.True(t, resolution.Substituted)
}

func TestNearestResolverPrefersExactMatch(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
		"2025-04-13": testScene("2025-04-13"),
	}}
	resolver := NewNearestResolver(catalog, 5*24*time.Hour)

	resolution, err := resolver.Resolve(context.Background(), date(t, "2025-04-13"))
	require.NoError(t, err)
	assert.Equal(t, date(t, "2025-04-13"), resolution.ActualDate)
	assert.False(t, resolution.Substituted)
}

func TestNearestResolverRespectsWindow(t *testing.T) {
	catalog := &memoryCatalog{scenes: map[string]*Scene{
		"2025-04-12": testScene("2025-04-12"),
	}}
	resolver := NewNearestResolver(catalog, 3*24*time.Hour)

	_, err := resolver.Resolve(context.Background(), date(t, "2025-04-20"))
	require.ErrorIs(t, err, ErrSceneNotFound)
}

func TestResolvePropagatesProviderErrors(t *testing.T) {
	catalog := &memoryCatalog{datesErr: ErrProviderUnavailable}
	resolver := NewResolver(catalog)

	_, err := resolver.Resolve(context.Background(), date(t, "2025-04-12"))
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCellCenterUsesPixelCenters(t *testing.T) {
	s := &Scene{
		Width:        2,
		Height:       2,
		GeoTransform: [6]float64{10, 0.5, 0, 50, 0, -0.5},
	}

	lat, lon := s.CellCenter(0, 0)
	assert.InDelta(t, 49.75, lat, 1e-9)
	assert.InDelta(t, 10.25, lon, 1e-9)

	lat, lon = s.CellCenter(1, 1)
	assert.InDelta(t, 49.25, lat, 1e-9)
	assert.InDelta(t, 10.75, lon, 1e-9)
}
