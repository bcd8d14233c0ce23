package scene

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSceneNotFound means the requested date has no catalog entry.
	ErrSceneNotFound = errors.New("no scene available for the requested date")
	// ErrProviderUnavailable means the imagery backend could not be reached.
	ErrProviderUnavailable = errors.New("imagery provider unavailable")
)

// Catalog is the sole I/O dependency of the analysis core: a queryable
// provider of per-date scenes. GetScene must honor context cancellation.
type Catalog interface {
	Dates(ctx context.Context) ([]time.Time, error)
	GetScene(ctx context.Context, date time.Time) (*Scene, error)
}

// Resolution reports which scene was actually used. ActualDate differs
// from RequestedDate only when the nearest-date window substituted it.
type Resolution struct {
	Scene         *Scene
	RequestedDate time.Time
	ActualDate    time.Time
	Substituted   bool
}

// Resolver maps a requested date to a catalog scene. The default mode is
// strict exact match; nearest-within-window is an explicit opt-in and
// never silently hides which date was served.
type Resolver struct {
	catalog Catalog
	window  time.Duration
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// NewNearestResolver allows a fallback to the closest catalog date within
// the given window when the exact date is missing.
func NewNearestResolver(catalog Catalog, window time.Duration) *Resolver {
	return &Resolver{catalog: catalog, window: window}
}

func (r *Resolver) Resolve(ctx context.Context, date time.Time) (*Resolution, error) {
	requested := normalizeDate(date)

	dates, err := r.catalog.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog dates: %w", err)
	}

	actual, found := matchDate(dates, requested, r.window)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, requested.Format("2006-01-02"))
	}

	s, err := r.catalog.GetScene(ctx, actual)
	if err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	return &Resolution{
		Scene:         s,
		RequestedDate: requested,
		ActualDate:    actual,
		Substituted:   !actual.Equal(requested),
	}, nil
}

func matchDate(dates []time.Time, requested time.Time, window time.Duration) (time.Time, bool) {
	var nearest time.Time
	nearestGap := window + 1
	for _, d := range dates {
		d = normalizeDate(d)
		if d.Equal(requested) {
			return d, true
		}
		if window <= 0 {
			continue
		}
		gap := requested.Sub(d)
		if gap < 0 {
			gap = -gap
		}
		if gap <= window && gap < nearestGap {
			nearest = d
			nearestGap = gap
		}
	}
	if window > 0 && !nearest.IsZero() {
		return nearest, true
	}
	return time.Time{}, false
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
