package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parcelhealth/parcelhealth-api/internal/delivery"
	"github.com/parcelhealth/parcelhealth-api/internal/geometry"
	"github.com/parcelhealth/parcelhealth-api/internal/notification"
	"github.com/parcelhealth/parcelhealth-api/internal/scene"
)

// AnalyzeParcel handles the UI flow for a single parcel analysis
func AnalyzeParcel() {
	PrintWarning("- A '.geojson' file with the parcel boundary should be present in the data/parcels folder.\n- The requested date must be one of the catalog's acquisition dates (option 2 lists them).")

	parcel, err := ReadParcel()
	if err != nil {
		PrintError(err.Error())
		return
	}

	date, err := ReadDate("Enter the date to be analyzed (YYYY-MM-DD): ")
	if err != nil {
		PrintError(err.Error())
		return
	}

	windowDays, err := ReadNonNegativeInt("Nearest-date window in days (0 = exact date only): ")
	if err != nil {
		PrintError(err.Error())
		return
	}

	result, err := delivery.AnalyzeParcel(context.Background(), parcel, date, time.Duration(windowDays)*24*time.Hour)
	if err != nil {
		switch {
		case errors.Is(err, scene.ErrSceneNotFound):
			PrintError(fmt.Sprintf("No satellite data available for %s. Pick one of the catalog dates.", date.Format("2006-01-02")))
		case errors.Is(err, geometry.ErrInvalidPolygon):
			PrintError("The parcel boundary is invalid: it needs at least 3 vertices enclosing a non-zero area.")
		default:
			PrintError(fmt.Sprintf("Error analyzing parcel: %s", err.Error()))
			notification.SendDiscordErrorNotification(fmt.Sprintf("ParcelHealth CLI\n\nError analyzing parcel %s: %s", parcel, err.Error()))
		}
		return
	}

	printAnalysis(result)

	if result.Result.Stats.Defined() {
		notification.SendDiscordSuccessNotification(fmt.Sprintf(
			"ParcelHealth CLI\n\nSuccessful analysis of parcel %s for %s!\nPixel CSV: %s\nHealth map: %s",
			parcel, result.Result.SceneDate.Format("2006-01-02"), result.PixelCSVPath, result.HealthMapPath))
	}
}

func printAnalysis(a *delivery.ParcelAnalysis) {
	r := a.Result

	if a.Result.SceneSubstituted {
		PrintWarning(fmt.Sprintf("No scene for %s; used nearest date %s instead.",
			r.RequestedDate.Format("2006-01-02"), r.SceneDate.Format("2006-01-02")))
	}

	if !r.Stats.Defined() {
		PrintWarning(fmt.Sprintf(
			"No valid pixels inside the parcel for %s (%d masked, %d no-data). Statistics are undefined - this is not an NDVI of zero.",
			r.SceneDate.Format("2006-01-02"), r.MaskedPixels, r.NoDataPixels))
		return
	}

	PrintSuccess(fmt.Sprintf("Analysis for %s", r.SceneDate.Format("2006-01-02")))
	fmt.Printf("  Valid pixels:   %d (masked %d, no-data %d, clamped %d)\n",
		r.Stats.PixelCount, r.MaskedPixels, r.NoDataPixels, r.ClampedPixels)
	fmt.Printf("  Mean NDVI:      %.4f\n", *r.Stats.Mean)
	fmt.Printf("  Median NDVI:    %.4f\n", *r.Stats.Median)
	fmt.Printf("  Min / Max:      %.4f / %.4f\n", *r.Stats.Min, *r.Stats.Max)
	fmt.Printf("  Health distribution:\n")
	fmt.Printf("    Poor      (<0.3):  %d (%.1f%%)\n", r.Stats.Histogram.Poor.Count, r.Stats.Histogram.Poor.Pct)
	fmt.Printf("    Moderate  (<0.6):  %d (%.1f%%)\n", r.Stats.Histogram.Moderate.Count, r.Stats.Histogram.Moderate.Pct)
	fmt.Printf("    Excellent (>=0.6): %d (%.1f%%)\n", r.Stats.Histogram.Excellent.Count, r.Stats.Histogram.Excellent.Pct)

	if a.PixelCSVPath != "" {
		fmt.Printf("  Pixel CSV:      %s\n", a.PixelCSVPath)
	}
	if a.SummaryCSVPath != "" {
		fmt.Printf("  Stats CSV:      %s\n", a.SummaryCSVPath)
	}
	if a.HealthMapPath != "" {
		fmt.Printf("  Health map:     %s\n", a.HealthMapPath)
	}
}
