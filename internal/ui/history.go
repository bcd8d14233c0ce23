package ui

import (
	"context"
	"fmt"

	"github.com/parcelhealth/parcelhealth-api/internal/delivery"
)

// AnalysisHistory prints the persisted analyses for a parcel
func AnalysisHistory() {
	parcel, err := ReadParcel()
	if err != nil {
		PrintError(err.Error())
		return
	}

	records, err := delivery.AnalysisHistory(context.Background(), parcel)
	if err != nil {
		PrintError(fmt.Sprintf("Error loading analysis history: %s", err.Error()))
		return
	}

	if len(records) == 0 {
		PrintWarning("No stored analyses for this parcel yet.")
		return
	}

	fmt.Printf("%s\nPast analyses for %s:%s\n", ColorGreen, parcel, ColorReset)
	for _, record := range records {
		if record.Stats.Defined() {
			fmt.Printf("%s- %s: %d pixels, mean NDVI %.4f, excellent %.1f%%%s\n",
				ColorGreen, record.SceneDate.Format("2006-01-02"),
				record.Stats.PixelCount, *record.Stats.Mean,
				record.Stats.Histogram.Excellent.Pct, ColorReset)
			continue
		}
		fmt.Printf("%s- %s: no valid pixels (%d masked, %d no-data)%s\n",
			ColorGreen, record.SceneDate.Format("2006-01-02"),
			record.MaskedPixels, record.NoDataPixels, ColorReset)
	}
}
