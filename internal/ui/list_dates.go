package ui

import (
	"context"
	"fmt"

	"github.com/parcelhealth/parcelhealth-api/internal/delivery"
)

// ListCatalogDates prints the acquisition dates available for a parcel
func ListCatalogDates() {
	parcel, err := ReadParcel()
	if err != nil {
		PrintError(err.Error())
		return
	}

	dates, err := delivery.ListCatalogDates(context.Background(), parcel)
	if err != nil {
		PrintError(fmt.Sprintf("Error listing catalog dates: %s", err.Error()))
		return
	}

	if len(dates) == 0 {
		PrintWarning("The catalog has no scenes for this parcel.")
		return
	}

	fmt.Printf("%s\nAvailable acquisition dates:%s\n", ColorGreen, ColorReset)
	for _, date := range dates {
		fmt.Printf("%s- %s%s\n", ColorGreen, date.Format("2006-01-02"), ColorReset)
	}
}
