package ui

import (
	"fmt"

	"github.com/parcelhealth/parcelhealth-api/internal/delivery"
)

// ListParcels prints the parcels available in the data/parcels folder
func ListParcels() {
	parcels, err := delivery.ListParcels()
	if err != nil {
		PrintError(err.Error())
		return
	}

	PrintWarning("To add a new parcel, drop its '.geojson' boundary file into the 'data/parcels' folder.")

	fmt.Printf("%s\nAvailable parcels:%s\n", ColorGreen, ColorReset)
	for _, parcel := range parcels {
		fmt.Printf("%s- %s%s\n", ColorGreen, parcel, ColorReset)
	}
}
