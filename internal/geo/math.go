// Package geo holds coordinates, coordinate sets and great-circle math.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used by Distance.
const EarthRadiusMiles = 3958.8

// MilesPerKilometer converts kilometers to statute miles.
const MilesPerKilometer = 0.621371

// Distance returns the great-circle distance in miles between two lon/lat
// pairs using the haversine formula on a sphere of EarthRadiusMiles.
//
// Inputs are expected to be valid; callers validate once when building a
// Coordinate.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
