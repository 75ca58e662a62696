package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Coordinate is a named, validated lon/lat point. The zero value is not a
// valid coordinate; use NewCoordinate.
type Coordinate struct {
	name  string
	color string
	lon   float64
	lat   float64
}

// NewCoordinate validates the inputs and returns an immutable Coordinate.
// color is an optional marker style tag, empty means default style.
func NewCoordinate(name string, lon, lat float64, color string) (Coordinate, error) {
	if name == "" {
		return Coordinate{}, &InvalidRangeError{Field: "name"}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Coordinate{}, &InvalidRangeError{Name: name, Field: "longitude", Value: lon}
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinate{}, &InvalidRangeError{Name: name, Field: "latitude", Value: lat}
	}

	return Coordinate{name: name, lon: lon, lat: lat, color: color}, nil
}

// Name returns the coordinate name.
func (c Coordinate) Name() string { return c.name }

// Lon returns the longitude in degrees.
func (c Coordinate) Lon() float64 { return c.lon }

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 { return c.lat }

// Color returns the marker style tag, possibly empty.
func (c Coordinate) Color() string { return c.color }

// Point returns the coordinate as an orb point ([lon, lat]).
func (c Coordinate) Point() orb.Point { return orb.Point{c.lon, c.lat} }

// Label is the marker text used on maps and in console output.
func (c Coordinate) Label() string {
	return fmt.Sprintf("%s (%s, %s)", c.name, formatDegrees(c.lon), formatDegrees(c.lat))
}

// DistanceTo returns the great-circle distance to o in miles.
func (c Coordinate) DistanceTo(o Coordinate) float64 {
	return Distance(c.lon, c.lat, o.lon, o.lat)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
