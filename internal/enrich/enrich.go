// Package enrich attaches external scalar data, such as the current
// temperature, to a coordinate at query time.
package enrich

import (
	"context"
	"fmt"
)

// UnavailableText is shown in place of a value that could not be fetched.
const UnavailableText = "Weather data not available"

// Value is an enrichment result. The zero value is Unavailable.
type Value struct {
	Celsius   float64
	Available bool
}

// Unavailable is the sentinel returned for any failed lookup.
var Unavailable = Value{}

// Temperature returns an available value.
func Temperature(celsius float64) Value {
	return Value{Celsius: celsius, Available: true}
}

// String formats the value with two decimals, or the unavailable text.
func (v Value) String() string {
	if !v.Available {
		return UnavailableText
	}
	return fmt.Sprintf("%.2f°C", v.Celsius)
}

// Enricher looks up a value for a lon/lat pair. Implementations never fail:
// every error maps to Unavailable.
type Enricher interface {
	Enrich(ctx context.Context, lon, lat float64) Value
}

// EnricherFunc adapts a function to Enricher.
type EnricherFunc func(ctx context.Context, lon, lat float64) Value

// Enrich calls f.
func (f EnricherFunc) Enrich(ctx context.Context, lon, lat float64) Value {
	return f(ctx, lon, lat)
}
