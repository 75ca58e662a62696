package compose

import (
	"bufio"
	"fmt"
	"io"

	"github.com/woozymasta/tracemap/internal/geo"
)

// WriteSummary prints the coordinate list followed by one line per pair
// with its distance.
func WriteSummary(w io.Writer, points []geo.Coordinate, m geo.DistanceMatrix) error {
	bw := bufio.NewWriter(w)

	_, _ = fmt.Fprintln(bw, "Geolocation Data:")
	for _, c := range points {
		_, _ = fmt.Fprintf(bw, "%s: Longitude = %g, Latitude = %g\n", c.Name(), c.Lon(), c.Lat())
	}

	for _, e := range m.Entries() {
		a, b := points[e.I], points[e.J]
		_, _ = fmt.Fprintf(bw, "Distance between %s and %s is %s\n", a.Label(), b.Label(), FormatMiles(e.Miles))
	}

	return bw.Flush()
}

// Summary prints the console summary of a result.
func (r *Result) Summary(w io.Writer) error {
	return WriteSummary(w, r.Points, r.Distances)
}
