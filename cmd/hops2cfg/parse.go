package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/tracemap/internal/config"
	"github.com/woozymasta/tracemap/internal/geo"
)

// Regex Pattern captures: 1=Hop, 2=Name, 3=Address, 4=Lon, 5=Lat
var hopRegex = regexp.MustCompile(
	`^\s*(?:(\d+)[.)]?\s+)?` + // optional hop number ("3", "3." or "3)")
		`([^\s(]+)` + // host name or address
		`(?:\s+\(([^)]+)\))?` + // optional "(203.0.113.5)"
		`\s+(-?\d+(?:\.\d+)?)` + // longitude
		`[\s,]+(-?\d+(?:\.\d+)?)\s*$`, // latitude
)

// parseOptions control how hop lines become points.
type parseOptions struct {
	Color       string
	UseAddress  bool // name points by address when one is given
	NumberNames bool // prefix names with the hop number
}

// skipped describes a line that did not become a point.
type skipped struct {
	Text   string
	Reason string
	Line   int
}

// parseHops reads hop lines and returns points in input order. Blank lines
// and lines starting with # are ignored silently; everything else that does
// not parse, has out of range coordinates or repeats a name is skipped.
func parseHops(r io.Reader, opts parseOptions) ([]config.Point, []skipped, error) {
	var (
		points []config.Point
		skips  []skipped
	)
	set := &geo.CoordinateSet{}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m := hopRegex.FindStringSubmatch(text)
		if m == nil {
			skips = append(skips, skipped{Line: line, Text: text, Reason: "unrecognized line"})
			continue
		}

		hop, name, addr := m[1], m[2], m[3]
		if opts.UseAddress && addr != "" {
			name = addr
		}
		if opts.NumberNames && hop != "" {
			name = hop + " " + name
		}

		lon, err1 := strconv.ParseFloat(m[4], 64)
		lat, err2 := strconv.ParseFloat(m[5], 64)
		if err1 != nil || err2 != nil {
			skips = append(skips, skipped{Line: line, Text: text, Reason: "invalid coordinates"})
			continue
		}

		if err := set.AddPoint(name, lon, lat, opts.Color); err != nil {
			skips = append(skips, skipped{Line: line, Text: text, Reason: err.Error()})
			continue
		}
		points = append(points, config.Point{Name: name, Lon: lon, Lat: lat, Color: opts.Color})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read hops: %w", err)
	}

	return points, skips, nil
}
