package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoint parses the command line form "name,lon,lat[,color]".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return Point{}, fmt.Errorf("point %q: want name,lon,lat[,color]", s)
	}

	p := Point{Name: strings.TrimSpace(parts[0])}

	var err error
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return Point{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err != nil {
		return Point{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	if len(parts) == 4 {
		p.Color = strings.TrimSpace(parts[3])
	}
	return p, nil
}
