// Package render writes composition results to files: an interactive HTML
// map, raster images, KML and GeoJSON.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/tracemap/internal/compose"

	"github.com/rs/zerolog/log"
)

// ErrUnknownFormat is returned for output paths with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output artifact kind.
type Format string

const (
	FormatHTML    Format = "html"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatKML     Format = "kml"
	FormatGeoJSON Format = "geojson"
)

// Sink encodes a composition result.
type Sink interface {
	Write(w io.Writer, res *compose.Result) error
}

// FormatOf derives the output format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML, nil
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".kml":
		return FormatKML, nil
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// SinkFor returns the default sink of a format.
func SinkFor(f Format) (Sink, error) {
	switch f {
	case FormatHTML:
		return NewHTML(), nil
	case FormatPNG:
		return NewRaster(RasterPNG), nil
	case FormatWebP:
		return NewRaster(RasterWebP), nil
	case FormatKML:
		return KML{}, nil
	case FormatGeoJSON:
		return GeoJSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteFile renders res into path using the format of its extension.
// An existing file is overwritten.
func WriteFile(path string, res *compose.Result) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	sink, err := SinkFor(format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if err := sink.Write(w, res); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	log.Info().Str("path", path).Str("format", string(format)).Msg("Map written")
	return nil
}
