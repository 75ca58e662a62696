package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the CSS names used by the default layers and typical
// marker tags.
var namedColors = map[string]color.RGBA{
	"black":      {0x00, 0x00, 0x00, 0xff},
	"white":      {0xff, 0xff, 0xff, 0xff},
	"red":        {0xff, 0x00, 0x00, 0xff},
	"darkred":    {0x8b, 0x00, 0x00, 0xff},
	"green":      {0x00, 0x80, 0x00, 0xff},
	"darkgreen":  {0x00, 0x64, 0x00, 0xff},
	"lightgreen": {0x90, 0xee, 0x90, 0xff},
	"olivedrab":  {0x6b, 0x8e, 0x23, 0xff},
	"blue":       {0x00, 0x00, 0xff, 0xff},
	"darkblue":   {0x00, 0x00, 0x8b, 0xff},
	"lightblue":  {0xad, 0xd8, 0xe6, 0xff},
	"steelblue":  {0x46, 0x82, 0xb4, 0xff},
	"cadetblue":  {0x5f, 0x9e, 0xa0, 0xff},
	"navy":       {0x00, 0x00, 0x80, 0xff},
	"orange":     {0xff, 0xa5, 0x00, 0xff},
	"purple":     {0x80, 0x00, 0x80, 0xff},
	"darkpurple": {0x5b, 0x2c, 0x6f, 0xff},
	"pink":       {0xff, 0xc0, 0xcb, 0xff},
	"beige":      {0xf5, 0xf5, 0xdc, 0xff},
	"yellow":     {0xff, 0xff, 0x00, 0xff},
	"gray":       {0x80, 0x80, 0x80, 0xff},
	"grey":       {0x80, 0x80, 0x80, 0xff},
	"lightgray":  {0xd3, 0xd3, 0xd3, 0xff},
	"lightgrey":  {0xd3, 0xd3, 0xd3, 0xff},
	"sienna":     {0xa0, 0x52, 0x2d, 0xff},
	"tan":        {0xd2, 0xb4, 0x8c, 0xff},
	"brown":      {0xa5, 0x2a, 0x2a, 0xff},
}

// ParseColor parses a CSS color name, #rgb or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// colorOr parses s and falls back to def for empty or unknown values.
func colorOr(s string, def color.RGBA) color.RGBA {
	if s == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// withOpacity returns c with alpha scaled by opacity in (0, 1]. Zero keeps c opaque.
func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	a := 1.0
	if opacity > 0 && opacity < 1 {
		a = opacity
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a * 255)}
}

// hexColor formats c as #rrggbb for HTML output.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
