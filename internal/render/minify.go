package render

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

// Media types understood by Minify.
const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
	MediaJS   = "text/javascript"
	MediaSVG  = "image/svg+xml"
)

var minifier = sync.OnceValue(func() *minify.M {
	m := minify.New()
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFunc(MediaHTML, html.Minify)
	m.AddFunc(MediaJS, js.Minify)
	m.AddFunc(MediaSVG, svg.Minify)
	return m
})

// Minify minifies s of the given media type.
func Minify(mediatype, s string) (string, error) {
	return minifier().String(mediatype, s)
}
