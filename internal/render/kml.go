package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-kml"
)

// KML writes a KML document with one folder per pass.
type KML struct{}

// Write encodes res as indented KML.
func (KML) Write(w io.Writer, res *compose.Result) error {
	doc := kml.Document(kml.Name("tracemap"))

	for i, p := range res.Passes {
		style := passStyle("pass-"+strconv.Itoa(i), p)
		doc.Add(style)

		folder := kml.Folder(kml.Name(folderName(p)))
		switch {
		case p.Kind == compose.PassLabels:
			for _, l := range p.Labels {
				folder.Add(kml.Placemark(
					kml.Name(l.Text),
					kml.StyleURL(style.URL()),
					kml.Point(kml.Coordinates(coord(l.Point))),
				))
			}
		case p.Features != nil:
			for _, f := range p.Features.Features {
				g := kmlGeometry(f.Geometry)
				if g == nil {
					continue
				}
				pm := kml.Placemark(kml.StyleURL(style.URL()), g)
				if name, ok := f.Properties["name"].(string); ok && name != "" {
					pm.Add(kml.Name(name))
				}
				folder.Add(pm)
			}
		default:
			g := kmlGeometry(p.Geometry)
			if g == nil {
				continue
			}
			name := p.Name
			if p.Kind == compose.PassAnnotation {
				name = p.Text
			}
			pm := kml.Placemark(kml.Name(name), kml.StyleURL(style.URL()), g)
			if p.Text != "" {
				pm.Add(kml.Description(p.Text))
			}
			folder.Add(pm)
		}
		doc.Add(folder)
	}

	if err := kml.KML(doc).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("encode kml: %w", err)
	}
	return nil
}

func folderName(p compose.Pass) string {
	if p.Title != "" {
		return p.Title
	}
	return p.Kind.String() + " " + p.Name
}

func passStyle(id string, p compose.Pass) *kml.SharedElement {
	ink := colorOr(p.Style.Color, defaultInk)
	width := p.Style.LineWidth
	if width <= 0 {
		width = 1
	}

	switch p.Kind {
	case compose.PassLabels, compose.PassAnnotation:
		// text only
		return kml.SharedStyle(id,
			kml.IconStyle(kml.Scale(0)),
			kml.LabelStyle(kml.Color(ink)),
		)
	case compose.PassMarker:
		return kml.SharedStyle(id,
			kml.IconStyle(kml.Color(colorOr(p.Style.Color, markerInk))),
		)
	case compose.PassCircle:
		return kml.SharedStyle(id,
			kml.LineStyle(kml.Color(ink), kml.Width(width)),
			kml.PolyStyle(kml.Color(withOpacity(ink, 0.2))),
		)
	}

	// color must precede fill in PolyStyle
	fill := p.Category == layer.AreaFill
	poly := kml.PolyStyle()
	if fill {
		poly.Add(kml.Color(withOpacity(colorOr(p.Style.FillColor, ink), p.Style.Opacity)))
	}
	poly.Add(kml.Fill(fill), kml.Outline(true))
	return kml.SharedStyle(id,
		kml.LineStyle(kml.Color(withOpacity(ink, p.Style.Opacity)), kml.Width(width)),
		poly,
	)
}

func coord(p orb.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p[0], Lat: p[1]}
}

func coords(ps []orb.Point) *kml.CoordinatesElement {
	cs := make([]kml.Coordinate, len(ps))
	for i, p := range ps {
		cs[i] = coord(p)
	}
	return kml.Coordinates(cs...)
}

func kmlPolygon(p orb.Polygon) kml.Element {
	if len(p) == 0 {
		return nil
	}
	poly := kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(coords(p[0]))))
	for _, hole := range p[1:] {
		poly.Add(kml.InnerBoundaryIs(kml.LinearRing(coords(hole))))
	}
	return poly
}

func kmlGeometry(g orb.Geometry) kml.Element {
	switch g := g.(type) {
	case orb.Point:
		return kml.Point(kml.Coordinates(coord(g)))
	case orb.MultiPoint:
		return multi(len(g), func(i int) kml.Element { return kmlGeometry(g[i]) })
	case orb.LineString:
		return kml.LineString(coords(g))
	case orb.MultiLineString:
		return multi(len(g), func(i int) kml.Element { return kmlGeometry(g[i]) })
	case orb.Ring:
		return kmlPolygon(orb.Polygon{g})
	case orb.Polygon:
		return kmlPolygon(g)
	case orb.MultiPolygon:
		return multi(len(g), func(i int) kml.Element { return kmlPolygon(g[i]) })
	case orb.Collection:
		return multi(len(g), func(i int) kml.Element { return kmlGeometry(g[i]) })
	}
	return nil
}

func multi(n int, at func(int) kml.Element) kml.Element {
	mg := kml.MultiGeometry()
	for i := 0; i < n; i++ {
		if e := at(i); e != nil {
			mg.Add(e)
		}
	}
	return mg
}
