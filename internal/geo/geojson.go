package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// CircleSegments is the number of ring vertices produced by Circle.
const CircleSegments = 48

// Circle returns a closed ring of radius radiusMiles around (lon, lat).
func Circle(lon, lat, radiusMiles float64) orb.Ring {
	center := orb.Point{lon, lat}
	// orb works in meters on its own sphere, scale so Distance agrees
	meters := radiusMiles / EarthRadiusMiles * orb.EarthRadius

	ring := make(orb.Ring, 0, CircleSegments+1)
	step := 360.0 / CircleSegments
	for i := 0; i < CircleSegments; i++ {
		ring = append(ring, orbgeo.PointAtBearingAndDistance(center, float64(i)*step, meters))
	}

	// close the ring
	return append(ring, ring[0])
}

// FeatureCollection converts the set to GeoJSON point features with name
// and color properties.
func (s *CoordinateSet) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range s.items {
		f := geojson.NewFeature(c.Point())
		f.Properties["name"] = c.name
		if c.color != "" {
			f.Properties["color"] = c.color
		}
		fc.Append(f)
	}

	return fc
}
