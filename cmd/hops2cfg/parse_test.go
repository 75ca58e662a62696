package main

import (
	"strings"
	"testing"

	"github.com/woozymasta/tracemap/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const hops = `
# traceroute to example.org
 1  gw.lan (192.168.1.1)  -122.33 47.6038
 2. core1.sea.example.net (203.0.113.5) -122.3321, 47.6062
 3) * * *
 4  edge.mtv.example.net  -122.0832 37.3893
 5  bad.example.net (198.51.100.7)  -200 10
 6  gw.lan (192.168.1.1)  -122.33 47.6038
`

func TestParseHops(t *testing.T) {
	points, skips, err := parseHops(strings.NewReader(hops), parseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []config.Point{
		{Name: "gw.lan", Lon: -122.33, Lat: 47.6038},
		{Name: "core1.sea.example.net", Lon: -122.3321, Lat: 47.6062},
		{Name: "edge.mtv.example.net", Lon: -122.0832, Lat: 37.3893},
	}, points)

	require.Len(t, skips, 3)
	assert.Equal(t, 5, skips[0].Line)
	assert.Equal(t, "unrecognized line", skips[0].Reason)
	assert.Contains(t, skips[1].Reason, "longitude")
	assert.Contains(t, skips[2].Reason, "gw.lan")
}

func TestParseHopsOptions(t *testing.T) {
	points, skips, err := parseHops(strings.NewReader(hops), parseOptions{
		Color:       "red",
		UseAddress:  true,
		NumberNames: true,
	})
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, "1 192.168.1.1", points[0].Name)
	assert.Equal(t, "2 203.0.113.5", points[1].Name)
	assert.Equal(t, "4 edge.mtv.example.net", points[2].Name)
	assert.Equal(t, "6 192.168.1.1", points[3].Name)
	assert.Equal(t, "red", points[0].Color)
	assert.Len(t, skips, 2)
}

func TestMarshalFragment(t *testing.T) {
	v := fragment{Points: []config.Point{{Name: "a", Lon: 1.5, Lat: -2}}}

	out, err := marshal(v, "yaml")
	require.NoError(t, err)

	cfg, err := config.Decode(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, v.Points, cfg.Points)

	out, err = marshal(v, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[{"name":"a","lon":1.5,"lat":-2}]}`, string(out))

	var back fragment
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, v, back)
}
