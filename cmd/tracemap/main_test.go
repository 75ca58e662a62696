package main

import (
	"testing"

	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		flagOut []string
		cfgOut  []string
		want    []string
	}{
		{name: "flags win", flagOut: []string{"a.png"}, cfgOut: []string{"b.kml"}, want: []string{"a.png"}},
		{name: "config", cfgOut: []string{"b.kml", "c.html"}, want: []string{"b.kml", "c.html"}},
		{name: "default", want: []string{"map.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPaths(tt.flagOut, tt.cfgOut))
		})
	}
}

func TestToggle(t *testing.T) {
	catalog := layer.NewCatalog(
		layer.Layer{Name: "world", Category: layer.Boundary, Enabled: true},
		layer.Layer{Name: "roads", Category: layer.LinearFeature},
	)

	require.NoError(t, toggle(catalog, []string{"roads"}, true))
	require.NoError(t, toggle(catalog, []string{"world"}, false))

	roads, _ := catalog.Get("roads")
	world, _ := catalog.Get("world")
	assert.True(t, roads.Enabled)
	assert.False(t, world.Enabled)

	err := toggle(catalog, []string{"roads", "volcanoes"}, false)
	assert.ErrorIs(t, err, layer.ErrUnknownLayer)

	roads, _ = catalog.Get("roads")
	assert.False(t, roads.Enabled, "names before the unknown one are applied")
}
