package layer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(layers []Layer) []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.Name
	}
	return out
}

func TestActive_CategoryOrderRegardlessOfRegistration(t *testing.T) {
	defs := []Layer{
		{Name: "state-labels", Category: LabelSource, Rank: RankState, Enabled: true},
		{Name: "roads", Category: LinearFeature, Enabled: true},
		{Name: "forests", Category: AreaFill, Rank: 10, Enabled: true},
		{Name: "counties", Category: Boundary, Rank: RankCounty, Enabled: true},
		{Name: "water", Category: AreaFill, Enabled: true},
		{Name: "world", Category: Boundary, Rank: RankWorld, Enabled: true},
		{Name: "states", Category: Boundary, Rank: RankState, Enabled: true},
	}
	want := []string{"world", "states", "counties", "water", "forests", "roads", "state-labels"}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := make([]Layer, len(defs))
		copy(shuffled, defs)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := NewCatalog(shuffled...).Active()
		assert.Equal(t, want, names(got))

		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Category, got[i].Category)
		}
	}
}

func TestActive_SkipsDisabledAndKeepsRegistrationOrderOnTies(t *testing.T) {
	c := NewCatalog(
		Layer{Name: "b", Category: AreaFill, Enabled: true},
		Layer{Name: "a", Category: AreaFill, Enabled: true},
		Layer{Name: "off", Category: Boundary},
	)

	assert.Equal(t, []string{"b", "a"}, names(c.Active()))
	assert.Len(t, c.Layers(), 3)
}

func TestSetEnabled(t *testing.T) {
	c := NewCatalog(Layer{Name: "roads", Category: LinearFeature})

	require.NoError(t, c.SetEnabled("roads", true))
	assert.Equal(t, []string{"roads"}, names(c.Active()))

	require.NoError(t, c.SetEnabled("roads", false))
	assert.Empty(t, c.Active())

	err := c.SetEnabled("rivers", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLayer)
	assert.Contains(t, err.Error(), "rivers")
}

func TestRegister_LastWriteWins(t *testing.T) {
	c := NewCatalog(
		Layer{Name: "states", Category: Boundary, Style: Style{Color: "green"}, Enabled: true},
		Layer{Name: "counties", Category: Boundary, Rank: RankCounty, Enabled: true},
	)

	c.Register(Layer{Name: "states", Category: Boundary, Style: Style{Color: "black"}, Enabled: true})

	l, ok := c.Get("states")
	require.True(t, ok)
	assert.Equal(t, "black", l.Style.Color)
	assert.Equal(t, []string{"states", "counties"}, names(c.Layers()))
}

func TestZeroCatalogIsUsable(t *testing.T) {
	var c Catalog
	c.Register(Layer{Name: "world", Enabled: true})
	assert.Equal(t, []string{"world"}, names(c.Active()))
}

func TestCategoryText(t *testing.T) {
	for _, c := range []Category{Boundary, AreaFill, LinearFeature, LabelSource} {
		b, err := c.MarshalText()
		require.NoError(t, err)

		var back Category
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, c, back)
	}

	_, err := ParseCategory("raster")
	assert.Error(t, err)
}

func TestLayerLoadError(t *testing.T) {
	cause := errors.New("no such file")
	err := error(&LayerLoadError{Layer: "roads", Source: "roads.geojson", Err: cause})

	assert.ErrorIs(t, err, ErrLayerLoad)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `load layer "roads" from roads.geojson: no such file`, err.Error())
}

func TestLoaderFunc(t *testing.T) {
	called := ""
	var loader Loader = LoaderFunc(func(_ context.Context, l Layer) (*geojson.FeatureCollection, error) {
		called = l.Name
		return geojson.NewFeatureCollection(), nil
	})

	fc, err := loader.Load(context.Background(), Layer{Name: "world"})
	require.NoError(t, err)
	assert.NotNil(t, fc)
	assert.Equal(t, "world", called)
}

func TestDefaultLayers(t *testing.T) {
	c := NewCatalog(DefaultLayers()...)
	active := c.Active()

	require.NotEmpty(t, active)
	assert.Equal(t, "world", active[0].Name)
	assert.Equal(t, LabelSource, active[len(active)-1].Category)

	mtn, ok := c.Get("mountain-ranges")
	require.True(t, ok)
	assert.False(t, mtn.Enabled)
}
