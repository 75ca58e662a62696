package layer

// DefaultLayers returns the overlay set of the classic desktop map: world
// and US administrative boundaries, water and forest fills, primary roads
// and country/state labels. Sources are file names relative to the data
// directory and can be overridden from config.
func DefaultLayers() []Layer {
	return []Layer{
		{
			Name: "world", Title: "World", Category: Boundary, Rank: RankWorld, Enabled: true,
			Source: "ne_110m_admin_0_countries.geojson",
			Style:  Style{Color: "steelblue", LineWidth: 1},
		},
		{
			Name: "country-labels", Title: "Country labels", Category: LabelSource, Rank: RankCountry, Enabled: true,
			Source: "ne_110m_admin_0_countries.geojson", LabelKey: "name",
			Style: Style{Color: "black"},
		},
		{
			Name: "us-states", Title: "US States", Category: Boundary, Rank: RankState, Enabled: true,
			Source: "gz_2010_us_040_00_500k.json",
			Style:  Style{Color: "black", LineWidth: 1},
		},
		{
			Name: "us-counties", Title: "US Counties", Category: Boundary, Rank: RankCounty, Enabled: true,
			Source: "tl_2019_us_county.geojson",
			Style:  Style{Color: "purple", LineWidth: 2},
		},
		{
			Name: "water", Title: "Bodies of water", Category: AreaFill, Rank: 0, Enabled: true,
			Source: "ne_10m_geography_marine_polys.geojson",
			Style:  Style{FillColor: "lightblue", Opacity: 0.8},
		},
		{
			Name: "mountain-ranges", Title: "Mountain ranges", Category: AreaFill, Rank: 5,
			Source: "ne_10m_geography_regions_polys.geojson",
			Style:  Style{Color: "sienna", FillColor: "tan", Opacity: 0.4},
		},
		{
			Name: "national-forests", Title: "National forests", Category: AreaFill, Rank: 10, Enabled: true,
			Source: "S_USA.AdministrativeRegion.geojson",
			Style:  Style{FillColor: "green", Opacity: 0.6},
		},
		{
			Name: "national-parks", Title: "National parks", Category: AreaFill, Rank: 20,
			Source: "National_Park_Service_Land.geojson",
			Style:  Style{Color: "darkgreen", FillColor: "olivedrab", Opacity: 0.5},
		},
		{
			Name: "roads", Title: "Primary roads", Category: LinearFeature, Rank: 0, Enabled: true,
			Source: "tl_2019_us_primaryroads.geojson",
			Style:  Style{Color: "lightgrey", LineWidth: 1},
		},
		{
			Name: "time-zones", Title: "Time zones", Category: Boundary, Rank: RankTimeZone, Enabled: true,
			Source: "World_Time_Zones.geojson",
			Style:  Style{Color: "orange", LineWidth: 2},
		},
		{
			Name: "state-labels", Title: "State labels", Category: LabelSource, Rank: RankState, Enabled: true,
			Source: "gz_2010_us_040_00_500k.json", LabelKey: "NAME",
			Style: Style{Color: "white"},
		},
	}
}
