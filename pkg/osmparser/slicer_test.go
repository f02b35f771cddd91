package osmparser

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
)

const zoom = 14

// node at fraction (fx, fy) of tile (8392, 5469), fx > 1 lands in the east neighbour
func osmNode(id osm.NodeID, fx, fy float64, tags osm.Tags) *osm.Node {
	north, west := geo.Num2Deg(8392, 5469, zoom)
	south, east := geo.Num2Deg(8393, 5470, zoom)
	return &osm.Node{ID: id, Lat: north - fy*(north-south), Lon: west + fx*(east-west), Tags: tags}
}

func osmWay(id osm.WayID, tags osm.Tags, nodes ...osm.NodeID) *osm.Way {
	wayNodes := make(osm.WayNodes, 0, len(nodes))
	for _, n := range nodes {
		wayNodes = append(wayNodes, osm.WayNode{ID: n})
	}
	return &osm.Way{ID: id, Nodes: wayNodes, Tags: tags}
}

func TestConvertTags(t *testing.T) {
	tags, undefined := ConvertTags(osm.Tags{
		{Key: "highway", Value: "living_street"},
		{Key: "oneway", Value: "-1"},
		{Key: "name", Value: "Groenplaats"},
		{Key: "oneway:bicycle", Value: "no"},
		{Key: "lit", Value: "yes"},
	})
	assert.Equal(t, map[string]string{
		"osm:highway":        "osm:LivingStreet",
		"osm:oneway":         "osm:Reverse",
		"osm:name":           "Groenplaats",
		"osm:oneway_bicycle": "osm:No",
	}, tags)
	assert.Equal(t, []string{"lit=yes"}, undefined)
}

func TestParseMaxSpeed(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"50", 50, true},
		{"30 mph", 30 * 1.609344, true},
		{"70 km/h", 70, true},
		{"signals", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMaxSpeed(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSlice(t *testing.T) {
	slicer := NewTileSlicer(zoom, zap.NewNop().Sugar())

	assert.True(t, slicer.AddWay(osmWay(10, osm.Tags{
		{Key: "highway", Value: "residential"},
		{Key: "maxspeed", Value: "30"},
		{Key: "surface", Value: "paving_stones"},
	}, 1, 2, 3, 4)))
	assert.False(t, slicer.AddWay(osmWay(11, osm.Tags{{Key: "highway", Value: "construction"}}, 1, 2)))
	assert.False(t, slicer.AddWay(osmWay(12, osm.Tags{{Key: "building", Value: "yes"}}, 1, 2)))
	assert.False(t, slicer.AddWay(osmWay(13, osm.Tags{{Key: "highway", Value: "service"}}, 1)))
	assert.True(t, slicer.AddWay(osmWay(14, osm.Tags{{Key: "highway", Value: "service"}}, 2, 99)))

	for _, n := range []*osm.Node{
		osmNode(1, 0.3, 0.5, nil),
		osmNode(2, 0.8, 0.5, osm.Tags{{Key: "highway", Value: "traffic_signals"}}),
		osmNode(3, 1.2, 0.5, nil),
		osmNode(4, 1.6, 0.5, nil),
	} {
		assert.True(t, slicer.AddNode(n))
	}
	assert.False(t, slicer.AddNode(osmNode(5, 0.5, 0.5, nil)))

	tiles := slicer.Slice()
	require.Len(t, tiles, 2)

	west, east := tiles[0], tiles[1]
	assert.Equal(t, datastructure.NewTileCoordinate(8392, 5469, zoom), west.Coordinate)
	assert.Equal(t, datastructure.NewTileCoordinate(8393, 5469, zoom), east.Coordinate)

	wayID := "http://www.openstreetmap.org/way/10"
	node := func(id string) string { return "http://www.openstreetmap.org/node/" + id }

	require.Contains(t, west.Ways, wayID)
	assert.Equal(t, []string{node("1"), node("2"), node("3")}, west.Ways[wayID].Nodes)
	assert.Equal(t, []string{node("2"), node("3"), node("4")}, east.Ways[wayID].Nodes)
	assert.Len(t, west.Ways, 1)
	assert.Len(t, west.Nodes, 3)

	way := west.Ways[wayID]
	assert.Equal(t, 30.0, way.MaxSpeed)
	assert.Equal(t, map[string]string{
		"osm:highway": "osm:Residential",
		"osm:surface": "osm:PavingStones",
	}, way.Tags)
	assert.Equal(t, map[string]string{"osm:highway": "osm:TrafficSignals"}, west.Nodes[node("2")].Tags)

	// boundary nodes lie outside the tile they are stored in
	bb := west.Coordinate.BoundingBox()
	assert.False(t, bb.Contains(west.Nodes[node("3")].Lat, west.Nodes[node("3")].Lon))
}

func TestSliceWithBoundingBox(t *testing.T) {
	slicer := NewTileSlicer(zoom, zap.NewNop().Sugar()).
		WithBoundingBox(geo.TileBoundingBox(8392, 5469, zoom))
	slicer.AddWay(osmWay(10, osm.Tags{{Key: "highway", Value: "primary"}}, 1, 2, 3, 4))
	for _, n := range []*osm.Node{
		osmNode(1, 0.3, 0.5, nil), osmNode(2, 0.8, 0.5, nil),
		osmNode(3, 1.2, 0.5, nil), osmNode(4, 1.6, 0.5, nil),
	} {
		slicer.AddNode(n)
	}

	tiles := slicer.Slice()
	require.NotEmpty(t, tiles)
	for _, tile := range tiles {
		assert.Equal(t, uint32(5469), tile.Coordinate.Y)
		assert.LessOrEqual(t, tile.Coordinate.X, uint32(8393))
	}
}
