package contractor

import (
	"math"
	"testing"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var coord = datastructure.NewTileCoordinate(8392, 5468, 14)

func at(id string, fx, fy float64, tags map[string]string) *datastructure.Node {
	north, west := geo.Num2Deg(coord.X, coord.Y, coord.Zoom)
	south, east := geo.Num2Deg(coord.X+1, coord.Y+1, coord.Zoom)
	return datastructure.NewNode(id, north-fy*(north-south), west+fx*(east-west), tags, nil)
}

func wayLength(tile *datastructure.Tile, way *datastructure.Way) float64 {
	total := 0.0
	for _, seg := range way.Segments() {
		from, to := tile.Nodes[seg.From], tile.Nodes[seg.To]
		total += geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon) * 1000
	}
	return total
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

/*
	  o1 - a - b - j - c - t - d - o2      (main, o1 and o2 outside the tile)
	               |
	               e - f - g               (side)

j is shared, t carries osm:highway, a and d sit next to boundary nodes.
*/
func testTile() *datastructure.Tile {
	nodes := []*datastructure.Node{
		at("o1", -0.1, 0.5, nil), at("a", 0.1, 0.5, nil), at("b", 0.2, 0.5, nil),
		at("j", 0.3, 0.5, nil), at("c", 0.4, 0.5, nil),
		at("t", 0.5, 0.5, map[string]string{"osm:highway": "osm:TrafficSignals"}),
		at("d", 0.8, 0.5, nil), at("o2", 1.1, 0.5, nil),
		at("e", 0.3, 0.6, nil), at("f", 0.3, 0.7, nil), at("g", 0.3, 0.8, nil),
	}
	nodeMap := make(map[string]*datastructure.Node)
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}
	ways := map[string]*datastructure.Way{
		"main": datastructure.NewWay("main", []string{"o1", "a", "b", "j", "c", "t", "d", "o2"}, nil, nil),
		"side": datastructure.NewWay("side", []string{"j", "e", "f", "g"}, nil, nil),
	}
	return datastructure.NewTile(coord, nodeMap, ways)
}

func TestCreateContractedTile(t *testing.T) {
	tile := testTile()
	derived, err := CreateContractedTile(tile)
	require.NoError(t, err)

	main := derived.Ways["main"]
	assert.Equal(t, []string{"o1", "a", "j", "t", "d", "o2"}, main.Nodes)
	assert.Len(t, main.Distances, len(main.Nodes)-1)

	side := derived.Ways["side"]
	assert.Equal(t, []string{"j", "g"}, side.Nodes)
	assert.Len(t, side.Distances, 1)

	assert.Len(t, derived.Nodes, 7)
	assert.NotContains(t, derived.Nodes, "b")
	assert.NotContains(t, derived.Nodes, "f")

	t.Run("total distance is preserved", func(t *testing.T) {
		assert.InDelta(t, wayLength(tile, tile.Ways["main"]), sum(main.Distances), 1e-6)
		assert.InDelta(t, wayLength(tile, tile.Ways["side"]), sum(side.Distances), 1e-6)
	})

	t.Run("elided distance accumulates on the next kept node", func(t *testing.T) {
		ab := wayLength(tile, datastructure.NewWay("x", []string{"a", "b", "j"}, nil, nil))
		assert.InDelta(t, ab, main.Distances[1], 1e-9)
	})
}

func TestContractionPreservesRandomWays(t *testing.T) {
	for run := 0; run < 20; run++ {
		n := 2 + rand.Intn(30)
		nodes := make(map[string]*datastructure.Node, n)
		ids := make([]string, 0, n)
		for i := 0; i < n; i++ {
			id := string(rune('A' + i))
			nodes[id] = at(id, rand.Float64()*1.4-0.2, rand.Float64()*1.4-0.2, nil)
			ids = append(ids, id)
		}
		tile := datastructure.NewTile(coord, nodes, map[string]*datastructure.Way{
			"w": datastructure.NewWay("w", ids, nil, nil),
		})

		derived, err := CreateContractedTile(tile)
		require.NoError(t, err)
		way := derived.Ways["w"]
		assert.Len(t, way.Distances, len(way.Nodes)-1)
		assert.Equal(t, ids[0], way.Nodes[0])
		assert.Equal(t, ids[n-1], way.Nodes[len(way.Nodes)-1])
		assert.True(t, math.Abs(wayLength(tile, tile.Ways["w"])-sum(way.Distances)) < 1e-6)
	}
}

func TestContractionCorruptedTile(t *testing.T) {
	tile := testTile()
	delete(tile.Nodes, "f")

	_, err := CreateContractedTile(tile)
	assert.True(t, util.IsCode(err, util.ErrCorruptedTile))
}
