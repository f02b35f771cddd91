package reducer

import (
	"testing"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBinaryTile(t *testing.T) {
	yes := true
	p := &profile.Profile{
		OnewayRules: []profile.Rule{{
			Match:     &profile.Condition{Predicate: "osm:oneway", Object: "osm:Yes"},
			Concludes: profile.Conclusion{Oneway: &yes},
		}},
	}
	oneway := datastructure.NewWay("w2", []string{"c", "d"}, map[string]string{"osm:oneway": "osm:Yes"}, nil)
	tile := newTile(tCoord, []*datastructure.Node{
		at("d", tCoord, 0.4, 0.4), at("a", tCoord, 0.1, 0.1), at("c", tCoord, 0.3, 0.3),
		at("b", tCoord, 0.2, 0.2),
	}, newWay("w1", "a", "b", "c"), oneway)

	weighted, err := CreateBinaryTile(tile, p)
	require.NoError(t, err)

	assert.Equal(t, map[string]uint32{"a": 0, "b": 1, "c": 2, "d": 3}, weighted.Labels)
	require.Len(t, weighted.Locations, 4)
	for id, label := range weighted.Labels {
		assert.Equal(t, id, weighted.Locations[label].ID)
		assert.Equal(t, tile.Nodes[id].Lat, weighted.Locations[label].Lat)
	}

	// w1 two-way: 2 pairs x 2 directions, w2 one-way: 1
	assert.Len(t, weighted.Edges, 5)
	edges := make(map[[2]uint32]uint64)
	for _, e := range weighted.Edges {
		assert.GreaterOrEqual(t, e.Weight, uint64(1))
		edges[[2]uint32{e.From, e.To}] = e.Weight
	}
	assert.Contains(t, edges, [2]uint32{2, 3})
	assert.NotContains(t, edges, [2]uint32{3, 2})
	assert.Equal(t, uint64(p.GetCost(tile.Nodes["a"], tile.Nodes["b"], tile.Ways["w1"])), edges[[2]uint32{0, 1}])
}
