package reducer

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"
)

type mapLoader map[datastructure.TileCoordinate]*datastructure.Tile

func (m mapLoader) LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error) {
	tile, ok := m[coord]
	if !ok {
		return nil, util.NewErrorf(util.ErrNotFound, "tile %s not found", coord)
	}
	return tile, nil
}

// at places a node at fraction fx (west to east) and fy (north to south) of tile c.
// Fractions outside [0,1] fall outside the tile.
func at(id string, c datastructure.TileCoordinate, fx, fy float64) *datastructure.Node {
	north, west := geo.Num2Deg(c.X, c.Y, c.Zoom)
	south, east := geo.Num2Deg(c.X+1, c.Y+1, c.Zoom)
	lat := north - fy*(north-south)
	lon := west + fx*(east-west)
	return datastructure.NewNode(id, lat, lon, nil, nil)
}

func newTile(coord datastructure.TileCoordinate, nodes []*datastructure.Node, ways ...*datastructure.Way) *datastructure.Tile {
	nodeMap := make(map[string]*datastructure.Node)
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}
	wayMap := make(map[string]*datastructure.Way)
	for _, w := range ways {
		wayMap[w.ID] = w
	}
	return datastructure.NewTile(coord, nodeMap, wayMap)
}

func newWay(id string, nodes ...string) *datastructure.Way {
	return datastructure.NewWay(id, nodes, nil, nil)
}

func keys[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}

func set(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

var (
	tCoord  = datastructure.NewTileCoordinate(8392, 5468, 14)
	twCoord = datastructure.NewTileCoordinate(8391, 5468, 14)
	teCoord = datastructure.NewTileCoordinate(8393, 5468, 14)
	tnCoord = datastructure.NewTileCoordinate(8392, 5467, 14)
	tsCoord = datastructure.NewTileCoordinate(8392, 5469, 14)
)

/*
neighborhood: a road r runs west to east through tw, t and te, leaving the 3x3 block around t
at rw and re. t also has a dead-end spur s (d-g) and a way u (d-z) ending inside tn.

	        tn:      z
	                 |
	rw  a  b | c     d     e | f  re
	  tw     |    t  |       |  te
	                 g
*/
func neighborhood() mapLoader {
	rw := at("rw", twCoord, -0.5, 0.5)
	a := at("a", twCoord, 0.3, 0.5)
	b := at("b", twCoord, 0.8, 0.5)
	c := at("c", tCoord, 0.2, 0.5)
	d := at("d", tCoord, 0.5, 0.5)
	e := at("e", tCoord, 0.8, 0.5)
	f := at("f", teCoord, 0.3, 0.5)
	re := at("re", teCoord, 1.5, 0.5)
	g := at("g", tCoord, 0.5, 0.8)
	z := at("z", tnCoord, 0.5, 0.5)

	return mapLoader{
		twCoord: newTile(twCoord, []*datastructure.Node{rw, a, b, c}, newWay("r", "rw", "a", "b", "c")),
		tCoord: newTile(tCoord, []*datastructure.Node{b, c, d, e, f, g, z},
			newWay("r", "b", "c", "d", "e", "f"),
			newWay("s", "d", "g"),
			newWay("u", "d", "z"),
		),
		teCoord: newTile(teCoord, []*datastructure.Node{e, f, re}, newWay("r", "e", "f", "re")),
		tnCoord: newTile(tnCoord, []*datastructure.Node{d, z}, newWay("u", "d", "z")),
	}
}
