package contractor

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
)

// addressable node tags, nodes carrying one of them always survive contraction
var keptNodeTags = []string{"osm:highway", "osm:barrier", "osm:crossing"}

// WayContractor collapses the non-decision nodes of a tile's ways into distance-annotated shortcuts.
type WayContractor struct {
	tile        *datastructure.Tile
	outOfBounds map[string]struct{}
	degrees     map[string]int
	useful      map[string]struct{}
}

func NewWayContractor(tile *datastructure.Tile) (*WayContractor, error) {
	wc := &WayContractor{
		tile:        tile,
		outOfBounds: make(map[string]struct{}),
		degrees:     make(map[string]int),
	}
	for _, id := range tile.BoundaryNodes(tile.Coordinate.BoundingBox()) {
		wc.outOfBounds[id] = struct{}{}
	}
	for _, way := range tile.Ways {
		for _, id := range way.Nodes {
			wc.degrees[id]++
		}
	}

	useful, err := wc.usefulNodes()
	if err != nil {
		return nil, err
	}
	wc.useful = useful
	return wc, nil
}

func (wc *WayContractor) isOutOfBounds(id string) bool {
	_, ok := wc.outOfBounds[id]
	return ok
}

/*
usefulNodes: node yang harus tetap ada setelah kontraksi:
  - node di luar tile (boundary node)
  - node yang dipakai lebih dari satu kali (junction)
  - node sebelum/sesudah boundary node
  - node pertama & terakhir dari way
  - node dengan tag highway/barrier/crossing
*/
func (wc *WayContractor) usefulNodes() (map[string]struct{}, error) {
	useful := make(map[string]struct{})
	for _, wayID := range wc.tile.SortedWayIDs() {
		way := wc.tile.Ways[wayID]
		last := len(way.Nodes) - 1
		for i, id := range way.Nodes {
			node, err := wc.tile.GetWayNode(way.ID, id)
			if err != nil {
				return nil, err
			}

			keep := wc.isOutOfBounds(id) ||
				wc.degrees[id] > 1 ||
				(i > 0 && wc.isOutOfBounds(way.Nodes[i-1])) ||
				(i < last && wc.isOutOfBounds(way.Nodes[i+1])) ||
				i == 0 || i == last
			if !keep {
				for _, tag := range keptNodeTags {
					if _, ok := node.Tags[tag]; ok {
						keep = true
						break
					}
				}
			}
			if keep {
				useful[id] = struct{}{}
			}
		}
	}
	return useful, nil
}

func (wc *WayContractor) IsUseful(id string) bool {
	_, ok := wc.useful[id]
	return ok
}

// ContractWay keeps the useful nodes of way. Distances[i] is the length in meters between
// retained node i and i+1, summed over the elided nodes in between.
func (wc *WayContractor) ContractWay(way *datastructure.Way) (*datastructure.Way, error) {
	if len(way.Nodes) == 0 {
		return way.WithNodes(nil), nil
	}
	prev, err := wc.tile.GetWayNode(way.ID, way.Nodes[0])
	if err != nil {
		return nil, err
	}

	nodes := []string{prev.ID}
	distances := make([]float64, 0)
	distanceSince := 0.0
	for _, id := range way.Nodes[1:] {
		curr, err := wc.tile.GetWayNode(way.ID, id)
		if err != nil {
			return nil, err
		}
		distanceSince += geo.CalculateHaversineDistance(prev.Lat, prev.Lon, curr.Lat, curr.Lon) * 1000
		if wc.IsUseful(id) {
			nodes = append(nodes, id)
			distances = append(distances, distanceSince)
			distanceSince = 0
		}
		prev = curr
	}

	contracted := way.WithNodes(nodes)
	contracted.Distances = distances
	return contracted, nil
}

// CreateContractedTile contracts every way of tile and keeps only the useful nodes.
func CreateContractedTile(tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
	wc, err := NewWayContractor(tile)
	if err != nil {
		return nil, err
	}

	derived := datastructure.NewDerivedTile(tile.Coordinate, nil, nil)
	for id, node := range tile.Nodes {
		if wc.IsUseful(id) {
			derived.Nodes[id] = node
		}
	}
	for _, wayID := range tile.SortedWayIDs() {
		contracted, err := wc.ContractWay(tile.Ways[wayID])
		if err != nil {
			return nil, err
		}
		derived.Ways[wayID] = contracted
	}
	return derived, nil
}
