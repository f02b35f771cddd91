package merger

import (
	"sort"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"

	"go.uber.org/zap"
)

type TileLoader interface {
	LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error)
}

type Merger struct {
	loader TileLoader
	log    *zap.SugaredLogger
}

func NewMerger(loader TileLoader, log *zap.SugaredLogger) *Merger {
	return &Merger{loader: loader, log: log}
}

/*
CreateMergedTile stitches the ways of sourceCoords (usually the 4 children of target) into one tile.
Ways whose fragments do not form a single chain are repaired by loading the source-zoom tiles
holding their loose ends. The repair is best effort: once no unvisited tile can be derived from the
known nodes the partial chain is kept.
*/
func (m *Merger) CreateMergedTile(sourceCoords []datastructure.TileCoordinate,
	target datastructure.TileCoordinate) (*datastructure.DerivedTile, error) {
	chains := make(map[string]*wayChain)
	examples := make(map[string]*datastructure.Way)
	allNodes := make(map[string]*datastructure.Node)

	for _, coord := range sourceCoords {
		tile, err := m.loader.LoadTile(coord)
		if err != nil {
			if util.IsCode(err, util.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for id, node := range tile.Nodes {
			allNodes[id] = node
		}
		for _, wayID := range tile.SortedWayIDs() {
			way := tile.Ways[wayID]
			examples[wayID] = way
			chain, ok := chains[wayID]
			if !ok {
				chain = newWayChain()
				chains[wayID] = chain
			}
			chain.addFragment(way)
		}
	}

	wayIDs := make([]string, 0, len(chains))
	for id := range chains {
		wayIDs = append(wayIDs, id)
	}
	sort.Strings(wayIDs)

	derived := datastructure.NewDerivedTile(target, nil, nil)
	for _, wayID := range wayIDs {
		chain := chains[wayID]
		if len(sourceCoords) > 0 && !chain.consistent() {
			m.repair(wayID, chain, sourceCoords, allNodes)
		}

		nodes := chain.nodeIDs()
		if len(nodes) == 0 {
			continue
		}
		for _, id := range nodes {
			node, ok := allNodes[id]
			if !ok {
				return nil, util.NewErrorf(util.ErrCorruptedTile, "corrupted tile %s: way %s references missing node %s",
					target, wayID, id)
			}
			derived.Nodes[id] = node
		}
		derived.Ways[wayID] = examples[wayID].WithNodes(nodes)
	}
	return derived, nil
}

func (m *Merger) repair(wayID string, chain *wayChain, sourceCoords []datastructure.TileCoordinate,
	allNodes map[string]*datastructure.Node) {
	zoom := sourceCoords[0].Zoom
	processed := make(map[datastructure.TileCoordinate]struct{}, len(sourceCoords))
	for _, coord := range sourceCoords {
		processed[coord] = struct{}{}
	}

	for !chain.consistent() {
		candidates := make([]datastructure.TileCoordinate, 0)
		for _, id := range chain.nodes() {
			node, ok := allNodes[id]
			if !ok {
				continue
			}
			x, y := geo.Deg2Num(node.Lat, node.Lon, zoom)
			coord := datastructure.NewTileCoordinate(x, y, zoom)
			if _, seen := processed[coord]; seen {
				continue
			}
			processed[coord] = struct{}{}
			candidates = append(candidates, coord)
		}
		if len(candidates) == 0 {
			m.log.Debugf("way %s still has %d loose ends after repair", wayID, len(chain.heads()))
			return
		}

		for _, coord := range candidates {
			tile, err := m.loader.LoadTile(coord)
			if err != nil {
				continue
			}
			fragment, ok := tile.Ways[wayID]
			if !ok {
				continue
			}
			chain.addFragment(fragment)
			for _, id := range fragment.Nodes {
				if node, ok := tile.Nodes[id]; ok {
					allNodes[id] = node
				}
			}
		}
	}
}
