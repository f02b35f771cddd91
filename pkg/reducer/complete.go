package reducer

import (
	"fmt"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/engine/routingalgorithm"
	"lintang/routabletiles/pkg/profile"
)

const completeWayPrefix = "http://hdelva.be/cway/"

// CreateCompleteTile replaces the tile with its boundary nodes and one two-node way per reachable
// ordered boundary pair. The way's single distance is the shortest-path cost in milliseconds.
func CreateCompleteTile(tile *datastructure.Tile, p *profile.Profile) (*datastructure.DerivedTile, error) {
	segments, err := profile.WeightedSegments(tile, p)
	if err != nil {
		return nil, err
	}
	graph := datastructure.NewWeightedGraph(segments)
	rt := routingalgorithm.NewRouteAlgorithm(graph)

	coord := tile.Coordinate
	boundary := tile.BoundaryNodes(coord.BoundingBox())
	derived := datastructure.NewDerivedTile(coord, nil, nil)
	for _, id := range boundary {
		derived.Nodes[id] = tile.Nodes[id]
	}

	for _, from := range boundary {
		others := make([]string, 0, len(boundary)-1)
		for _, id := range boundary {
			if id != from {
				others = append(others, id)
			}
		}

		tree, ok := rt.ShortestPathOneToMany(from, others)
		if !ok {
			continue
		}
		for _, to := range others {
			label, ok := graph.GetLabel(to)
			if !ok || !tree.Reached(label) {
				continue
			}
			wayID := fmt.Sprintf("%s%d_%d_%d_%d", completeWayPrefix, coord.Zoom, coord.X, coord.Y, len(derived.Ways))
			way := datastructure.NewWay(wayID, []string{from, to}, nil, nil)
			way.Distances = []float64{float64(tree.Dist[label])}
			derived.Ways[wayID] = way
		}
	}
	return derived, nil
}
