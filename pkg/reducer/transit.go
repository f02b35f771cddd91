package reducer

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/engine/routingalgorithm"
	"lintang/routabletiles/pkg/profile"
)

// NecessaryNodes returns every node lying on a shortest path between two boundary nodes of graph.
// Boundary nodes known to the graph are always included; unreachable pairs add nothing.
func NecessaryNodes(graph *datastructure.WeightedGraph, boundary []string) map[string]struct{} {
	labels := make([]int32, 0, len(boundary))
	for _, id := range boundary {
		if label, ok := graph.GetLabel(id); ok {
			labels = append(labels, label)
		}
	}

	rt := routingalgorithm.NewRouteAlgorithm(graph)
	necessary := make(map[string]struct{})
	targets := make([]int32, 0, len(labels))
	for _, source := range labels {
		targets = targets[:0]
		for _, other := range labels {
			if other != source {
				targets = append(targets, other)
			}
		}

		tree := rt.ShortestPathOneToManyLabels(source, targets)
		necessary[graph.GetID(source)] = struct{}{}
		for _, target := range targets {
			for _, label := range tree.PathTo(target) {
				necessary[graph.GetID(label)] = struct{}{}
			}
		}
	}
	return necessary
}

// SliceWays cuts every way of tile down to the stretch between its first and last necessary node.
// Ways with fewer than two necessary nodes are dropped.
func SliceWays(tile *datastructure.Tile, coord datastructure.TileCoordinate,
	necessary map[string]struct{}) (*datastructure.DerivedTile, error) {
	derived := datastructure.NewDerivedTile(coord, nil, nil)

	for _, wayID := range tile.SortedWayIDs() {
		way := tile.Ways[wayID]
		first, last := -1, -1
		for i, id := range way.Nodes {
			if _, ok := necessary[id]; ok {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 || last <= first {
			continue
		}

		nodes := make([]string, last-first+1)
		copy(nodes, way.Nodes[first:last+1])
		for _, id := range nodes {
			node, err := tile.GetWayNode(way.ID, id)
			if err != nil {
				return nil, err
			}
			derived.Nodes[id] = node
		}
		derived.Ways[wayID] = way.WithNodes(nodes)
	}
	return derived, nil
}

// CreateTransitTile reduces tile to the nodes and ways needed to route across it with p.
func CreateTransitTile(tile *datastructure.Tile, p *profile.Profile) (*datastructure.DerivedTile, error) {
	segments, err := profile.WeightedSegments(tile, p)
	if err != nil {
		return nil, err
	}
	graph := datastructure.NewWeightedGraph(segments)

	boundary := tile.BoundaryNodes(tile.Coordinate.BoundingBox())
	necessary := NecessaryNodes(graph, boundary)
	return SliceWays(tile, tile.Coordinate, necessary)
}
