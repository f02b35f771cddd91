package profile

import (
	"lintang/routabletiles/pkg/datastructure"
)

// WeightedSegments derives the directed weighted segments of every accessible way in tile.
// Segments touching an obstacle are dropped. A way referencing a node the tile lacks fails
// the whole tile with a corrupted tile error.
func WeightedSegments(tile *datastructure.Tile, p *Profile) ([]datastructure.WeightedSegment, error) {
	segments := make([]datastructure.WeightedSegment, 0)
	for _, wayID := range tile.SortedWayIDs() {
		way := tile.Ways[wayID]
		if !p.HasAccess(way) {
			continue
		}
		oneway, reversed := p.OnewayDirection(way)

		for _, seg := range way.Segments() {
			from, err := tile.GetWayNode(way.ID, seg.From)
			if err != nil {
				return nil, err
			}
			to, err := tile.GetWayNode(way.ID, seg.To)
			if err != nil {
				return nil, err
			}

			if p.IsObstacle(from) || p.IsObstacle(to) {
				continue
			}

			if !oneway || !reversed {
				segments = append(segments, datastructure.NewWeightedSegment(from.ID, to.ID, p.GetCost(from, to, way)))
			}
			if !oneway || reversed {
				segments = append(segments, datastructure.NewWeightedSegment(to.ID, from.ID, p.GetCost(to, from, way)))
			}
		}
	}
	return segments, nil
}
