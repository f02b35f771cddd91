package reducer

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/profile"
)

// CreateBinaryTile flattens tile into dense labels and directed weighted edges for p.
// Labels follow the sorted node ids, so Locations[label] describes that label.
func CreateBinaryTile(tile *datastructure.Tile, p *profile.Profile) (*datastructure.WeightedTile, error) {
	weighted := datastructure.NewWeightedTile()

	for _, id := range tile.SortedNodeIDs() {
		node := tile.Nodes[id]
		weighted.Labels[id] = uint32(len(weighted.Locations))
		weighted.Locations = append(weighted.Locations, datastructure.Location{
			ID:  id,
			Lat: node.Lat,
			Lon: node.Lon,
		})
	}

	segments, err := profile.WeightedSegments(tile, p)
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		weighted.Edges = append(weighted.Edges, datastructure.WeightedTileEdge{
			From:   weighted.Labels[seg.From],
			To:     weighted.Labels[seg.To],
			Weight: uint64(seg.Cost),
		})
	}
	return weighted, nil
}
