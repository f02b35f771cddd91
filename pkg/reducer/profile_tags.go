package reducer

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/profile"
)

const nameTag = "osm:name"

// CreateProfileTile keeps the ways p grants access to, stripped of every tag p never looks at.
// Names survive so the output stays readable.
func CreateProfileTile(tile *datastructure.Tile, p *profile.Profile) (*datastructure.DerivedTile, error) {
	concepts := p.GetUsedConcepts()
	derived := datastructure.NewDerivedTile(tile.Coordinate, nil, nil)

	for _, wayID := range tile.SortedWayIDs() {
		way := tile.Ways[wayID]
		if !p.HasAccess(way) {
			continue
		}

		tags := make(map[string]string)
		for k, v := range way.Tags {
			_, keyUsed := concepts[k]
			_, valueUsed := concepts[v]
			if keyUsed && valueUsed {
				tags[k] = v
			}
		}
		if name, ok := way.Tags[nameTag]; ok {
			tags[nameTag] = name
		}

		reduced := datastructure.NewWay(way.ID, way.Nodes, tags, nil)
		reduced.MaxSpeed = way.MaxSpeed
		derived.Ways[wayID] = reduced

		for _, id := range way.Nodes {
			node, err := tile.GetWayNode(way.ID, id)
			if err != nil {
				return nil, err
			}
			derived.Nodes[id] = node
		}
	}
	return derived, nil
}
