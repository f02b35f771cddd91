package datastructure

import (
	"lintang/routabletiles/pkg/geo"

	"github.com/twpayne/go-polyline"
)

// WayGeometry returns the coordinates of the way nodes in order.
func (t *Tile) WayGeometry(way *Way) ([]geo.Coordinate, error) {
	coords := make([]geo.Coordinate, 0, len(way.Nodes))
	for _, id := range way.Nodes {
		node, err := t.GetWayNode(way.ID, id)
		if err != nil {
			return nil, err
		}
		coords = append(coords, geo.NewCoordinate(node.Lat, node.Lon))
	}
	return coords, nil
}

// RenderPath encodes coords as a Google encoded polyline.
func RenderPath(path []geo.Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
