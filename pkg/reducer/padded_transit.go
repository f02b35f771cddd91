package reducer

import (
	"sort"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/profile"
	"lintang/routabletiles/pkg/util"

	"go.uber.org/zap"
)

// PaddingRegion returns the tiles at coord's zoom inside the 3x3 block of paddingZoom tiles centered
// on coord's ancestor, together with the block's bounding box. coord itself comes first.
func PaddingRegion(coord datastructure.TileCoordinate, paddingZoom uint32) ([]datastructure.TileCoordinate, geo.BoundingBox, error) {
	if paddingZoom > coord.Zoom {
		return nil, geo.BoundingBox{}, util.NewErrorf(util.ErrBadParamInput,
			"padding zoom %d is deeper than tile zoom %d", paddingZoom, coord.Zoom)
	}

	ancestor := coord.Ancestor(paddingZoom)
	maxIndex := uint32(1)<<paddingZoom - 1
	minX, maxX := clampedNeighbors(ancestor.X, maxIndex)
	minY, maxY := clampedNeighbors(ancestor.Y, maxIndex)

	bbox := geo.TileBoundingBox(minX, minY, paddingZoom).Union(geo.TileBoundingBox(maxX, maxY, paddingZoom))

	shift := coord.Zoom - paddingZoom
	region := []datastructure.TileCoordinate{coord}
	for x := minX << shift; x < (maxX+1)<<shift; x++ {
		for y := minY << shift; y < (maxY+1)<<shift; y++ {
			if x == coord.X && y == coord.Y {
				continue
			}
			region = append(region, datastructure.NewTileCoordinate(x, y, coord.Zoom))
		}
	}
	return region, bbox, nil
}

func clampedNeighbors(v, maxIndex uint32) (uint32, uint32) {
	lo, hi := v, v
	if lo > 0 {
		lo--
	}
	if hi < maxIndex {
		hi++
	}
	return lo, hi
}

// CreatePaddedTransitTile is CreateTransitTile over a padded neighborhood, so detours that leave and
// re-enter the tile are kept. Neighbors that fail to load are skipped.
func CreatePaddedTransitTile(loader TileLoader, coord datastructure.TileCoordinate, paddingZoom uint32,
	p *profile.Profile, log *zap.SugaredLogger) (*datastructure.DerivedTile, error) {
	region, bbox, err := PaddingRegion(coord, paddingZoom)
	if err != nil {
		return nil, err
	}

	tile, err := loader.LoadTile(coord)
	if err != nil {
		return nil, err
	}
	segments, err := profile.WeightedSegments(tile, p)
	if err != nil {
		return nil, err
	}

	boundarySet := make(map[string]struct{})
	for _, id := range tile.BoundaryNodes(bbox) {
		boundarySet[id] = struct{}{}
	}

	for _, neighborCoord := range region[1:] {
		neighbor, err := loader.LoadTile(neighborCoord)
		if err != nil {
			if !util.IsCode(err, util.ErrNotFound) {
				log.Warnf("skipping neighbor %s of %s: %v", neighborCoord, coord, err)
			}
			continue
		}
		neighborSegments, err := profile.WeightedSegments(neighbor, p)
		if err != nil {
			log.Warnf("skipping neighbor %s of %s: %v", neighborCoord, coord, err)
			continue
		}
		segments = append(segments, neighborSegments...)
		for _, id := range neighbor.BoundaryNodes(bbox) {
			boundarySet[id] = struct{}{}
		}
	}

	boundary := make([]string, 0, len(boundarySet))
	for id := range boundarySet {
		boundary = append(boundary, id)
	}
	sort.Strings(boundary)

	graph := datastructure.NewWeightedGraph(segments)
	log.Debugf("padded graph for %s: %d tiles, %d nodes, %d boundary nodes",
		coord, len(region), graph.GetNodesLen(), len(boundary))

	necessary := NecessaryNodes(graph, boundary)
	return SliceWays(tile, coord, necessary)
}
