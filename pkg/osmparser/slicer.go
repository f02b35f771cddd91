package osmparser

import (
	"context"
	"io"
	"runtime"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"
)

const (
	nodeIRI = "http://www.openstreetmap.org/node/"
	wayIRI  = "http://www.openstreetmap.org/way/"
)

var skipHighway = map[string]struct{}{
	"construction": {},
	"proposed":     {},
	"abandoned":    {},
	"platform":     {},
	"raceway":      {},
	"bus_stop":     {},
	"elevator":     {},
	"street_lamp":  {},
	"milestone":    {},
	"speed_camera": {},
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}

type nodeCoord struct {
	lat float64
	lon float64
}

/*
TileSlicer cuts the highway network of an OSM extract into source tiles at one zoom level.
A way contributes one fragment to every tile holding one of its nodes. The fragment runs from the
first to the last node inside the tile, extended by one node on either side, so neighbouring tiles
share the nodes where the way crosses their border.
*/
type TileSlicer struct {
	zoom     uint32
	log      *zap.SugaredLogger
	ways     []*osm.Way
	wayNodes map[osm.NodeID]struct{}
	nodes    map[osm.NodeID]nodeCoord
	nodeTags map[osm.NodeID]osm.Tags
	bbox     *geo.BoundingBox
}

func NewTileSlicer(zoom uint32, log *zap.SugaredLogger) *TileSlicer {
	return &TileSlicer{
		zoom:     zoom,
		log:      log,
		ways:     make([]*osm.Way, 0),
		wayNodes: make(map[osm.NodeID]struct{}),
		nodes:    make(map[osm.NodeID]nodeCoord),
		nodeTags: make(map[osm.NodeID]osm.Tags),
	}
}

// WithBoundingBox limits Slice to the tiles intersecting bb.
func (s *TileSlicer) WithBoundingBox(bb geo.BoundingBox) *TileSlicer {
	s.bbox = &bb
	return s
}

// AddWay registers a way when it is part of the road network.
func (s *TileSlicer) AddWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return false
	}
	s.ways = append(s.ways, way)
	for _, node := range way.Nodes {
		s.wayNodes[node.ID] = struct{}{}
	}
	return true
}

// AddNode keeps a node referenced by a registered way.
func (s *TileSlicer) AddNode(node *osm.Node) bool {
	if _, ok := s.wayNodes[node.ID]; !ok {
		return false
	}
	s.nodes[node.ID] = nodeCoord{lat: node.Lat, lon: node.Lon}
	if len(node.Tags) > 0 {
		s.nodeTags[node.ID] = node.Tags
	}
	return true
}

// Parse reads the extract twice: ways first, then the nodes those ways reference.
func (s *TileSlicer) Parse(ctx context.Context, r io.ReadSeeker) error {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if s.AddWay(way) {
			countWays++
			if countWays%50000 == 0 {
				s.log.Infof("reading openstreetmap ways: %s...", humanize.Comma(int64(countWays)))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return util.WrapErrorf(err, util.ErrBadParamInput, "scan ways")
	}
	scanner.Close()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "rewind extract")
	}

	scanner = osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok {
			s.AddNode(node)
		}
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "scan nodes")
	}

	s.log.Infof("read %s ways and %s nodes", humanize.Comma(int64(len(s.ways))), humanize.Comma(int64(len(s.nodes))))
	return nil
}

func (s *TileSlicer) tileOf(c nodeCoord) datastructure.TileCoordinate {
	x, y := geo.Deg2Num(c.lat, c.lon, s.zoom)
	return datastructure.NewTileCoordinate(x, y, s.zoom)
}

func (s *TileSlicer) inRange(coord datastructure.TileCoordinate) bool {
	if s.bbox == nil {
		return true
	}
	minX, minY, maxX, maxY := geo.TileRange(*s.bbox, s.zoom)
	return coord.X >= minX && coord.X <= maxX && coord.Y >= minY && coord.Y <= maxY
}

// Slice builds the source tiles, sorted by coordinate. Ways referencing nodes missing from the extract are skipped.
func (s *TileSlicer) Slice() []*datastructure.DerivedTile {
	tiles := make(map[datastructure.TileCoordinate]*datastructure.DerivedTile)
	skipped := 0

	for _, way := range s.ways {
		coords := make([]nodeCoord, len(way.Nodes))
		complete := true
		for i, wn := range way.Nodes {
			c, ok := s.nodes[wn.ID]
			if !ok {
				complete = false
				break
			}
			coords[i] = c
		}
		if !complete {
			skipped++
			continue
		}

		// first and last index of the way's nodes per tile
		spans := make(map[datastructure.TileCoordinate][2]int)
		for i, c := range coords {
			coord := s.tileOf(c)
			span, ok := spans[coord]
			if !ok {
				span = [2]int{i, i}
			}
			span[1] = i
			spans[coord] = span
		}

		tags, undefined := ConvertTags(way.Tags)
		maxSpeed := 0.0
		if raw, ok := tags["osm:maxspeed"]; ok {
			if speed, ok := ParseMaxSpeed(raw); ok {
				maxSpeed = speed
				delete(tags, "osm:maxspeed")
			}
		}

		for coord, span := range spans {
			if !s.inRange(coord) {
				continue
			}
			from := util.MaxG(span[0]-1, 0)
			to := util.MinG(span[1]+1, len(way.Nodes)-1)

			tile, ok := tiles[coord]
			if !ok {
				tile = datastructure.NewDerivedTile(coord, nil, nil)
				tiles[coord] = tile
			}

			ids := make([]string, 0, to-from+1)
			for i := from; i <= to; i++ {
				id := way.Nodes[i].ID
				iri := nodeIRI + strconv.FormatInt(int64(id), 10)
				ids = append(ids, iri)
				if _, ok := tile.Nodes[iri]; !ok {
					nodeTags, nodeUndefined := ConvertTags(s.nodeTags[id])
					tile.Nodes[iri] = datastructure.NewNode(iri, coords[i].lat, coords[i].lon, nodeTags, nodeUndefined)
				}
			}

			wayID := wayIRI + strconv.FormatInt(int64(way.ID), 10)
			fragment := datastructure.NewWay(wayID, ids, maps.Clone(tags), undefined)
			fragment.MaxSpeed = maxSpeed
			tile.Ways[wayID] = fragment
		}
	}

	if skipped > 0 {
		s.log.Warnf("skipped %s ways with nodes missing from the extract", humanize.Comma(int64(skipped)))
	}

	out := make([]*datastructure.DerivedTile, 0, len(tiles))
	for _, tile := range tiles {
		out = append(out, tile)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coordinate, out[j].Coordinate
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}
