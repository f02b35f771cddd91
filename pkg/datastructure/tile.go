package datastructure

import (
	"fmt"
	"sort"

	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/util"
)

// Node is a tagged point. Tags holds the recognized osm:* tags, UndefinedTags the rest verbatim.
type Node struct {
	ID            string
	Lat           float64
	Lon           float64
	Tags          map[string]string
	UndefinedTags []string
}

func NewNode(id string, lat, lon float64, tags map[string]string, undefinedTags []string) *Node {
	if tags == nil {
		tags = make(map[string]string)
	}
	return &Node{
		ID:            id,
		Lat:           lat,
		Lon:           lon,
		Tags:          tags,
		UndefinedTags: undefinedTags,
	}
}

func (n *Node) GetTags() map[string]string {
	return n.Tags
}

// Way is an ordered node chain. Distances is nil unless the way has been contracted.
type Way struct {
	ID            string
	Nodes         []string
	Distances     []float64
	MaxSpeed      float64 // 0 when the way carries no osm:maxspeed
	Tags          map[string]string
	UndefinedTags []string
}

func NewWay(id string, nodes []string, tags map[string]string, undefinedTags []string) *Way {
	if tags == nil {
		tags = make(map[string]string)
	}
	return &Way{
		ID:            id,
		Nodes:         nodes,
		Tags:          tags,
		UndefinedTags: undefinedTags,
	}
}

func (w *Way) GetTags() map[string]string {
	return w.Tags
}

func (w *Way) HasMaxSpeed() bool {
	return w.MaxSpeed > 0
}

// Segments returns the consecutive node pairs of the way in node order.
func (w *Way) Segments() []Segment {
	if len(w.Nodes) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(w.Nodes)-1)
	for i := 1; i < len(w.Nodes); i++ {
		segments = append(segments, NewSegment(w.Nodes[i-1], w.Nodes[i]))
	}
	return segments
}

// WithNodes copies the way metadata onto a new node chain. Distances are dropped.
func (w *Way) WithNodes(nodes []string) *Way {
	return &Way{
		ID:            w.ID,
		Nodes:         nodes,
		MaxSpeed:      w.MaxSpeed,
		Tags:          w.Tags,
		UndefinedTags: w.UndefinedTags,
	}
}

// Reversed returns the way with its node order flipped.
func (w *Way) Reversed() *Way {
	rev := w.WithNodes(util.ReverseG(w.Nodes))
	if w.Distances != nil {
		rev.Distances = util.ReverseG(w.Distances)
	}
	return rev
}

type Segment struct {
	From string
	To   string
}

func NewSegment(from, to string) Segment {
	return Segment{From: from, To: to}
}

func (s Segment) Reverse() Segment {
	return Segment{From: s.To, To: s.From}
}

// WeightedSegment is a directed segment with a positive cost in milliseconds.
type WeightedSegment struct {
	Segment
	Cost int64
}

func NewWeightedSegment(from, to string, cost int64) WeightedSegment {
	return WeightedSegment{Segment: NewSegment(from, to), Cost: cost}
}

// TileCoordinate addresses a slippy map tile.
type TileCoordinate struct {
	X    uint32
	Y    uint32
	Zoom uint32
}

func NewTileCoordinate(x, y, zoom uint32) TileCoordinate {
	return TileCoordinate{X: x, Y: y, Zoom: zoom}
}

func (c TileCoordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.X, c.Y)
}

// Children returns the four tiles at zoom+1 covering c.
func (c TileCoordinate) Children() []TileCoordinate {
	z := c.Zoom + 1
	return []TileCoordinate{
		NewTileCoordinate(2*c.X, 2*c.Y, z),
		NewTileCoordinate(2*c.X+1, 2*c.Y, z),
		NewTileCoordinate(2*c.X, 2*c.Y+1, z),
		NewTileCoordinate(2*c.X+1, 2*c.Y+1, z),
	}
}

// Ancestor returns the tile at zoom containing c. zoom must not exceed c.Zoom.
func (c TileCoordinate) Ancestor(zoom uint32) TileCoordinate {
	shift := c.Zoom - zoom
	return NewTileCoordinate(c.X>>shift, c.Y>>shift, zoom)
}

func (c TileCoordinate) BoundingBox() geo.BoundingBox {
	return geo.TileBoundingBox(c.X, c.Y, c.Zoom)
}

// Tile owns the nodes and ways of one tile coordinate.
type Tile struct {
	Coordinate TileCoordinate
	Nodes      map[string]*Node
	Ways       map[string]*Way
}

func NewTile(coord TileCoordinate, nodes map[string]*Node, ways map[string]*Way) *Tile {
	if nodes == nil {
		nodes = make(map[string]*Node)
	}
	if ways == nil {
		ways = make(map[string]*Way)
	}
	return &Tile{
		Coordinate: coord,
		Nodes:      nodes,
		Ways:       ways,
	}
}

// GetWayNode returns the node nodeID of way wayID, or a corrupted tile error when the tile lacks it.
func (t *Tile) GetWayNode(wayID, nodeID string) (*Node, error) {
	node, ok := t.Nodes[nodeID]
	if !ok {
		return nil, util.NewErrorf(util.ErrCorruptedTile, "corrupted tile %s: way %s references missing node %s",
			t.Coordinate, wayID, nodeID)
	}
	return node, nil
}

func (t *Tile) SortedWayIDs() []string {
	return sortedKeys(t.Ways)
}

func (t *Tile) SortedNodeIDs() []string {
	return sortedKeys(t.Nodes)
}

// BoundaryNodes returns, sorted, the ids of tile nodes lying outside bb.
func (t *Tile) BoundaryNodes(bb geo.BoundingBox) []string {
	boundary := make([]string, 0)
	for id, node := range t.Nodes {
		if !bb.Contains(node.Lat, node.Lon) {
			boundary = append(boundary, id)
		}
	}
	sort.Strings(boundary)
	return boundary
}

// DerivedTile is the output of a reduction, merge or contraction step.
type DerivedTile struct {
	Coordinate TileCoordinate
	Nodes      map[string]*Node
	Ways       map[string]*Way
}

func NewDerivedTile(coord TileCoordinate, nodes map[string]*Node, ways map[string]*Way) *DerivedTile {
	if nodes == nil {
		nodes = make(map[string]*Node)
	}
	if ways == nil {
		ways = make(map[string]*Way)
	}
	return &DerivedTile{
		Coordinate: coord,
		Nodes:      nodes,
		Ways:       ways,
	}
}

// AsTile views the derived tile as an input tile, for chaining reductions.
func (d *DerivedTile) AsTile() *Tile {
	return NewTile(d.Coordinate, d.Nodes, d.Ways)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
