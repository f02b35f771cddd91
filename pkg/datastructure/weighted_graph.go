package datastructure

import (
	"lintang/routabletiles/pkg/util"
)

type WeightedEdge struct {
	ToLabel int32
	Cost    int64
}

// WeightedGraph is a directed graph over dense node labels. Labels are local to one graph instance.
type WeightedGraph struct {
	labels  *util.IDMap
	adjList [][]WeightedEdge
}

func NewWeightedGraph(segments []WeightedSegment) *WeightedGraph {
	g := &WeightedGraph{
		labels:  util.NewIdMap(),
		adjList: make([][]WeightedEdge, 0),
	}
	g.AddSegments(segments)
	return g
}

// AddSegments adds one edge per segment, labelling from before to on first sighting.
func (g *WeightedGraph) AddSegments(segments []WeightedSegment) {
	for _, seg := range segments {
		from := g.label(seg.From)
		to := g.label(seg.To)
		g.adjList[from] = append(g.adjList[from], WeightedEdge{ToLabel: to, Cost: seg.Cost})
	}
}

func (g *WeightedGraph) label(id string) int32 {
	label := g.labels.GetID(id)
	if int(label) == len(g.adjList) {
		g.adjList = append(g.adjList, nil)
	}
	return label
}

func (g *WeightedGraph) GetLabel(id string) (int32, bool) {
	return g.labels.Lookup(id)
}

func (g *WeightedGraph) GetID(label int32) string {
	return g.labels.GetStr(label)
}

func (g *WeightedGraph) GetOutEdges(label int32) []WeightedEdge {
	return g.adjList[label]
}

func (g *WeightedGraph) GetNodesLen() int32 {
	return int32(len(g.adjList))
}
