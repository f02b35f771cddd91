package routingalgorithm

import "lintang/routabletiles/pkg/datastructure"

type Graph interface {
	GetOutEdges(label int32) []datastructure.WeightedEdge
	GetNodesLen() int32
	GetLabel(id string) (int32, bool)
	GetID(label int32) string
}
