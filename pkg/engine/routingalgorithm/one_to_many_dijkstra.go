package routingalgorithm

import (
	"math"

	"lintang/routabletiles/pkg/datastructure"
)

const (
	Unreached = math.MaxInt64
)

type RouteAlgorithm struct {
	g Graph
}

func NewRouteAlgorithm(g Graph) *RouteAlgorithm {
	return &RouteAlgorithm{g: g}
}

// ShortestPathTree is the result of a one-to-many search. Prev defaults to Source for every label,
// Dist holds Unreached for labels the search never reached.
type ShortestPathTree struct {
	Source int32
	Prev   []int32
	Dist   []int64
}

func (t ShortestPathTree) Reached(label int32) bool {
	return t.Dist[label] != Unreached
}

// PathTo walks the predecessor chain from target back to the source. The result runs target first,
// source last, and is nil when target was not reached.
func (t ShortestPathTree) PathTo(target int32) []int32 {
	if !t.Reached(target) {
		return nil
	}
	path := []int32{target}
	for curr := target; curr != t.Source; {
		curr = t.Prev[curr]
		path = append(path, curr)
	}
	return path
}

// ShortestPathOneToMany runs Dijkstra from source until every target is settled or the frontier is
// empty. Unknown source ids give ok=false, unknown target ids are ignored.
func (rt *RouteAlgorithm) ShortestPathOneToMany(source string, targets []string) (ShortestPathTree, bool) {
	from, ok := rt.g.GetLabel(source)
	if !ok {
		return ShortestPathTree{}, false
	}

	targetLabels := make([]int32, 0, len(targets))
	for _, target := range targets {
		if label, ok := rt.g.GetLabel(target); ok {
			targetLabels = append(targetLabels, label)
		}
	}
	return rt.ShortestPathOneToManyLabels(from, targetLabels), true
}

/*
ShortestPathOneToManyLabels: dijkstra dengan lazy deletion. node yang sudah punya dist lebih kecil
tidak di decrease-key, tapi di insert ulang ke pq. entry lama (rank > dist) di skip waktu di pop.
search berhenti ketika semua target sudah settled.
*/
func (rt *RouteAlgorithm) ShortestPathOneToManyLabels(from int32, targets []int32) ShortestPathTree {
	n := rt.g.GetNodesLen()
	prev := make([]int32, n)
	dist := make([]int64, n)
	for i := int32(0); i < n; i++ {
		prev[i] = from
		dist[i] = Unreached
	}

	remaining := make(map[int32]struct{}, len(targets))
	for _, target := range targets {
		remaining[target] = struct{}{}
	}

	dist[from] = 0
	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.NewPriorityQueueNode(0, from))

	for pq.Size() > 0 && len(remaining) > 0 {
		node, _ := pq.ExtractMin()
		if node.Rank > dist[node.Item] {
			// stale entry
			continue
		}

		delete(remaining, node.Item)
		if len(remaining) == 0 {
			break
		}

		for _, edge := range rt.g.GetOutEdges(node.Item) {
			newCost := node.Rank + edge.Cost
			if newCost < dist[edge.ToLabel] {
				dist[edge.ToLabel] = newCost
				prev[edge.ToLabel] = node.Item
				pq.Insert(datastructure.NewPriorityQueueNode(newCost, edge.ToLabel))
			}
		}
	}

	return ShortestPathTree{
		Source: from,
		Prev:   prev,
		Dist:   dist,
	}
}
