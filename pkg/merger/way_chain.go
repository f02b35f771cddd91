package merger

import (
	"sort"

	"lintang/routabletiles/pkg/datastructure"
)

// wayChain collects the fragments of one way spread over several tiles.
type wayChain struct {
	successors     map[string]string
	headCandidates map[string]struct{}
	notHead        map[string]struct{}
}

func newWayChain() *wayChain {
	return &wayChain{
		successors:     make(map[string]string),
		headCandidates: make(map[string]struct{}),
		notHead:        make(map[string]struct{}),
	}
}

func (c *wayChain) addFragment(way *datastructure.Way) {
	for _, seg := range way.Segments() {
		c.successors[seg.From] = seg.To
		c.headCandidates[seg.From] = struct{}{}
		c.notHead[seg.To] = struct{}{}
	}
}

// heads returns, sorted, the head candidates that never follow another node.
func (c *wayChain) heads() []string {
	heads := make([]string, 0)
	for id := range c.headCandidates {
		if _, ok := c.notHead[id]; !ok {
			heads = append(heads, id)
		}
	}
	sort.Strings(heads)
	return heads
}

// consistent reports whether the fragments form at most one open chain.
// More than one head means a connecting fragment is still missing.
func (c *wayChain) consistent() bool {
	return len(c.heads()) <= 1
}

// nodes returns every node the chain knows about, sorted.
func (c *wayChain) nodes() []string {
	all := make(map[string]struct{}, len(c.headCandidates)+len(c.notHead))
	for id := range c.headCandidates {
		all[id] = struct{}{}
	}
	for id := range c.notHead {
		all[id] = struct{}{}
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nodeIDs walks the chain from its head, consuming successor entries as it goes.
// Closed chains start from their smallest node. Only one chain is followed when several heads remain.
func (c *wayChain) nodeIDs() []string {
	var current string
	if heads := c.heads(); len(heads) > 0 {
		current = heads[0]
	} else {
		if len(c.headCandidates) == 0 {
			return nil
		}
		candidates := make([]string, 0, len(c.headCandidates))
		for id := range c.headCandidates {
			candidates = append(candidates, id)
		}
		sort.Strings(candidates)
		current = candidates[0]
	}

	result := []string{current}
	for {
		next, ok := c.successors[current]
		if !ok {
			break
		}
		delete(c.successors, current)
		result = append(result, next)
		current = next
	}
	return result
}
