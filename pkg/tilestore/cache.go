package tilestore

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"lintang/routabletiles/pkg/datastructure"
)

type TileLoader interface {
	LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error)
}

// DefaultTierCapacity is the number of tiles cached per zoom level. Zooms missing here use DefaultOtherCapacity.
var DefaultTierCapacity = map[uint32]int{
	14: 400,
	13: 200,
	12: 100,
	11: 50,
	10: 25,
}

const DefaultOtherCapacity = 20

// cacheEntry is the outcome of one load.
type cacheEntry struct {
	tile *datastructure.Tile
	err  error
}

type lruTier = lru.Cache[datastructure.TileCoordinate, *cacheEntry]

/*
TileCache is a TileLoader that keeps recently loaded tiles in one LRU tier per zoom level.
Load results, errors included, are cached. Callers asking for a coordinate whose load is in flight
wait for that load, even if its tier has evicted entries meanwhile.
Cached tiles are shared between callers and must not be mutated.
*/
type TileCache struct {
	loader TileLoader
	group  singleflight.Group
	loads  atomic.Int64

	mu            sync.Mutex
	tiers         map[uint32]*lruTier
	tierCapacity  map[uint32]int
	otherCapacity int
}

func NewTileCache(loader TileLoader, tierCapacity map[uint32]int, otherCapacity int) *TileCache {
	if tierCapacity == nil {
		tierCapacity = DefaultTierCapacity
	}
	if otherCapacity <= 0 {
		otherCapacity = DefaultOtherCapacity
	}
	return &TileCache{
		loader:        loader,
		tiers:         make(map[uint32]*lruTier),
		tierCapacity:  tierCapacity,
		otherCapacity: otherCapacity,
	}
}

func (c *TileCache) tier(zoom uint32) *lruTier {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tiers[zoom]
	if ok {
		return t
	}
	capacity, ok := c.tierCapacity[zoom]
	if !ok || capacity <= 0 {
		capacity = c.otherCapacity
	}
	// capacity is positive, the only case lru.New rejects
	t, _ = lru.New[datastructure.TileCoordinate, *cacheEntry](capacity)
	c.tiers[zoom] = t
	return t
}

func (c *TileCache) LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error) {
	tier := c.tier(coord.Zoom)
	if entry, ok := tier.Get(coord); ok {
		return entry.tile, entry.err
	}

	v, _, _ := c.group.Do(coord.String(), func() (interface{}, error) {
		// a flight for coord may have finished between the miss above and this call
		if entry, ok := tier.Peek(coord); ok {
			return entry, nil
		}
		c.loads.Add(1)
		entry := &cacheEntry{}
		entry.tile, entry.err = c.loader.LoadTile(coord)
		tier.Add(coord, entry)
		return entry, nil
	})
	entry := v.(*cacheEntry)
	return entry.tile, entry.err
}

// Loads returns how many times the underlying loader has been called.
func (c *TileCache) Loads() int {
	return int(c.loads.Load())
}

func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tiers {
		n += t.Len()
	}
	return n
}
