package tilestore

import (
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"
)

const (
	StoreFile   = "fs"
	StoreBadger = "badger"
	StorePebble = "pebble"
)

// TileStore persists tile documents. LoadTile returns an ErrNotFound error when the tile is absent.
type TileStore interface {
	LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error)
	WriteTile(tile *datastructure.DerivedTile) error
	HasTile(coord datastructure.TileCoordinate) (bool, error)
	Close() error
}

// Open returns the store of the given kind rooted at dir.
func Open(kind, dir string) (TileStore, error) {
	switch kind {
	case StoreFile, "":
		return NewFileStore(dir), nil
	case StoreBadger:
		return OpenBadgerStore(dir)
	case StorePebble:
		return OpenPebbleStore(dir)
	default:
		return nil, util.NewErrorf(util.ErrBadParamInput, "unknown tile store %q", kind)
	}
}

func tileKey(coord datastructure.TileCoordinate) []byte {
	return []byte(coord.String())
}

func notFound(coord datastructure.TileCoordinate, err error) error {
	return util.WrapErrorf(err, util.ErrNotFound, "tile %s not found", coord)
}

func loadFailed(coord datastructure.TileCoordinate, err error) error {
	return util.WrapErrorf(err, util.ErrInternalServerError, "load tile %s", coord)
}
