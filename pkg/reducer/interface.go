package reducer

import "lintang/routabletiles/pkg/datastructure"

type TileLoader interface {
	LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error)
}
