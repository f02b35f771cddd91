package tilestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"
)

// FileStore keeps one JSON-LD document per tile at <root>/<z>/<x>/<y>.json.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func TilePath(root string, coord datastructure.TileCoordinate, ext string) string {
	return filepath.Join(root, strconv.FormatUint(uint64(coord.Zoom), 10),
		strconv.FormatUint(uint64(coord.X), 10), strconv.FormatUint(uint64(coord.Y), 10)+ext)
}

func (s *FileStore) path(coord datastructure.TileCoordinate) string {
	return TilePath(s.root, coord, ".json")
}

func (s *FileStore) LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error) {
	data, err := os.ReadFile(s.path(coord))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(coord, err)
	}
	if err != nil {
		return nil, loadFailed(coord, err)
	}
	return DecodeTile(coord, data)
}

func (s *FileStore) WriteTile(tile *datastructure.DerivedTile) error {
	data, err := EncodeTile(tile)
	if err != nil {
		return err
	}
	return writeFile(s.path(tile.Coordinate), data)
}

func (s *FileStore) HasTile(coord datastructure.TileCoordinate) (bool, error) {
	_, err := os.Stat(s.path(coord))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "stat tile %s", coord)
	}
	return true, nil
}

func (s *FileStore) Close() error {
	return nil
}

// writeFile creates the parent directories of path and writes data through a temporary file.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "create directory for %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write %s", path)
	}
	return nil
}
