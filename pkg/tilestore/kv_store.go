package tilestore

import (
	"errors"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v4"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"
)

// tile documents are stored zstd compressed under the key z/x/y

func compressDocument(doc []byte) ([]byte, error) {
	var compressed []byte
	compressed, err := zstd.Compress(compressed, doc)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "compress tile document")
	}
	return compressed, nil
}

func decompressDocument(coord datastructure.TileCoordinate, compressed []byte) ([]byte, error) {
	var doc []byte
	doc, err := zstd.Decompress(doc, compressed)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "decompress tile %s", coord)
	}
	return doc, nil
}

func encodeValue(tile *datastructure.DerivedTile) ([]byte, error) {
	doc, err := EncodeTile(tile)
	if err != nil {
		return nil, err
	}
	return compressDocument(doc)
}

func decodeValue(coord datastructure.TileCoordinate, val []byte) (*datastructure.Tile, error) {
	doc, err := decompressDocument(coord, val)
	if err != nil {
		return nil, err
	}
	return DecodeTile(coord, doc)
}

type BadgerStore struct {
	db *badger.DB
}

func OpenBadgerStore(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "open badger store %s", dir)
	}
	return &BadgerStore{db: db}, nil
}

func (k *BadgerStore) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *BadgerStore) LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error) {
	val, err := k.get(tileKey(coord))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(coord, err)
	}
	if err != nil {
		return nil, loadFailed(coord, err)
	}
	return decodeValue(coord, val)
}

func (k *BadgerStore) WriteTile(tile *datastructure.DerivedTile) error {
	val, err := encodeValue(tile)
	if err != nil {
		return err
	}
	err = k.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tileKey(tile.Coordinate), val)
	})
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write tile %s", tile.Coordinate)
	}
	return nil
}

func (k *BadgerStore) HasTile(coord datastructure.TileCoordinate) (bool, error) {
	err := k.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(tileKey(coord))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, loadFailed(coord, err)
	}
	return true, nil
}

func (k *BadgerStore) Close() error {
	return k.db.Close()
}

type PebbleStore struct {
	db *pebble.DB
}

func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "open pebble store %s", dir)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) LoadTile(coord datastructure.TileCoordinate) (*datastructure.Tile, error) {
	val, closer, err := p.db.Get(tileKey(coord))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, notFound(coord, err)
	}
	if err != nil {
		return nil, loadFailed(coord, err)
	}
	defer closer.Close()
	return decodeValue(coord, val)
}

func (p *PebbleStore) WriteTile(tile *datastructure.DerivedTile) error {
	val, err := encodeValue(tile)
	if err != nil {
		return err
	}
	if err := p.db.Set(tileKey(tile.Coordinate), val, pebble.Sync); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write tile %s", tile.Coordinate)
	}
	return nil
}

func (p *PebbleStore) HasTile(coord datastructure.TileCoordinate) (bool, error) {
	_, closer, err := p.db.Get(tileKey(coord))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, loadFailed(coord, err)
	}
	closer.Close()
	return true, nil
}

func (p *PebbleStore) Close() error {
	return p.db.Close()
}
