package tilestore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/kelindar/binary"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"
)

const (
	CompressionRaw  = "raw"
	CompressionZstd = "zstd"
	CompressionLz4  = "lz4"
	CompressionXz   = "xz"
)

func Compressions() []string {
	return []string{CompressionRaw, CompressionZstd, CompressionLz4, CompressionXz}
}

type nopCloserWriter struct {
	io.Writer
}

func (w nopCloserWriter) Close() error {
	return nil
}

func newPacker(compression string, out io.Writer) (io.WriteCloser, error) {
	switch compression {
	case CompressionRaw, "":
		return nopCloserWriter{out}, nil
	case CompressionZstd:
		w, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return w, nil
	case CompressionLz4:
		return lz4.NewWriter(out), nil
	case CompressionXz:
		w, err := xz.NewWriter(out)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz encoder: %w", err)
		}
		return w, nil
	default:
		return nil, util.NewErrorf(util.ErrBadParamInput, "unknown compression %q", compression)
	}
}

func newUnpacker(compression string, in io.Reader) (io.Reader, func(), error) {
	noop := func() {}
	switch compression {
	case CompressionRaw, "":
		return in, noop, nil
	case CompressionZstd:
		d, err := zstd.NewReader(in)
		if err != nil {
			return nil, noop, err
		}
		return d, d.Close, nil
	case CompressionLz4:
		return lz4.NewReader(in), noop, nil
	case CompressionXz:
		r, err := xz.NewReader(in)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil
	default:
		return nil, noop, util.NewErrorf(util.ErrBadParamInput, "unknown compression %q", compression)
	}
}

// PackWeightedTile encodes tile with kelindar/binary and compresses it.
func PackWeightedTile(tile *datastructure.WeightedTile, compression string) ([]byte, error) {
	encoded, err := binary.Marshal(tile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "encode weighted tile")
	}

	var buf bytes.Buffer
	packer, err := newPacker(compression, &buf)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(packer, bytes.NewReader(encoded)); err != nil {
		packer.Close()
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "compress weighted tile")
	}
	if err := packer.Close(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "compress weighted tile")
	}
	return buf.Bytes(), nil
}

func UnpackWeightedTile(data []byte, compression string) (*datastructure.WeightedTile, error) {
	r, done, err := newUnpacker(compression, bytes.NewReader(data))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "decompress weighted tile")
	}
	defer done()

	encoded, err := io.ReadAll(r)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "decompress weighted tile")
	}
	var tile datastructure.WeightedTile
	if err := binary.Unmarshal(encoded, &tile); err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "decode weighted tile")
	}
	return &tile, nil
}

// WriteBinaryTile writes tile to <root>/<z>/<x>/<y>.bin.
func WriteBinaryTile(root string, coord datastructure.TileCoordinate, tile *datastructure.WeightedTile, compression string) error {
	data, err := PackWeightedTile(tile, compression)
	if err != nil {
		return err
	}
	return writeFile(TilePath(root, coord, ".bin"), data)
}

func ReadBinaryTile(root string, coord datastructure.TileCoordinate, compression string) (*datastructure.WeightedTile, error) {
	data, err := os.ReadFile(TilePath(root, coord, ".bin"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(coord, err)
	}
	if err != nil {
		return nil, loadFailed(coord, err)
	}
	return UnpackWeightedTile(data, compression)
}
