package tilestore

import (
	"testing"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightedFixture() *datastructure.WeightedTile {
	tile := datastructure.NewWeightedTile()
	for i, id := range []string{"a", "b", "c"} {
		tile.Labels[id] = uint32(i)
		tile.Locations = append(tile.Locations, datastructure.Location{ID: id, Lat: 51 + float64(i)/100, Lon: 4.4})
	}
	tile.Edges = append(tile.Edges,
		datastructure.WeightedTileEdge{From: 0, To: 1, Weight: 1200},
		datastructure.WeightedTileEdge{From: 1, To: 0, Weight: 1200},
		datastructure.WeightedTileEdge{From: 1, To: 2, Weight: 800},
	)
	return tile
}

func TestPackWeightedTile(t *testing.T) {
	for _, compression := range Compressions() {
		t.Run(compression, func(t *testing.T) {
			want := weightedFixture()
			data, err := PackWeightedTile(want, compression)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			got, err := UnpackWeightedTile(data, compression)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestWriteBinaryTile(t *testing.T) {
	root := t.TempDir()
	want := weightedFixture()
	require.NoError(t, WriteBinaryTile(root, testCoord, want, CompressionZstd))

	got, err := ReadBinaryTile(root, testCoord, CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ReadBinaryTile(root, datastructure.NewTileCoordinate(0, 0, 14), CompressionZstd)
	assert.True(t, util.IsCode(err, util.ErrNotFound))
}

func TestUnknownCompression(t *testing.T) {
	_, err := PackWeightedTile(weightedFixture(), "brotli")
	assert.True(t, util.IsCode(err, util.ErrBadParamInput))
}
