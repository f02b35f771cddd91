package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/tilestore"
	"lintang/routabletiles/pkg/util"
)

const tileDocument = `{"@graph": [
	{"@id": "n1", "@type": "osm:Node", "geo:lat": 51.2194, "geo:long": 4.4025},
	{"@id": "n2", "@type": "osm:Node", "geo:lat": 51.2195, "geo:long": 4.4030},
	{"@id": "w1", "@type": "osm:Way", "osm:hasNodes": ["n1", "n2"], "osm:highway": "osm:Residential"}
]}`

func newServer(hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/14/8392/5469":
			if r.Header.Get("Accept-Encoding") != "gzip" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(tileDocument))
			_ = gz.Close()
		case "/14/8392/5470":
			_, _ = w.Write([]byte(tileDocument))
		case "/14/8392/5471":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchTile(t *testing.T) {
	var hits atomic.Int32
	server := newServer(&hits)
	defer server.Close()

	store := tilestore.NewFileStore(t.TempDir())
	f := NewFetcher(server.URL+"/", store, server.Client(), zap.NewNop().Sugar())
	ctx := context.Background()

	for _, y := range []uint32{5469, 5470} {
		coord := datastructure.NewTileCoordinate(8392, y, 14)
		fetched, err := f.FetchTile(ctx, coord)
		require.NoError(t, err)
		assert.True(t, fetched)

		tile, err := store.LoadTile(coord)
		require.NoError(t, err)
		assert.Len(t, tile.Nodes, 2)
		assert.Equal(t, []string{"n1", "n2"}, tile.Ways["w1"].Nodes)
	}
	assert.Equal(t, int32(2), hits.Load())

	t.Run("present tiles are skipped", func(t *testing.T) {
		fetched, err := f.FetchTile(ctx, datastructure.NewTileCoordinate(8392, 5469, 14))
		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("missing tile", func(t *testing.T) {
		_, err := f.FetchTile(ctx, datastructure.NewTileCoordinate(1, 1, 14))
		assert.True(t, util.IsCode(err, util.ErrNotFound))
	})

	t.Run("server error", func(t *testing.T) {
		_, err := f.FetchTile(ctx, datastructure.NewTileCoordinate(8392, 5471, 14))
		assert.True(t, util.IsCode(err, util.ErrInternalServerError))
		ok, err := store.HasTile(datastructure.NewTileCoordinate(8392, 5471, 14))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
