package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/tilestore"
	"lintang/routabletiles/pkg/util"
)

const DefaultTimeout = 30 * time.Second

// Fetcher downloads tiles from a routable tiles server into a store.
type Fetcher struct {
	client *http.Client
	source string
	store  tilestore.TileStore
	log    *zap.SugaredLogger
}

func NewFetcher(source string, store tilestore.TileStore, client *http.Client, log *zap.SugaredLogger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{
		client: client,
		source: strings.TrimRight(source, "/"),
		store:  store,
		log:    log,
	}
}

func (f *Fetcher) tileURL(coord datastructure.TileCoordinate) string {
	return fmt.Sprintf("%s/%d/%d/%d", f.source, coord.Zoom, coord.X, coord.Y)
}

// FetchTile stores the tile at coord. It returns false when the store already had it.
func (f *Fetcher) FetchTile(ctx context.Context, coord datastructure.TileCoordinate) (bool, error) {
	ok, err := f.store.HasTile(coord)
	if err != nil {
		return false, err
	}
	if ok {
		f.log.Debugf("tile %s already present", coord)
		return false, nil
	}

	data, err := f.download(ctx, coord)
	if err != nil {
		return false, err
	}
	tile, err := tilestore.DecodeTile(coord, data)
	if err != nil {
		return false, err
	}
	if err := f.store.WriteTile(datastructure.NewDerivedTile(coord, tile.Nodes, tile.Ways)); err != nil {
		return false, err
	}
	f.log.Debugf("fetched tile %s: %d nodes, %d ways", coord, len(tile.Nodes), len(tile.Ways))
	return true, nil
}

func (f *Fetcher) download(ctx context.Context, coord datastructure.TileCoordinate) ([]byte, error) {
	url := f.tileURL(coord)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "build request %s", url)
	}
	req.Header.Set("Accept", "application/ld+json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "GET %s", url)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, util.NewErrorf(util.ErrNotFound, "GET %s: %s", url, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, util.NewErrorf(util.ErrInternalServerError, "GET %s: %s", url, resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "GET %s: bad gzip stream", url)
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "GET %s: read body", url)
	}
	return data, nil
}
