package main

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"lintang/routabletiles/pkg/concurrent"
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/fetcher"
)

func (c *cli) loadTilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load_tiles",
		Short: "Download the area's tiles at --zoom into --input_dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if cmd.Flags().Changed("source") {
				a.cfg.Fetch.Source = c.opts.source
			}
			if err := a.openStores(); err != nil {
				return err
			}
			coords, err := a.targets(a.cfg.Zoom)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: time.Duration(a.cfg.Fetch.TimeoutSeconds) * time.Second}
			f := fetcher.NewFetcher(a.cfg.Fetch.Source, a.input, client, a.log)
			ctx := cmd.Context()

			var fetched atomic.Int64
			result := concurrent.Run(a.runner, cmd.Name(), coords, func(coord datastructure.TileCoordinate) error {
				ok, err := f.FetchTile(ctx, coord)
				if ok {
					fetched.Add(1)
				}
				return err
			})
			a.log.Infof("downloaded %d new tiles from %s", fetched.Load(), a.cfg.Fetch.Source)
			return summarize(result)
		},
	}

	cmd.Flags().StringVar(&c.opts.source, "source", "", "tile server, tiles are fetched from <source>/<z>/<x>/<y>")
	return cmd
}
