package main

import (
	"os"

	"github.com/spf13/cobra"

	"lintang/routabletiles/pkg/concurrent"
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/osmparser"
	"lintang/routabletiles/pkg/util"
)

func (c *cli) sliceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Cut an OSM PBF extract into source tiles at --zoom",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if c.opts.pbfFile == "" {
				return util.NewErrorf(util.ErrBadParamInput, "--pbf is required")
			}
			f, err := os.Open(c.opts.pbfFile)
			if err != nil {
				return util.WrapErrorf(err, util.ErrBadParamInput, "open %s", c.opts.pbfFile)
			}
			defer f.Close()

			if err := a.openStores(); err != nil {
				return err
			}

			slicer := osmparser.NewTileSlicer(a.cfg.Zoom, a.log)
			if a.cfg.Area != "" {
				ar, err := geo.GetArea(a.cfg.Area)
				if err != nil {
					return util.WrapErrorf(err, util.ErrBadParamInput, "area")
				}
				slicer.WithBoundingBox(ar.Box)
			}
			a.log.Infof("reading openstreetmap file %s", c.opts.pbfFile)
			if err := slicer.Parse(cmd.Context(), f); err != nil {
				return err
			}

			tiles := slicer.Slice()
			byCoord := make(map[datastructure.TileCoordinate]*datastructure.DerivedTile, len(tiles))
			coords := make([]datastructure.TileCoordinate, 0, len(tiles))
			for _, tile := range tiles {
				byCoord[tile.Coordinate] = tile
				coords = append(coords, tile.Coordinate)
			}

			// slices are written into the input store, where the reductions read them
			result := concurrent.Run(a.runner, cmd.Name(), coords, func(coord datastructure.TileCoordinate) error {
				return a.input.WriteTile(byCoord[coord])
			})
			return summarize(result)
		},
	}

	cmd.Flags().StringVar(&c.opts.pbfFile, "pbf", "", "openstreetmap pbf extract")
	return cmd
}
