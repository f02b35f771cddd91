package main

import (
	"github.com/spf13/cobra"

	"lintang/routabletiles/pkg/concurrent"
	"lintang/routabletiles/pkg/contractor"
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/profile"
	"lintang/routabletiles/pkg/reducer"
	"lintang/routabletiles/pkg/tilestore"
	"lintang/routabletiles/pkg/util"
)

type reduceFunc func(a *app, p *profile.Profile, coord datastructure.TileCoordinate, tile *datastructure.Tile) (*datastructure.DerivedTile, error)

// runReduction loads every area tile at the target zoom, reduces it and writes the result.
// Tiles missing from the input are skipped.
func (c *cli) runReduction(task string, needsProfile bool, reduce reduceFunc) error {
	a := c.app
	var (
		p   *profile.Profile
		err error
	)
	if needsProfile {
		if p, err = a.loadProfile(); err != nil {
			return err
		}
	}
	if err := a.openStores(); err != nil {
		return err
	}
	coords, err := a.targets(a.cfg.Zoom)
	if err != nil {
		return err
	}

	result := concurrent.Run(a.runner, task, coords, func(coord datastructure.TileCoordinate) error {
		tile, err := a.cache.LoadTile(coord)
		if util.IsCode(err, util.ErrNotFound) {
			a.log.Debugf("%s: no input tile %s", task, coord)
			return nil
		}
		if err != nil {
			return err
		}
		derived, err := reduce(a, p, coord, tile)
		if err != nil || derived == nil {
			return err
		}
		return a.output.WriteTile(derived)
	})
	return summarize(result)
}

func (c *cli) reduceCommands() []*cobra.Command {
	reduceProfileCmd := &cobra.Command{
		Use:   "reduce_profile",
		Short: "Drop the ways and tags a profile does not use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), true, func(_ *app, p *profile.Profile, _ datastructure.TileCoordinate,
				tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
				return reducer.CreateProfileTile(tile, p)
			})
		},
	}

	reduceTransitCmd := &cobra.Command{
		Use:   "reduce_transit",
		Short: "Keep only the nodes on shortest paths between boundary nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), true, func(_ *app, p *profile.Profile, _ datastructure.TileCoordinate,
				tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
				return reducer.CreateTransitTile(tile, p)
			})
		},
	}

	reduceIndirectTransitCmd := &cobra.Command{
		Use:   "reduce_indirect_transit",
		Short: "Transit reduction over a padded neighbourhood of each tile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), true, func(a *app, p *profile.Profile, coord datastructure.TileCoordinate,
				_ *datastructure.Tile) (*datastructure.DerivedTile, error) {
				return reducer.CreatePaddedTransitTile(a.cache, coord, c.opts.paddingLevel, p, a.log)
			})
		},
	}

	reduceCompleteCmd := &cobra.Command{
		Use:   "reduce_complete",
		Short: "Replace each tile by weighted shortcuts between its boundary nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), true, func(_ *app, p *profile.Profile, _ datastructure.TileCoordinate,
				tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
				return reducer.CreateCompleteTile(tile, p)
			})
		},
	}

	reduceContractCmd := &cobra.Command{
		Use:   "reduce_contract",
		Short: "Contract ways down to their decision nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), false, func(_ *app, _ *profile.Profile, _ datastructure.TileCoordinate,
				tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
				return contractor.CreateContractedTile(tile)
			})
		},
	}

	reduceBinaryCmd := &cobra.Command{
		Use:   "reduce_binary",
		Short: "Export weighted tiles in a compact binary format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReduction(cmd.Name(), true, func(a *app, p *profile.Profile, coord datastructure.TileCoordinate,
				tile *datastructure.Tile) (*datastructure.DerivedTile, error) {
				weighted, err := reducer.CreateBinaryTile(tile, p)
				if err != nil {
					return nil, err
				}
				return nil, tilestore.WriteBinaryTile(a.cfg.OutputDir, coord, weighted, c.opts.compression)
			})
		},
	}

	for _, cmd := range []*cobra.Command{
		reduceProfileCmd, reduceTransitCmd, reduceIndirectTransitCmd, reduceCompleteCmd, reduceBinaryCmd,
	} {
		c.opts.addProfileFlag(cmd)
	}
	reduceIndirectTransitCmd.Flags().Uint32VarP(&c.opts.paddingLevel, "padding_level", "l", 12,
		"zoom level of the padding region around each tile")
	reduceBinaryCmd.Flags().StringVar(&c.opts.compression, "compression", tilestore.CompressionZstd,
		"binary tile compression: raw, zstd, lz4 or xz")

	return []*cobra.Command{reduceProfileCmd, reduceTransitCmd, reduceIndirectTransitCmd, reduceCompleteCmd,
		reduceContractCmd, reduceBinaryCmd}
}
