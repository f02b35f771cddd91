package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/profile"
)

func (c *cli) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics and way polylines of one input tile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			p, err := a.loadProfile()
			if err != nil {
				return err
			}
			if err := a.openStores(); err != nil {
				return err
			}
			tile, err := a.input.LoadTile(datastructure.NewTileCoordinate(c.opts.tileX, c.opts.tileY, a.cfg.Zoom))
			if err != nil {
				return err
			}
			return describeTile(cmd.OutOrStdout(), tile, p, c.opts.tolerance)
		},
	}

	c.opts.addProfileFlag(cmd)
	cmd.Flags().Uint32Var(&c.opts.tileX, "x", 0, "tile column")
	cmd.Flags().Uint32Var(&c.opts.tileY, "y", 0, "tile row")
	cmd.Flags().Float64Var(&c.opts.tolerance, "tolerance", 1, "polyline simplification tolerance in meters")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func wayLength(geometry []geo.Coordinate) float64 {
	meters := 0.0
	for i := 1; i < len(geometry); i++ {
		meters += geo.CalculateHaversineDistance(geometry[i-1].Lat, geometry[i-1].Lon,
			geometry[i].Lat, geometry[i].Lon) * 1000
	}
	return meters
}

// describeTile writes the tile summary followed by one line per way: id, node count, length and
// the polyline of its geometry simplified to toleranceMeters.
func describeTile(w io.Writer, tile *datastructure.Tile, p *profile.Profile, toleranceMeters float64) error {
	segments, err := profile.WeightedSegments(tile, p)
	if err != nil {
		return err
	}
	boundary := tile.BoundaryNodes(tile.Coordinate.BoundingBox())

	fmt.Fprintf(w, "Tile: %s\n", tile.Coordinate)
	fmt.Fprintf(w, "NodeCount: %s\n", humanize.Comma(int64(len(tile.Nodes))))
	fmt.Fprintf(w, "WayCount: %s\n", humanize.Comma(int64(len(tile.Ways))))
	fmt.Fprintf(w, "BoundaryNodeCount: %s\n", humanize.Comma(int64(len(boundary))))
	fmt.Fprintf(w, "SegmentCount (%s): %s\n", p.Name, humanize.Comma(int64(len(segments))))

	total := 0.0
	for _, id := range tile.SortedWayIDs() {
		way := tile.Ways[id]
		geometry, err := tile.WayGeometry(way)
		if err != nil {
			return err
		}
		length := wayLength(geometry)
		total += length
		simplified := geo.RamerDouglasPeucker(geometry, toleranceMeters)
		fmt.Fprintf(w, "%s\t%d nodes\t%s m\t%s\n", id, len(way.Nodes),
			humanize.FtoaWithDigits(length, 1), datastructure.RenderPath(simplified))
	}
	fmt.Fprintf(w, "TotalLength: %s m\n", humanize.CommafWithDigits(total, 1))
	return nil
}
