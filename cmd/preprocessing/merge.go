package main

import (
	"github.com/spf13/cobra"

	"lintang/routabletiles/pkg/concurrent"
	"lintang/routabletiles/pkg/merger"
	"lintang/routabletiles/pkg/util"
)

func (c *cli) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Stitch the four children of every area tile at --zoom into one tile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if err := a.openStores(); err != nil {
				return err
			}
			coords, err := a.targets(a.cfg.Zoom)
			if err != nil {
				return err
			}
			jobs := make([]concurrent.MergeJobItem, 0, len(coords))
			for _, coord := range coords {
				jobs = append(jobs, concurrent.NewMergeJobItem(coord))
			}

			m := merger.NewMerger(a.cache, a.log)
			result := concurrent.Run(a.runner, cmd.Name(), jobs, func(job concurrent.MergeJobItem) error {
				merged, err := m.CreateMergedTile(job.Sources, job.Target)
				if util.IsCode(err, util.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				if len(merged.Ways) == 0 {
					a.log.Debugf("merge: no ways for %s", job.Target)
					return nil
				}
				return a.output.WriteTile(merged)
			})
			return summarize(result)
		},
	}
}
