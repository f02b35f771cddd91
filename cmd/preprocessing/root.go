package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"lintang/routabletiles/pkg/concurrent"
	"lintang/routabletiles/pkg/config"
	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/geo"
	"lintang/routabletiles/pkg/logger"
	"lintang/routabletiles/pkg/profile"
	"lintang/routabletiles/pkg/tilestore"
	"lintang/routabletiles/pkg/util"
)

// options holds the flag values of one command tree.
type options struct {
	configFile   string
	area         string
	zoom         uint32
	inputDir     string
	outputDir    string
	storeKind    string
	workers      int
	cpuprofile   string
	memprofile   string
	metricsAddr  string
	debug        bool
	profileName  string
	paddingLevel uint32
	compression  string
	source       string
	pbfFile      string
	tileX        uint32
	tileY        uint32
	tolerance    float64
}

// app is the state shared by every command of one run.
type app struct {
	cfg      config.Config
	opts     *options
	log      *zap.SugaredLogger
	zl       *zap.Logger
	input    tilestore.TileStore
	output   tilestore.TileStore
	cache    *tilestore.TileCache
	registry *prometheus.Registry
	runner   *concurrent.BatchRunner
	metrics  *http.Server
	stopCPU  func()
}

// cli ties a command tree to its flag values and to the app built by setup.
type cli struct {
	opts options
	app  *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "preprocessing",
		Short: "Reduce, merge and contract routable tiles",
		Long: "preprocessing turns routable tiles (JSON-LD road network tiles) into smaller derived tiles: " +
			"transit reductions, merged coarser tiles, contracted tiles and binary weighted tiles.",
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	o := &c.opts
	flags := root.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&o.area, "area", "", fmt.Sprintf("area to process, one of %v", geo.AreaNames()))
	flags.Uint32Var(&o.zoom, "zoom", 14, "zoom level of the target tiles")
	flags.StringVar(&o.inputDir, "input_dir", "tiles", "directory of the input tiles")
	flags.StringVar(&o.outputDir, "output_dir", "out", "directory of the output tiles")
	flags.StringVar(&o.storeKind, "store", "fs", "tile store: fs, badger or pebble")
	flags.IntVar(&o.workers, "workers", 0, "number of tiles processed in parallel, 0 uses every cpu")
	flags.StringVar(&o.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	flags.StringVar(&o.memprofile, "memprofile", "", "write memory profile to this file")
	flags.StringVar(&o.metricsAddr, "metrics_addr", "", "serve prometheus metrics on this address")
	flags.BoolVar(&o.debug, "debug", false, "log every processed tile")

	root.AddCommand(c.reduceCommands()...)
	root.AddCommand(c.mergeCmd(), c.loadTilesCmd(), c.sliceCmd(), c.inspectCmd())
	return root
}

// applyFlags copies the flags set on the command line over the configuration file values.
func (o *options) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "area":
			cfg.Area = o.area
		case "zoom":
			cfg.Zoom = o.zoom
		case "input_dir":
			cfg.InputDir = o.inputDir
		case "output_dir":
			cfg.OutputDir = o.outputDir
		case "store":
			cfg.Store = o.storeKind
		case "workers":
			cfg.Workers = o.workers
		case "metrics_addr":
			cfg.MetricsAddr = o.metricsAddr
		case "debug":
			cfg.Debug = o.debug
		}
	})
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.opts.configFile)
	if err != nil {
		return err
	}
	c.opts.applyFlags(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a := &app{
		cfg:      cfg,
		opts:     &c.opts,
		zl:       zl,
		log:      zl.Sugar(),
		registry: prometheus.NewRegistry(),
		stopCPU:  func() {},
	}
	c.app = a

	if c.opts.cpuprofile != "" {
		stop, err := startCPUProfile(c.opts.cpuprofile)
		if err != nil {
			return err
		}
		a.stopCPU = stop
	}

	a.runner = concurrent.NewBatchRunner(cfg.Workers, a.log, concurrent.NewMetrics(a.registry), !cfg.Debug)
	if cfg.MetricsAddr != "" {
		a.metrics = serveMetrics(cfg.MetricsAddr, a.registry, a.log)
	}
	return nil
}

func (c *cli) teardown(cmd *cobra.Command, args []string) error {
	a := c.app
	if a == nil {
		return nil
	}
	c.app = nil
	a.stopCPU()
	recordMemProfile(c.opts.memprofile, cmd.Name(), a.log)

	var errs []error
	if a.output != nil && a.output != a.input {
		errs = append(errs, a.output.Close())
	}
	if a.input != nil {
		errs = append(errs, a.input.Close())
	}
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, a.metrics.Shutdown(ctx))
	}
	_ = a.zl.Sync()
	return errors.Join(errs...)
}

// openStores opens the input and output stores. A single store is shared when both point at the same directory.
func (a *app) openStores() error {
	var err error
	a.input, err = tilestore.Open(a.cfg.Store, a.cfg.InputDir)
	if err != nil {
		return err
	}
	if filepath.Clean(a.cfg.InputDir) == filepath.Clean(a.cfg.OutputDir) {
		a.output = a.input
	} else if a.output, err = tilestore.Open(a.cfg.Store, a.cfg.OutputDir); err != nil {
		return err
	}
	a.cache = tilestore.NewTileCache(a.input, a.cfg.Cache.Tiers, a.cfg.Cache.Other)
	return nil
}

func (a *app) loadProfile() (*profile.Profile, error) {
	path, err := a.cfg.ProfilePath(a.opts.profileName)
	if err != nil {
		return nil, err
	}
	p, err := profile.LoadProfile(path)
	if err != nil {
		return nil, err
	}
	a.log.Infof("using profile %s from %s", p.Name, path)
	return p, nil
}

// targets lists the tile coordinates of the configured area at zoom.
func (a *app) targets(zoom uint32) ([]datastructure.TileCoordinate, error) {
	if a.cfg.Area == "" {
		return nil, util.NewErrorf(util.ErrBadParamInput, "--area is required, one of %v", geo.AreaNames())
	}
	ar, err := geo.GetArea(a.cfg.Area)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "area")
	}
	tiles := ar.Tiles(zoom)
	coords := make([]datastructure.TileCoordinate, 0, len(tiles))
	for _, t := range tiles {
		coords = append(coords, datastructure.NewTileCoordinate(t.X, t.Y, zoom))
	}
	return coords, nil
}

// summarize turns a batch result into the command error.
func summarize(result concurrent.BatchResult) error {
	if result.Failed() == 0 {
		return nil
	}
	return fmt.Errorf("failed to process %d tiles", result.Failed())
}

func (o *options) addProfileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.profileName, "profile", "car", "routing profile: car, bicycle or pedestrian")
}
