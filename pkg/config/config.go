package config

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"lintang/routabletiles/pkg/util"
)

type CacheConfig struct {
	Tiers map[uint32]int `yaml:"tiers" validate:"dive,gt=0"`
	Other int            `yaml:"other" validate:"gte=0"`
}

type FetchConfig struct {
	Source         string `yaml:"source" validate:"omitempty,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
}

type Config struct {
	Area        string            `yaml:"area"`
	Zoom        uint32            `yaml:"zoom" validate:"lte=22"`
	InputDir    string            `yaml:"input_dir" validate:"required"`
	OutputDir   string            `yaml:"output_dir" validate:"required"`
	Store       string            `yaml:"store" validate:"oneof=fs badger pebble"`
	Workers     int               `yaml:"workers" validate:"gte=0"`
	Profiles    map[string]string `yaml:"profiles" validate:"dive,required"`
	Cache       CacheConfig       `yaml:"cache"`
	Fetch       FetchConfig       `yaml:"fetch"`
	MetricsAddr string            `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Debug       bool              `yaml:"debug"`
}

func Default() Config {
	return Config{
		Zoom:      14,
		InputDir:  "tiles",
		OutputDir: "out",
		Store:     "fs",
		Workers:   runtime.NumCPU(),
		Profiles: map[string]string{
			"car":        "profiles/car.json",
			"bicycle":    "profiles/bicycle.json",
			"pedestrian": "profiles/pedestrian.json",
		},
		Cache: CacheConfig{
			Tiers: map[uint32]int{14: 400, 13: 200, 12: 100, 11: 50, 10: 25},
			Other: 20,
		},
		Fetch: FetchConfig{
			Source:         "https://tiles.openplanner.team/planet",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, util.WrapErrorf(err, util.ErrBadParamInput, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, util.WrapErrorf(err, util.ErrBadParamInput, "parse config %s", path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return util.ValidateStruct(c)
}

// ProfilePath returns the profile file registered under name.
func (c Config) ProfilePath(name string) (string, error) {
	path, ok := c.Profiles[name]
	if !ok {
		return "", util.NewErrorf(util.ErrBadParamInput, "unknown profile %q", name)
	}
	return path, nil
}
