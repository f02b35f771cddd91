package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"go.uber.org/zap"
)

// https://go.dev/blog/pprof
// ./bin/preprocessing reduce_transit --area belgium -cpuprofile=cpu.prof -memprofile=mem.mprof
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func recordMemProfile(memprofile, name string, log *zap.SugaredLogger) {
	if memprofile == "" {
		return
	}
	path := strings.Replace(memprofile, ".mprof", fmt.Sprintf("_%s.mprof", name), -1)
	f, err := os.Create(path)
	if err != nil {
		log.Errorf("create memory profile: %v", err)
		return
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Errorf("write memory profile: %v", err)
	}
}
