package concurrent

import "lintang/routabletiles/pkg/datastructure"

type JobI interface {
	datastructure.TileCoordinate | MergeJobItem
}

// MergeJobItem stitches Sources into Target.
type MergeJobItem struct {
	Target  datastructure.TileCoordinate
	Sources []datastructure.TileCoordinate
}

func NewMergeJobItem(target datastructure.TileCoordinate) MergeJobItem {
	return MergeJobItem{
		Target:  target,
		Sources: target.Children(),
	}
}

func (j MergeJobItem) String() string {
	return j.Target.String()
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI] func(job T) error

func NewJobs[T JobI](items []T) []Job[T] {
	jobs := make([]Job[T], 0, len(items))
	for i, item := range items {
		jobs = append(jobs, Job[T]{ID: i, JobItem: item})
	}
	return jobs
}
