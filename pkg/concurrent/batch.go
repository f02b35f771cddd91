package concurrent

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/destel/rill"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"
)

// Failure is a job that returned an error.
type Failure struct {
	Job string
	Err error
}

type BatchResult struct {
	Processed int
	Failures  []Failure
	Elapsed   time.Duration
}

func (r BatchResult) Failed() int {
	return len(r.Failures)
}

// BatchRunner runs independent jobs on a bounded worker pool. A failed job never stops the batch.
type BatchRunner struct {
	workers      int
	log          *zap.SugaredLogger
	metrics      *Metrics
	showProgress bool
}

func NewBatchRunner(workers int, log *zap.SugaredLogger, metrics *Metrics, showProgress bool) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{
		workers:      workers,
		log:          log,
		metrics:      metrics,
		showProgress: showProgress,
	}
}

// Run applies fn to every item. Failures are returned sorted by job name.
func Run[T interface {
	JobI
	fmt.Stringer
}](b *BatchRunner, task string, items []T, fn JobFunc[T]) BatchResult {
	start := time.Now()
	jobs := NewJobs(items)

	var bar *pb.ProgressBar
	if b.showProgress {
		bar = pb.New(len(jobs)).SetWidth(79)
		bar.Output = os.Stderr
		bar.Prefix(task + " ")
		bar.Start()
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)
	_ = rill.ForEach(rill.FromSlice(jobs, nil), b.workers, func(job Job[T]) error {
		jobStart := time.Now()
		err := fn(job.JobItem)
		b.metrics.observe(task, time.Since(jobStart).Seconds(), err)

		mu.Lock()
		if err != nil {
			result.Failures = append(result.Failures, Failure{Job: job.JobItem.String(), Err: err})
			b.log.Errorf("%s %s: %v", task, job.JobItem, err)
		} else {
			result.Processed++
			b.log.Debugf("%s %s done in %s", task, job.JobItem, time.Since(jobStart))
		}
		mu.Unlock()

		if bar != nil {
			bar.Increment()
		}
		return nil
	})

	if bar != nil {
		bar.Finish()
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Job < result.Failures[j].Job
	})
	result.Elapsed = time.Since(start)

	b.log.Infof("%s: processed %s tiles in %s", task, humanize.Comma(int64(result.Processed)), result.Elapsed.Round(time.Millisecond))
	if result.Failed() > 0 {
		b.log.Errorf("Failed to process %s tiles", humanize.Comma(int64(result.Failed())))
	}
	return result
}
