package propagation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/qu4rkn3t/NEOGuard/internal/tle"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// sampleJob is a unit of work for the worker pool.
type sampleJob struct {
	record  tle.Record
	minutes int
}

// BatchResult is the output of sampling one record.
type BatchResult struct {
	Record  tle.Record
	Samples []trajectory.Sample
	Err     error
}

// WorkerPool manages a fixed number of goroutines for parallel SGP4
// sampling of many records, used by the batch propagate endpoint.
type WorkerPool struct {
	workers int
	sampler *Sampler
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, sampler *Sampler, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		sampler: sampler,
		logger:  logger,
	}
}

// SampleBatch samples all records over the given horizon using the worker
// pool. Results preserve no particular order; failed records are returned
// with Err set and logged.
func (wp *WorkerPool) SampleBatch(ctx context.Context, records []tle.Record, minutes int) []BatchResult {
	if len(records) == 0 {
		return nil
	}

	jobs := make(chan sampleJob, wp.workers*2)
	results := make(chan BatchResult, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				samples, skipped, err := wp.sampler.Samples(job.record.Line1, job.record.Line2, job.minutes)
				if skipped > 0 {
					wp.logger.Warn("sgp4 skipped samples",
						"norad_id", job.record.NoradID,
						"skipped", skipped,
					)
				}
				select {
				case results <- BatchResult{Record: job.record, Samples: samples, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs in a goroutine.
	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case jobs <- sampleJob{record: rec, minutes: minutes}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results when all workers are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]BatchResult, 0, len(records))
	for res := range results {
		if res.Err != nil {
			wp.logger.Warn("batch propagation failed",
				"norad_id", res.Record.NoradID,
				"error", res.Err,
			)
		}
		out = append(out, res)
	}
	return out
}
