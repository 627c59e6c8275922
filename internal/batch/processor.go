// Package batch analyzes many documents with a bounded worker pool.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"
)

// sequentialThreshold is the input size below which workers are not started.
const sequentialThreshold = 4

// AnalyzeFunc analyzes one input path.
type AnalyzeFunc func(ctx context.Context, path string) (*models.Analysis, error)

// Result is the outcome for one input. Exactly one of Analysis or Err is set.
type Result struct {
	Path     string
	Analysis *models.Analysis
	Err      error
}

// ConcurrentProcessor runs AnalyzeFunc over a list of paths.
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
}

// NewConcurrentProcessor creates a processor with one worker per CPU when
// workers <= 0.
func NewConcurrentProcessor(workers int, logger logging.Logger) *ConcurrentProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ConcurrentProcessor{
		logger:      logging.OrDefault(logger),
		workerCount: workers,
	}
}

// Process analyzes every path and returns the results in input order.
// Paths not started before ctx is cancelled report ctx.Err().
func (cp *ConcurrentProcessor) Process(ctx context.Context, paths []string, analyze AnalyzeFunc) []Result {
	start := time.Now()

	var results []Result
	if len(paths) < sequentialThreshold || cp.workerCount == 1 {
		results = cp.processSequential(ctx, paths, analyze)
	} else {
		results = cp.processConcurrent(ctx, paths, analyze)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	cp.logger.Info("Batch processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(paths)},
		logging.Field{Key: "failed", Value: failed},
		logging.Field{Key: "workers", Value: cp.workerCount},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return results
}

func (cp *ConcurrentProcessor) processSequential(ctx context.Context, paths []string, analyze AnalyzeFunc) []Result {
	results := make([]Result, len(paths))
	for i, path := range paths {
		results[i] = run(ctx, path, analyze)
	}
	return results
}

// indexedPath carries the position of a path so results land in order.
type indexedPath struct {
	index int
	path  string
}

func (cp *ConcurrentProcessor) processConcurrent(ctx context.Context, paths []string, analyze AnalyzeFunc) []Result {
	results := make([]Result, len(paths))
	work := make(chan indexedPath, cp.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				// Each worker owns distinct indexes, so no lock is needed.
				results[item.index] = run(ctx, item.path, analyze)
			}
		}()
	}

	for i, path := range paths {
		work <- indexedPath{index: i, path: path}
	}
	close(work)
	wg.Wait()

	cp.logger.Debug("Concurrent processing completed",
		logging.Field{Key: "entries", Value: len(paths)},
		logging.Field{Key: "workers", Value: cp.workerCount})
	return results
}

func run(ctx context.Context, path string, analyze AnalyzeFunc) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: path, Err: err}
	}
	a, err := analyze(ctx, path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Analysis: a}
}
