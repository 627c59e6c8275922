package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/bilanci/internal/logging"
	"fjacquet/bilanci/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoAnalyze(_ context.Context, path string) (*models.Analysis, error) {
	return models.NewAnalysis(path, models.FileTypeText), nil
}

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("file-%03d.txt", i)
	}
	return out
}

func TestNewConcurrentProcessor(t *testing.T) {
	processor := NewConcurrentProcessor(0, logging.NewMockLogger())
	assert.NotNil(t, processor.logger)
	assert.Equal(t, runtime.NumCPU(), processor.workerCount)

	assert.Equal(t, 3, NewConcurrentProcessor(3, nil).workerCount)
}

func TestConcurrentProcessor_MaintainsOrder(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		workers int
	}{
		{name: "empty", count: 0, workers: 4},
		{name: "sequential below threshold", count: 3, workers: 4},
		{name: "single worker", count: 20, workers: 1},
		{name: "concurrent", count: 50, workers: 4},
		{name: "more workers than inputs", count: 5, workers: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := NewConcurrentProcessor(tt.workers, logging.NewMockLogger())
			input := paths(tt.count)

			// Later inputs finish first to shake out ordering bugs.
			analyze := func(ctx context.Context, path string) (*models.Analysis, error) {
				var idx int
				_, _ = fmt.Sscanf(path, "file-%03d.txt", &idx)
				time.Sleep(time.Duration(tt.count-idx) * 100 * time.Microsecond)
				return echoAnalyze(ctx, path)
			}

			results := processor.Process(context.Background(), input, analyze)
			require.Len(t, results, tt.count)
			for i, r := range results {
				require.NoError(t, r.Err)
				assert.Equal(t, input[i], r.Path)
				assert.Equal(t, input[i], r.Analysis.SourceFile)
			}
		})
	}
}

func TestConcurrentProcessor_Errors(t *testing.T) {
	processor := NewConcurrentProcessor(4, logging.NewMockLogger())
	failure := errors.New("unsupported")

	analyze := func(ctx context.Context, path string) (*models.Analysis, error) {
		if path == "file-002.txt" || path == "file-007.txt" {
			return nil, failure
		}
		return echoAnalyze(ctx, path)
	}

	results := processor.Process(context.Background(), paths(10), analyze)
	require.Len(t, results, 10)
	for i, r := range results {
		if i == 2 || i == 7 {
			assert.ErrorIs(t, r.Err, failure)
			assert.Nil(t, r.Analysis)
			continue
		}
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.Analysis)
	}
}

func TestConcurrentProcessor_UsesAllWorkers(t *testing.T) {
	processor := NewConcurrentProcessor(4, logging.NewMockLogger())

	var inFlight, peak int32
	analyze := func(ctx context.Context, path string) (*models.Analysis, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return echoAnalyze(ctx, path)
	}

	processor.Process(context.Background(), paths(16), analyze)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestConcurrentProcessor_Cancelled(t *testing.T) {
	processor := NewConcurrentProcessor(2, logging.NewMockLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	analyze := func(ctx context.Context, path string) (*models.Analysis, error) {
		atomic.AddInt32(&calls, 1)
		return echoAnalyze(ctx, path)
	}

	results := processor.Process(ctx, paths(8), analyze)
	require.Len(t, results, 8)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestConcurrentProcessor_LogsSummary(t *testing.T) {
	logger := logging.NewMockLogger()
	NewConcurrentProcessor(2, logger).Process(context.Background(), paths(2), echoAnalyze)
	assert.True(t, logger.HasEntry("INFO", "Batch processing completed"))
}
