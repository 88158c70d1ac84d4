// Package batch validates every image in a directory. Images are
// independent, so the runner fans them out to a small worker pool; results
// are keyed by filename and kept sorted, so the report is identical no matter
// which worker finishes first.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carvida/photocheck/internal/utils"
	"github.com/carvida/photocheck/pkg/pipeline"
	"github.com/carvida/photocheck/pkg/types"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Runner validates directories of listing photos through one validation
// path.
type Runner struct {
	validator pipeline.Validator
	workers   int
	logger    *zap.Logger
}

// NewRunner creates a batch runner. workers <= 0 selects the default pool
// size; workers == 1 gives fully sequential processing.
func NewRunner(v pipeline.Validator, workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		validator: v,
		workers:   workers,
		logger:    logger.Named("batch"),
	}
}

// Run validates every image file directly inside dir and returns the report.
// Per-image failures are recorded as Error results and never abort the run.
func (r *Runner) Run(ctx context.Context, dir string) (*types.Report, error) {
	if !utils.DirExists(dir) {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	files, err := utils.ListImageFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	runID := uuid.NewString()
	report := types.NewReport(runID)
	logger := r.logger.With(zap.String("run_id", runID))
	logger.Info("starting batch run", zap.String("dir", dir), zap.Int("images", len(files)), zap.Int("workers", r.workers))

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				result := r.validator.ValidateFile(ctx, filepath.Join(dir, name))

				// The zap core serializes writes, so progress lines from
				// parallel workers never interleave.
				switch result.Result {
				case types.ResultYes:
					logger.Info("validated", zap.String("image", name), zap.String("result", result.Result))
				case types.ResultNo:
					logger.Info("validated", zap.String("image", name), zap.String("result", result.Result),
						zap.Strings("failure_reasons", result.FailureReasons))
				default:
					logger.Warn("validated", zap.String("image", name), zap.String("result", result.Result),
						zap.String("error", result.Error))
				}

				mu.Lock()
				report.Add(name, result)
				mu.Unlock()
			}
		}()
	}

	for _, name := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case jobs <- name:
		}
	}
	if err := ctx.Err(); err != nil {
		close(jobs)
		wg.Wait()
		return report, err
	}
	close(jobs)
	wg.Wait()

	summary := report.Summarize()
	logger.Info("batch run finished",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("errors", summary.Errors),
	)
	return report, nil
}
