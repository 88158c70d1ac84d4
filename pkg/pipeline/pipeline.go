// Package pipeline assembles the validation flows. Each pipeline takes one
// image through quality gating, detection, criterion evaluation, and verdict
// aggregation, and converts any failure inside that flow into a per-image
// Error result instead of propagating it, so one bad image never aborts a
// batch.
package pipeline

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/carvida/photocheck/internal/utils"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/types"
)

// Validator is the common shape of every validation path: the two heuristic
// pipelines and the vision-model checker all satisfy it.
type Validator interface {
	ValidateFile(ctx context.Context, path string) types.ValidationResult
	ValidateImage(ctx context.Context, img image.Image, path string) types.ValidationResult
}

// validateFile implements the shared file boundary: missing and undecodable
// files become Error results before the pipeline-specific work starts.
func validateFile(ctx context.Context, proc *processing.Processor, v Validator, path string) types.ValidationResult {
	if !utils.FileExists(path) {
		return types.NewErrorResult(path, "File not found")
	}

	img, err := proc.LoadImage(path)
	if err != nil {
		return types.NewErrorResult(path, "Invalid image format")
	}

	return v.ValidateImage(ctx, img, path)
}

// recoverResult converts a panic during evaluation into an Error result at
// the per-image boundary.
func recoverResult(path string, result *types.ValidationResult, logger *zap.Logger) {
	if r := recover(); r != nil {
		logger.Error("validation panicked", zap.String("image", path), zap.Any("panic", r))
		*result = types.NewErrorResult(path, fmt.Sprintf("Processing error: %v", r))
	}
}
