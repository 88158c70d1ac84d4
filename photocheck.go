// Package photocheck validates car listing photos against marketplace rules:
// the image must contain a car, shown in side view on a white background,
// filling enough of the frame and facing left.
//
// Three interchangeable validation paths produce the same result schema:
//
// 1. Box pipeline (pkg/pipeline): car detection plus handcrafted geometric
// and photometric checks computed from the bounding box.
//
// 2. Mask pipeline (pkg/pipeline): detection, coarse car/background
// segmentation, and a scored orientation classifier over the refined mask.
//
// 3. Vision pipeline (pkg/vision): a single structured-prompt call to a
// multimodal model, parsed into the shared schema with a deterministic
// fail-closed fallback.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/carvida/photocheck"
//		"github.com/carvida/photocheck/pkg/detect"
//	)
//
//	func main() {
//		locator, err := detect.NewYOLOLocator(detect.DefaultYOLOConfig("models/yolov8n.onnx"))
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer locator.Close()
//
//		v := photocheck.NewBoxValidator(locator, nil)
//		result := v.ValidateFile(context.Background(), "listing.jpg")
//		fmt.Println(result.Result, result.FailureReasons)
//	}
//
// Every path isolates failures per image: a missing file, an undecodable
// image, or a quality-gate rejection becomes an Error result instead of an
// aborted run.
package photocheck

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/carvida/photocheck/pkg/batch"
	"github.com/carvida/photocheck/pkg/client"
	"github.com/carvida/photocheck/pkg/detect"
	"github.com/carvida/photocheck/pkg/pipeline"
	"github.com/carvida/photocheck/pkg/types"
	"github.com/carvida/photocheck/pkg/vision"
)

// Version of the photocheck library
const Version = "1.0.0"

// Validator runs one validation path over single images or directories.
type Validator struct {
	path    pipeline.Validator
	workers int
	logger  *zap.Logger
}

// NewBoxValidator builds a validator over the bounding-box pipeline.
func NewBoxValidator(locator detect.Locator, logger *zap.Logger) *Validator {
	return wrap(pipeline.NewBoxPipeline(locator, logger), logger)
}

// NewMaskValidator builds a validator over the mask pipeline.
func NewMaskValidator(locator detect.Locator, logger *zap.Logger) *Validator {
	return wrap(pipeline.NewMaskPipeline(locator, logger), logger)
}

// NewVisionValidator builds a validator over a multimodal model backend.
func NewVisionValidator(vc client.VisionClient, model string, logger *zap.Logger) *Validator {
	checker := vision.NewChecker(vc, vision.DefaultConfig(model))
	return wrap(pipeline.NewVisionPipeline(checker, model, logger), logger)
}

// NewValidator wraps any validation path.
func NewValidator(path pipeline.Validator, logger *zap.Logger) *Validator {
	return wrap(path, logger)
}

func wrap(path pipeline.Validator, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		path:    path,
		workers: batch.DefaultWorkers,
		logger:  logger,
	}
}

// SetWorkers sets the pool size for directory runs.
func (v *Validator) SetWorkers(n int) {
	if n > 0 {
		v.workers = n
	}
}

// ValidateFile validates one image file.
func (v *Validator) ValidateFile(ctx context.Context, path string) types.ValidationResult {
	return v.path.ValidateFile(ctx, path)
}

// ValidateImage validates an already-decoded image.
func (v *Validator) ValidateImage(ctx context.Context, img image.Image, path string) types.ValidationResult {
	return v.path.ValidateImage(ctx, img, path)
}

// ValidateDirectory validates every image in a directory and returns the
// batch report.
func (v *Validator) ValidateDirectory(ctx context.Context, dir string) (*types.Report, error) {
	runner := batch.NewRunner(v.path, v.workers, v.logger)
	return runner.Run(ctx, dir)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
