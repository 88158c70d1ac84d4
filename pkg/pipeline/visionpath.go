package pipeline

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/types"
	"github.com/carvida/photocheck/pkg/vision"
)

// VisionPipeline adapts the vision-model checker to the Validator interface.
// Model failures of any kind degrade to a synthetic fail-closed "No" so
// batch runs always complete.
type VisionPipeline struct {
	checker   *vision.Checker
	modelName string
	processor *processing.Processor
	logger    *zap.Logger
}

// NewVisionPipeline wraps a checker as a validation path.
func NewVisionPipeline(checker *vision.Checker, modelName string, logger *zap.Logger) *VisionPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisionPipeline{
		checker:   checker,
		modelName: modelName,
		processor: processing.NewProcessor(),
		logger:    logger.Named("vision_pipeline"),
	}
}

// ValidateFile validates the image at path.
func (p *VisionPipeline) ValidateFile(ctx context.Context, path string) types.ValidationResult {
	return validateFile(ctx, p.processor, p, path)
}

// ValidateImage validates an already-decoded image through the model.
func (p *VisionPipeline) ValidateImage(ctx context.Context, img image.Image, path string) (result types.ValidationResult) {
	defer recoverResult(path, &result, p.logger)

	result, err := p.checker.Check(ctx, img, path)
	if err != nil {
		// Transport failure: the model never answered. Same fail-closed
		// shape as the parse fallback, with the transport error recorded.
		p.logger.Warn("vision model request failed", zap.String("image", path), zap.Error(err))
		criteria := types.CriterionSet{}
		result = types.ValidationResult{
			Result:         types.ResultNo,
			Criteria:       &criteria,
			FailureReasons: []string{"Model request failed"},
			Error:          err.Error(),
			Timestamp:      types.Now(),
			ModelUsed:      p.modelName,
			ImagePath:      path,
		}
	}
	return result
}
