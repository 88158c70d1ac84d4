package pipeline

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/carvida/photocheck/pkg/criteria"
	"github.com/carvida/photocheck/pkg/detect"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/quality"
	"github.com/carvida/photocheck/pkg/types"
	"github.com/carvida/photocheck/pkg/verdict"
)

// BoxModelName identifies the bounding-box pipeline in result records.
const BoxModelName = "yolo + heuristics"

// BoxPipeline is the baseline heuristic flow: strict quality gate, car
// detection, and criterion checks computed directly from the bounding box.
type BoxPipeline struct {
	locator   detect.Locator
	quality   quality.StrictConfig
	profile   criteria.Profile
	wording   verdict.Wording
	processor *processing.Processor
	logger    *zap.Logger
}

// NewBoxPipeline creates the pipeline with default thresholds.
func NewBoxPipeline(locator detect.Locator, logger *zap.Logger) *BoxPipeline {
	return NewBoxPipelineWithConfig(locator, quality.DefaultStrictConfig(), criteria.BoxProfile(), logger)
}

// NewBoxPipelineWithConfig creates the pipeline with custom thresholds.
func NewBoxPipelineWithConfig(locator detect.Locator, qc quality.StrictConfig, profile criteria.Profile, logger *zap.Logger) *BoxPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoxPipeline{
		locator:   locator,
		quality:   qc,
		profile:   profile,
		wording:   verdict.BoxWording(),
		processor: processing.NewProcessor(),
		logger:    logger.Named("box_pipeline"),
	}
}

// ValidateFile validates the image at path.
func (p *BoxPipeline) ValidateFile(ctx context.Context, path string) types.ValidationResult {
	return validateFile(ctx, p.processor, p, path)
}

// ValidateImage validates an already-decoded image.
func (p *BoxPipeline) ValidateImage(ctx context.Context, img image.Image, path string) (result types.ValidationResult) {
	defer recoverResult(path, &result, p.logger)

	if ok, reason := quality.AssessStrict(img, p.quality); !ok {
		return types.NewErrorResult(path, "Image quality issue: "+reason)
	}

	found, box, err := p.locator.Detect(ctx, img)
	if err != nil {
		return types.NewErrorResult(path, "Detection failed: "+err.Error())
	}
	if !found {
		result = verdict.BuildNoCar(p.wording, BoxModelName, path)
		return result
	}

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	sizeOK, sizeRatio := criteria.ProperSizeBox(box, imgW, imgH, p.profile.MinAreaRatio)
	backgroundOK, bgStats := criteria.WhiteBackgroundBox(img, box, p.profile)
	sideOK, aspect := criteria.SideView(box, p.profile.SideView)
	facingOK, relPos := criteria.FacingLeftSimple(box, imgW, p.profile.Facing)

	p.logger.Debug("criteria evaluated",
		zap.String("image", path),
		zap.Float64("size_ratio", sizeRatio),
		zap.Float64("aspect_ratio", aspect),
		zap.Float64("rel_position", relPos),
		zap.Float64("bg_mean_r", bgStats.MeanR),
		zap.Float64("bg_mean_g", bgStats.MeanG),
		zap.Float64("bg_mean_b", bgStats.MeanB),
	)

	set := types.CriterionSet{
		ContainsCar:        true,
		SideView:           sideOK,
		WhiteBackground:    backgroundOK,
		ProperSize:         sizeOK,
		CorrectOrientation: facingOK,
	}
	result = verdict.Build(set, p.wording, BoxModelName, path)
	return result
}
