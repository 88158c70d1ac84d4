package pipeline

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/carvida/photocheck/pkg/criteria"
	"github.com/carvida/photocheck/pkg/detect"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/quality"
	"github.com/carvida/photocheck/pkg/segment"
	"github.com/carvida/photocheck/pkg/types"
	"github.com/carvida/photocheck/pkg/verdict"
)

// MaskModelName identifies the mask pipeline in result records.
const MaskModelName = "yolo + segmenter + classifier"

// MaskPipeline is the richer heuristic flow: scored quality gate, car
// detection, coarse segmentation, and criterion checks computed from the
// refined mask plus the scored orientation classifier.
type MaskPipeline struct {
	locator   detect.Locator
	segmenter segment.Segmenter
	quality   quality.ScoredConfig
	profile   criteria.Profile
	wording   verdict.Wording
	processor *processing.Processor
	logger    *zap.Logger
}

// NewMaskPipeline creates the pipeline with default thresholds and the
// white-exclusion segmenter.
func NewMaskPipeline(locator detect.Locator, logger *zap.Logger) *MaskPipeline {
	return NewMaskPipelineWithConfig(locator, segment.NewWhiteExclusionSegmenter(),
		quality.DefaultScoredConfig(), criteria.MaskProfile(), logger)
}

// NewMaskPipelineWithConfig creates the pipeline with custom collaborators
// and thresholds. A nil segmenter falls back to box-as-mask.
func NewMaskPipelineWithConfig(locator detect.Locator, seg segment.Segmenter, qc quality.ScoredConfig, profile criteria.Profile, logger *zap.Logger) *MaskPipeline {
	if seg == nil {
		seg = segment.BoxSegmenter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaskPipeline{
		locator:   locator,
		segmenter: seg,
		quality:   qc,
		profile:   profile,
		wording:   verdict.MaskWording(),
		processor: processing.NewProcessor(),
		logger:    logger.Named("mask_pipeline"),
	}
}

// ValidateFile validates the image at path.
func (p *MaskPipeline) ValidateFile(ctx context.Context, path string) types.ValidationResult {
	return validateFile(ctx, p.processor, p, path)
}

// ValidateImage validates an already-decoded image.
func (p *MaskPipeline) ValidateImage(ctx context.Context, img image.Image, path string) (result types.ValidationResult) {
	defer recoverResult(path, &result, p.logger)

	assessment := quality.AssessScored(img, p.quality)
	if !assessment.OK {
		return types.NewErrorResult(path, "Image quality issues: "+assessment.Reason())
	}

	found, box, err := p.locator.Detect(ctx, img)
	if err != nil {
		return types.NewErrorResult(path, "Detection failed: "+err.Error())
	}
	if !found {
		result = verdict.BuildNoCar(p.wording, MaskModelName, path)
		return result
	}

	mask, err := p.segmenter.Segment(img, box)
	if err != nil {
		// Segmentation problems degrade to the box fallback instead of
		// failing the image.
		p.logger.Warn("segmentation failed, using bounding box", zap.String("image", path), zap.Error(err))
		bounds := img.Bounds()
		mask = types.MaskFromBox(bounds.Dx(), bounds.Dy(), box)
	}

	bounds := img.Bounds()
	imgW := bounds.Dx()

	sizeOK, sizeRatio := criteria.ProperSizeMask(mask, p.profile.MinAreaRatio)
	backgroundOK, bgStats := criteria.WhiteBackgroundMask(img, mask, p.profile)
	sideOK, aspect := criteria.SideView(box, p.profile.SideView)
	facingOK, facingScore := criteria.FacingLeftScored(box, imgW, sideOK, p.profile.Facing)

	p.logger.Debug("criteria evaluated",
		zap.String("image", path),
		zap.Float64("quality_score", assessment.Score),
		zap.Float64("mask_ratio", sizeRatio),
		zap.Float64("aspect_ratio", aspect),
		zap.Int("facing_score", facingScore),
		zap.Float64("bg_spread", bgStats.Spread),
	)

	set := types.CriterionSet{
		ContainsCar:        true,
		SideView:           sideOK,
		WhiteBackground:    backgroundOK,
		ProperSize:         sizeOK,
		CorrectOrientation: facingOK,
	}
	result = verdict.Build(set, p.wording, MaskModelName, path)
	return result
}
