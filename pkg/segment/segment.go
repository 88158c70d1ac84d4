// Package segment separates car pixels from background inside a detected
// bounding box. The default implementation is a documented stand-in for real
// instance segmentation: it refines the box by excluding near-white pixels
// rather than running a model.
package segment

import (
	"image"

	"github.com/carvida/photocheck/pkg/types"
)

// Segmenter produces a car/background mask for a detected box. Callers must
// treat the output as "segmentation or best-effort bounding-box fallback".
type Segmenter interface {
	Segment(img image.Image, box types.BoundingBox) (*types.Mask, error)
}

// BoxSegmenter is the degenerate segmenter: everything inside the box is car.
type BoxSegmenter struct{}

// Segment returns the box-as-mask fallback.
func (BoxSegmenter) Segment(img image.Image, box types.BoundingBox) (*types.Mask, error) {
	bounds := img.Bounds()
	return types.MaskFromBox(bounds.Dx(), bounds.Dy(), box), nil
}

// WhiteExclusionConfig controls the heuristic refinement.
type WhiteExclusionConfig struct {
	// WhiteThreshold is the per-channel floor above which a pixel counts as
	// background bleeding into the box.
	WhiteThreshold uint8
	// MaxExcludedRatio caps how much of the box the exclusion may remove.
	// Past it the refinement is discarded and the full box is used, so an
	// over-aggressive mask cannot corrupt the downstream area and
	// background checks.
	MaxExcludedRatio float64
}

// DefaultWhiteExclusionConfig returns the shipped refinement thresholds.
func DefaultWhiteExclusionConfig() WhiteExclusionConfig {
	return WhiteExclusionConfig{
		WhiteThreshold:   240,
		MaxExcludedRatio: 0.4,
	}
}

// WhiteExclusionSegmenter marks every pixel inside the box as car except
// pixels that are very white in all three channels.
type WhiteExclusionSegmenter struct {
	config WhiteExclusionConfig
}

// NewWhiteExclusionSegmenter creates the segmenter with default thresholds.
func NewWhiteExclusionSegmenter() *WhiteExclusionSegmenter {
	return &WhiteExclusionSegmenter{config: DefaultWhiteExclusionConfig()}
}

// NewWhiteExclusionSegmenterWithConfig creates the segmenter with custom
// thresholds.
func NewWhiteExclusionSegmenterWithConfig(config WhiteExclusionConfig) *WhiteExclusionSegmenter {
	return &WhiteExclusionSegmenter{config: config}
}

// Segment refines the box into a mask by white-pixel exclusion, with the
// full-box safety valve when exclusion removes too much.
func (s *WhiteExclusionSegmenter) Segment(img image.Image, box types.BoundingBox) (*types.Mask, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := types.NewMask(w, h)

	threshold := uint32(s.config.WhiteThreshold) * 257 // 8-bit threshold against 16-bit channels

	boxPixels := 0
	excluded := 0
	for y := box.Y1; y < box.Y2; y++ {
		for x := box.X1; x < box.X2; x++ {
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			boxPixels++
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if r >= threshold && g >= threshold && b >= threshold {
				excluded++
				continue
			}
			mask.Set(x, y, 1)
		}
	}

	if boxPixels > 0 && float64(excluded) > float64(boxPixels)*s.config.MaxExcludedRatio {
		mask.FillBox(box, 1)
	}
	return mask, nil
}
