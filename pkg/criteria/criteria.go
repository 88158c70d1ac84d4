// Package criteria implements the per-criterion checks that decide whether a
// located car photo qualifies as a listing image: frame coverage, background
// whiteness, side-view aspect, and facing direction.
//
// Every evaluator is a pure function of its inputs. Thresholds come from a
// Profile so both shipped operating points (bounding-box and mask based) stay
// selectable instead of being silently unified.
package criteria

import (
	"image"

	"github.com/carvida/photocheck/pkg/types"
)

// BackgroundStats carries the measured background color for diagnostics.
type BackgroundStats struct {
	MeanR  float64
	MeanG  float64
	MeanB  float64
	Spread float64
	Count  int
}

// ProperSizeBox checks box-area / image-area against the profile minimum.
// The returned ratio is reported alongside the verdict for logging.
func ProperSizeBox(box types.BoundingBox, imgWidth, imgHeight int, minRatio float64) (bool, float64) {
	imgArea := imgWidth * imgHeight
	if imgArea <= 0 {
		return false, 0
	}
	ratio := float64(box.Area()) / float64(imgArea)
	return ratio >= minRatio, ratio
}

// ProperSizeMask checks mask-area / image-area against the profile minimum.
// Masks are tighter than boxes, so callers pass a lower bar here.
func ProperSizeMask(mask *types.Mask, minRatio float64) (bool, float64) {
	ratio := mask.Ratio()
	return ratio >= minRatio, ratio
}

// WhiteBackgroundBox measures the average color of pixels outside the
// bounding box.
func WhiteBackgroundBox(img image.Image, box types.BoundingBox, p Profile) (bool, BackgroundStats) {
	return whiteBackground(img, p, func(x, y int) bool {
		return x < box.X1 || x >= box.X2 || y < box.Y1 || y >= box.Y2
	})
}

// WhiteBackgroundMask measures the average color of pixels the mask labels
// as background.
func WhiteBackgroundMask(img image.Image, mask *types.Mask, p Profile) (bool, BackgroundStats) {
	return whiteBackground(img, p, func(x, y int) bool {
		return mask.At(x, y) == 0
	})
}

// whiteBackground averages the color of every background pixel and applies
// the brightness threshold per channel. When the profile sets a channel
// spread limit, a bright-but-tinted background (warm beige and the like) is
// rejected even though each channel clears the brightness bar. An empty
// background fails closed.
func whiteBackground(img image.Image, p Profile, isBackground func(x, y int) bool) (bool, BackgroundStats) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var sumR, sumG, sumB float64
	count := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isBackground(x, y) {
				continue
			}
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			sumR += float64(r) / 257.0
			sumG += float64(g) / 257.0
			sumB += float64(b) / 257.0
			count++
		}
	}

	if count == 0 {
		return false, BackgroundStats{}
	}

	stats := BackgroundStats{
		MeanR: sumR / float64(count),
		MeanG: sumG / float64(count),
		MeanB: sumB / float64(count),
		Count: count,
	}
	stats.Spread = maxChannel(stats) - minChannel(stats)

	bright := stats.MeanR > p.MinBackgroundMean &&
		stats.MeanG > p.MinBackgroundMean &&
		stats.MeanB > p.MinBackgroundMean
	if !bright {
		return false, stats
	}
	if p.MaxChannelSpread > 0 && stats.Spread >= p.MaxChannelSpread {
		return false, stats
	}
	return true, stats
}

// SideView checks the box aspect ratio against the profile policy: either a
// single global minimum or a set of acceptance bands.
func SideView(box types.BoundingBox, policy SideViewPolicy) (bool, float64) {
	aspect := box.AspectRatio()
	if len(policy.Bands) > 0 {
		for _, band := range policy.Bands {
			if aspect >= band.Min && (band.Max <= 0 || aspect <= band.Max) {
				return true, aspect
			}
		}
		return false, aspect
	}
	return aspect >= policy.MinAspectRatio, aspect
}

// FacingLeftSimple checks the box center position relative to the image
// width: cars facing left sit in the center-right area of the frame.
func FacingLeftSimple(box types.BoundingBox, imgWidth int, policy FacingPolicy) (bool, float64) {
	if imgWidth <= 0 {
		return false, 0
	}
	relPos := float64(box.CenterX()) / float64(imgWidth)
	return relPos >= policy.MinRelPos && relPos <= policy.MaxRelPos, relPos
}

// FacingLeftScored accumulates a facing score from the center position and
// the ratio of empty space on either side of the box. It is only meaningful
// for side-view boxes: when sideView is false the criterion is false without
// computing anything.
func FacingLeftScored(box types.BoundingBox, imgWidth int, sideView bool, policy FacingPolicy) (bool, int) {
	if !sideView || imgWidth <= 0 {
		return false, 0
	}

	score := 0

	relPos := float64(box.CenterX()) / float64(imgWidth)
	if relPos >= policy.CenterLow && relPos <= policy.CenterHigh {
		score++
	}

	leftSpace := float64(box.X1)
	rightSpace := float64(imgWidth - box.X2)
	spaceRatio := leftSpace / (rightSpace + 1)

	bands := policy.SpaceBands
	switch {
	case spaceRatio <= bands.TightMax:
		score += 2
	case spaceRatio >= bands.BalancedLow && spaceRatio <= bands.BalancedHigh:
		score += 2
	case spaceRatio >= bands.ModerateLow && spaceRatio <= bands.ModerateHigh:
		score++
	}
	// Anything past the balanced band scores nothing: too much left space
	// means the car is shoved to the right edge.

	return score >= policy.MinScore, score
}

func maxChannel(s BackgroundStats) float64 {
	m := s.MeanR
	if s.MeanG > m {
		m = s.MeanG
	}
	if s.MeanB > m {
		m = s.MeanB
	}
	return m
}

func minChannel(s BackgroundStats) float64 {
	m := s.MeanR
	if s.MeanG < m {
		m = s.MeanG
	}
	if s.MeanB < m {
		m = s.MeanB
	}
	return m
}
