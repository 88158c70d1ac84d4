package quality

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// uniformImage creates a solid-color test image.
func uniformImage(width, height int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// checkerImage creates a high-contrast, high-frequency test image that passes
// the contrast and sharpness checks.
func checkerImage(width, height int, dark, light uint8) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dark
			if (x+y)%2 == 0 {
				v = light
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestAssessStrict(t *testing.T) {
	cfg := DefaultStrictConfig()

	tests := []struct {
		name     string
		img      image.Image
		expected bool
		reason   string
	}{
		{"good exposure", uniformImage(200, 200, color.NRGBA{128, 128, 128, 255}), true, "OK"},
		{"too small", uniformImage(80, 200, color.NRGBA{128, 128, 128, 255}), false, "Image resolution too low"},
		{"too dark", uniformImage(200, 200, color.NRGBA{10, 10, 10, 255}), false, "Image too dark"},
		{"too bright", uniformImage(200, 200, color.NRGBA{255, 255, 255, 255}), false, "Image too bright"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, reason := AssessStrict(test.img, cfg)
			assert.Equal(t, test.expected, ok)
			assert.Equal(t, test.reason, reason)
		})
	}
}

func TestAssessStrictChecksResolutionFirst(t *testing.T) {
	// Tiny and pitch black: resolution must win.
	ok, reason := AssessStrict(uniformImage(50, 50, color.NRGBA{0, 0, 0, 255}), DefaultStrictConfig())
	assert.False(t, ok)
	assert.Equal(t, "Image resolution too low", reason)
}

func TestAssessScoredCleanImage(t *testing.T) {
	a := AssessScored(checkerImage(300, 300, 40, 215), DefaultScoredConfig())

	assert.True(t, a.OK)
	assert.InDelta(t, 1.0, a.Score, 1e-9)
	assert.Empty(t, a.Issues)
}

func TestAssessScoredAccumulatesIssues(t *testing.T) {
	// A uniform mid-gray image has zero contrast and zero sharpness.
	a := AssessScored(uniformImage(300, 300, color.NRGBA{128, 128, 128, 255}), DefaultScoredConfig())

	assert.False(t, a.OK)
	assert.InDelta(t, 0.5, a.Score, 1e-9)
	assert.Equal(t, []string{"Low contrast", "Image appears blurry"}, a.Issues)
	assert.Equal(t, "Low contrast, Image appears blurry", a.Reason())
}

func TestAssessScoredRejectsOnIssueCount(t *testing.T) {
	// Small, dark, flat, blurry: four issues, score clamped at zero.
	a := AssessScored(uniformImage(100, 100, color.NRGBA{20, 20, 20, 255}), DefaultScoredConfig())

	assert.False(t, a.OK)
	assert.Equal(t, 0.0, a.Score)
	assert.Len(t, a.Issues, 4)
	assert.Contains(t, a.Issues, "Low resolution")
	assert.Contains(t, a.Issues, "Too dark")
}

func TestAssessScoredOverexposed(t *testing.T) {
	a := AssessScored(checkerImage(300, 300, 240, 255), DefaultScoredConfig())
	assert.Contains(t, a.Issues, "Too bright/overexposed")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultStrictConfig().Validate())
	assert.NoError(t, DefaultScoredConfig().Validate())

	bad := DefaultStrictConfig()
	bad.MinBrightness = 300
	assert.Error(t, bad.Validate())

	badScored := DefaultScoredConfig()
	badScored.MinScore = 2
	assert.Error(t, badScored.Validate())
}
