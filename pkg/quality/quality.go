// Package quality implements the pre-detection quality gate. Images that are
// too small, too dark, washed out, or blurred cannot be judged against the
// listing criteria and are rejected before any detection work happens.
package quality

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// StrictConfig holds thresholds for the hard pass/fail gate used by the
// bounding-box pipeline.
type StrictConfig struct {
	MinWidth      int
	MinHeight     int
	MinBrightness float64
	MaxBrightness float64
}

// DefaultStrictConfig returns the strict gate defaults.
func DefaultStrictConfig() StrictConfig {
	return StrictConfig{
		MinWidth:      100,
		MinHeight:     100,
		MinBrightness: 30,
		MaxBrightness: 250,
	}
}

// ScoredConfig holds thresholds for the scored gate used by the mask
// pipeline. Each detected issue subtracts its penalty from a score starting
// at 1.0; the image is rejected when the score drops to 0.5 or below, or when
// three or more issues are found.
type ScoredConfig struct {
	MinWidth      int
	MinHeight     int
	MinBrightness float64
	MaxBrightness float64
	MinContrast   float64
	MinSharpness  float64

	ResolutionPenalty float64
	BrightnessPenalty float64
	ContrastPenalty   float64
	SharpnessPenalty  float64

	MinScore  float64
	MaxIssues int
}

// DefaultScoredConfig returns the scored gate defaults.
func DefaultScoredConfig() ScoredConfig {
	return ScoredConfig{
		MinWidth:          200,
		MinHeight:         200,
		MinBrightness:     50,
		MaxBrightness:     240,
		MinContrast:       20,
		MinSharpness:      100,
		ResolutionPenalty: 0.3,
		BrightnessPenalty: 0.2,
		ContrastPenalty:   0.2,
		SharpnessPenalty:  0.3,
		MinScore:          0.5,
		MaxIssues:         3,
	}
}

// Assessment is the outcome of the scored gate. Score is advisory metadata;
// only OK feeds the pipeline decision.
type Assessment struct {
	OK     bool
	Score  float64
	Issues []string
}

// Reason joins the detected issues into a single diagnostic string.
func (a Assessment) Reason() string {
	return strings.Join(a.Issues, ", ")
}

// AssessStrict runs the hard pass/fail checks. It returns false with a single
// failure description for the first category that fails, checking resolution
// before exposure.
func AssessStrict(img image.Image, cfg StrictConfig) (bool, string) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w < cfg.MinWidth || h < cfg.MinHeight {
		return false, "Image resolution too low"
	}

	gray := grayPlane(img)
	mean := gray.mean()
	if mean < cfg.MinBrightness {
		return false, "Image too dark"
	}
	if mean > cfg.MaxBrightness {
		return false, "Image too bright"
	}

	return true, "OK"
}

// AssessScored runs every check and accumulates penalties, so the assessment
// reports all problems at once instead of stopping at the first.
func AssessScored(img image.Image, cfg ScoredConfig) Assessment {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	score := 1.0
	var issues []string

	if w < cfg.MinWidth || h < cfg.MinHeight {
		issues = append(issues, "Low resolution")
		score -= cfg.ResolutionPenalty
	}

	gray := grayPlane(img)
	mean := gray.mean()
	if mean < cfg.MinBrightness {
		issues = append(issues, "Too dark")
		score -= cfg.BrightnessPenalty
	} else if mean > cfg.MaxBrightness {
		issues = append(issues, "Too bright/overexposed")
		score -= cfg.BrightnessPenalty
	}

	if gray.stddev() < cfg.MinContrast {
		issues = append(issues, "Low contrast")
		score -= cfg.ContrastPenalty
	}

	if gray.laplacianVariance() < cfg.MinSharpness {
		issues = append(issues, "Image appears blurry")
		score -= cfg.SharpnessPenalty
	}

	score = math.Max(0, score)
	return Assessment{
		OK:     score > cfg.MinScore && len(issues) < cfg.MaxIssues,
		Score:  score,
		Issues: issues,
	}
}

// Validate checks the configuration for obviously broken threshold bands.
func (cfg StrictConfig) Validate() error {
	if cfg.MinWidth <= 0 || cfg.MinHeight <= 0 {
		return fmt.Errorf("quality: minimum resolution must be positive")
	}
	if cfg.MinBrightness >= cfg.MaxBrightness {
		return fmt.Errorf("quality: brightness band is empty (%v >= %v)", cfg.MinBrightness, cfg.MaxBrightness)
	}
	return nil
}

// Validate checks the configuration for obviously broken threshold bands.
func (cfg ScoredConfig) Validate() error {
	if cfg.MinWidth <= 0 || cfg.MinHeight <= 0 {
		return fmt.Errorf("quality: minimum resolution must be positive")
	}
	if cfg.MinBrightness >= cfg.MaxBrightness {
		return fmt.Errorf("quality: brightness band is empty (%v >= %v)", cfg.MinBrightness, cfg.MaxBrightness)
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return fmt.Errorf("quality: min score must be in [0,1]")
	}
	return nil
}
