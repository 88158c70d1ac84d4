// Package vision validates listing photos with a single multimodal-model
// call instead of the detector pipelines. The model's structured response is
// parsed into the same result schema the heuristic path produces; when the
// response cannot be parsed, a deterministic fail-closed result is returned
// so batch runs never abort on model noise.
package vision

import (
	"context"
	"encoding/json"
	"image"
	"regexp"
	"strings"

	"github.com/carvida/photocheck/pkg/client"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/types"
)

// Config controls what is sent to the model.
type Config struct {
	Model       string
	SendFormat  string // jpg or png
	SendMaxDim  int    // long-side cap in px, 0 keeps the original
	SendQuality int    // JPEG quality for the transport copy
}

// DefaultConfig returns the shipped transport settings.
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		SendFormat:  "jpg",
		SendMaxDim:  1536,
		SendQuality: 85,
	}
}

// Checker runs the vision-model validation path.
type Checker struct {
	client    client.VisionClient
	processor *processing.Processor
	config    Config
}

// NewChecker creates a checker over a vision backend.
func NewChecker(vc client.VisionClient, config Config) *Checker {
	return &Checker{
		client:    vc,
		processor: processing.NewProcessor(),
		config:    config,
	}
}

// Check validates one image through the model. Transport errors surface as
// errors; a response that merely fails to parse does not.
func (c *Checker) Check(ctx context.Context, img image.Image, imagePath string) (types.ValidationResult, error) {
	imgB64, err := c.processor.PrepareImageForModel(img, c.config.SendFormat, c.config.SendMaxDim, c.config.SendQuality)
	if err != nil {
		return types.ValidationResult{}, err
	}

	raw, err := c.client.Classify(ctx, c.config.Model, ValidationPrompt, imgB64, processing.MimeTypeForPath(imagePath))
	if err != nil {
		return types.ValidationResult{}, err
	}

	result := ParseResponse(raw)
	result.Timestamp = types.Now()
	result.ModelUsed = c.config.Model
	result.ImagePath = imagePath
	return result, nil
}

// ParseResponse turns the raw model text into a ValidationResult. Parse
// failures yield the deterministic fallback rather than an error.
func ParseResponse(raw string) types.ValidationResult {
	raw = sanitizeModelJSON(raw)

	var parsed struct {
		Result         string              `json:"result"`
		Criteria       *types.CriterionSet `json:"criteria"`
		FailureReasons []string            `json:"failure_reasons"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallbackResult()
	}
	if parsed.Result != types.ResultYes && parsed.Result != types.ResultNo {
		return fallbackResult()
	}

	// Some models answer with the verdict only. Backfill the criteria from
	// it so the schema matches the heuristic path.
	if parsed.Criteria == nil {
		all := parsed.Result == types.ResultYes
		parsed.Criteria = &types.CriterionSet{
			ContainsCar:        all,
			SideView:           all,
			WhiteBackground:    all,
			ProperSize:         all,
			CorrectOrientation: all,
		}
		if !all && len(parsed.FailureReasons) == 0 {
			parsed.FailureReasons = []string{"Detailed analysis not available"}
		}
	}

	// A Yes verdict alongside a failed criterion is the model contradicting
	// itself. The criteria win, so Yes always means every criterion passed.
	if parsed.Result == types.ResultYes && !parsed.Criteria.AllPass() {
		parsed.Result = types.ResultNo
		if len(parsed.FailureReasons) == 0 {
			parsed.FailureReasons = []string{"Detailed analysis not available"}
		}
	}

	return types.ValidationResult{
		Result:         parsed.Result,
		Criteria:       parsed.Criteria,
		FailureReasons: parsed.FailureReasons,
	}
}

func fallbackResult() types.ValidationResult {
	criteria := types.CriterionSet{}
	return types.ValidationResult{
		Result:         types.ResultNo,
		Criteria:       &criteria,
		FailureReasons: []string{"Failed to parse model response"},
		Error:          "JSON parsing failed",
	}
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from
// the model response and keeps only the outermost JSON object.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	// Remove /* ... */ block comments
	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	// Remove // line/inline comments
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	// Remove trailing commas before } or ]
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
