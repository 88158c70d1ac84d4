// Package verdict merges per-criterion outcomes into the final Yes/No result
// with ordered, human-readable failure reasons.
package verdict

import "github.com/carvida/photocheck/pkg/types"

// Wording holds the fixed failure sentence for each criterion. The two
// heuristic pipelines phrase the size and side-view failures slightly
// differently, so each ships its own set.
type Wording struct {
	NoCar      string
	Size       string
	Background string
	SideView   string
	Facing     string
}

// BoxWording returns the sentences used by the bounding-box pipeline.
func BoxWording() Wording {
	return Wording{
		NoCar:      "No car detected in image",
		Size:       "Car does not occupy sufficient portion of image (< 1/4)",
		Background: "Background is not sufficiently white",
		SideView:   "Car does not appear to be in side view (width/height ratio)",
		Facing:     "Car does not appear to be facing left",
	}
}

// MaskWording returns the sentences used by the mask pipeline.
func MaskWording() Wording {
	return Wording{
		NoCar:      "No car detected in image",
		Size:       "Car does not occupy sufficient portion of image (< 20%)",
		Background: "Background is not sufficiently white",
		SideView:   "Car does not appear to be in side view",
		Facing:     "Car does not appear to be facing left",
	}
}

// Aggregate turns a criterion set into the final verdict. The result is Yes
// exactly when every criterion holds. On failure the reasons list one
// sentence per failing criterion in the fixed order size, background,
// side-view, facing-direction; golden-output tests depend on that order.
func Aggregate(c types.CriterionSet, w Wording) (result string, reasons []string) {
	if !c.ContainsCar {
		return types.ResultNo, []string{w.NoCar}
	}
	if c.AllPass() {
		return types.ResultYes, nil
	}

	if !c.ProperSize {
		reasons = append(reasons, w.Size)
	}
	if !c.WhiteBackground {
		reasons = append(reasons, w.Background)
	}
	if !c.SideView {
		reasons = append(reasons, w.SideView)
	}
	if !c.CorrectOrientation {
		reasons = append(reasons, w.Facing)
	}
	return types.ResultNo, reasons
}

// Build assembles the full ValidationResult for a completed evaluation. The
// criterion set is always attached; projecting it away for simple-mode output
// is the presentation layer's job.
func Build(c types.CriterionSet, w Wording, modelUsed, imagePath string) types.ValidationResult {
	result, reasons := Aggregate(c, w)
	criteria := c
	return types.ValidationResult{
		Result:         result,
		Criteria:       &criteria,
		FailureReasons: reasons,
		Timestamp:      types.Now(),
		ModelUsed:      modelUsed,
		ImagePath:      imagePath,
	}
}

// BuildNoCar assembles the result for a failed detection. Detection misses
// are a normal "No", not an error, and carry an all-false criterion set.
func BuildNoCar(w Wording, modelUsed, imagePath string) types.ValidationResult {
	criteria := types.CriterionSet{}
	return types.ValidationResult{
		Result:         types.ResultNo,
		Criteria:       &criteria,
		FailureReasons: []string{w.NoCar},
		Timestamp:      types.Now(),
		ModelUsed:      modelUsed,
		ImagePath:      imagePath,
	}
}
