package types

import "time"

// Result values for a single image validation.
const (
	ResultYes   = "Yes"
	ResultNo    = "No"
	ResultError = "Error"
)

// BoundingBox is an axis-aligned rectangle in pixel coordinates locating a
// detected car. Coordinates satisfy X1 < X2 and Y1 < Y2.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() int {
	return b.Y2 - b.Y1
}

// Area returns the box area in pixels.
func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// AspectRatio returns width/height, or 0 for a degenerate box.
func (b BoundingBox) AspectRatio() float64 {
	h := b.Height()
	if h <= 0 {
		return 0
	}
	return float64(b.Width()) / float64(h)
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() int {
	return (b.X1 + b.X2) / 2
}

// Valid reports whether the box has positive extent in both dimensions.
func (b BoundingBox) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Detection is a candidate object found by a locator.
type Detection struct {
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// CriterionSet holds the five listing criteria for one image. All fields are
// populated whenever detection succeeded.
type CriterionSet struct {
	ContainsCar        bool `json:"contains_car"`
	SideView           bool `json:"side_view"`
	WhiteBackground    bool `json:"white_background"`
	ProperSize         bool `json:"proper_size"`
	CorrectOrientation bool `json:"correct_orientation"`
}

// AllPass reports whether every criterion is satisfied.
func (c CriterionSet) AllPass() bool {
	return c.ContainsCar && c.SideView && c.WhiteBackground && c.ProperSize && c.CorrectOrientation
}

// ValidationResult is the outcome of validating one image. It is constructed
// once per image and never mutated afterwards.
type ValidationResult struct {
	Result         string        `json:"result"`
	Criteria       *CriterionSet `json:"criteria,omitempty"`
	FailureReasons []string      `json:"failure_reasons,omitempty"`
	Error          string        `json:"error,omitempty"`
	Timestamp      string        `json:"timestamp"`
	ModelUsed      string        `json:"model_used,omitempty"`
	ImagePath      string        `json:"image_path,omitempty"`
}

// NewErrorResult builds an Error result carrying only the error description.
// An Error result never carries criteria: the image could not be judged.
func NewErrorResult(imagePath, errMsg string) ValidationResult {
	return ValidationResult{
		Result:    ResultError,
		Error:     errMsg,
		Timestamp: Now(),
		ImagePath: imagePath,
	}
}

// Now returns the timestamp format used in validation results.
func Now() string {
	return time.Now().Format(time.RFC3339)
}
