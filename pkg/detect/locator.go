// Package detect locates cars in listing photos. The Locator interface keeps
// the pipelines decoupled from the detection backend; the shipped backend
// runs a YOLO model through ONNX Runtime.
package detect

import (
	"context"
	"image"

	"github.com/carvida/photocheck/pkg/types"
)

// COCO class ids for the vehicle classes the locator understands.
const (
	ClassCar        = 2
	ClassMotorcycle = 3
	ClassBus        = 5
	ClassTruck      = 7
)

// DefaultConfidence is the acceptance threshold for detections.
const DefaultConfidence = 0.5

// Locator finds cars in an image.
//
// Detect restricts itself to the car class and returns the single best
// candidate. DetectAll covers the wider vehicle set (cars, motorcycles,
// buses, trucks) and returns every accepted candidate ordered by descending
// confidence; the default pipelines do not consume it.
//
// Implementations must tolerate concurrent calls: the batch runner shares a
// single locator across its worker pool.
type Locator interface {
	Detect(ctx context.Context, img image.Image) (bool, types.BoundingBox, error)
	DetectAll(ctx context.Context, img image.Image) ([]types.Detection, error)
}

// StaticLocator replays preset detections. It stands in for a real model in
// tests and when running the pipelines without an ONNX runtime present.
type StaticLocator struct {
	Detections []types.Detection
}

// Detect returns the highest-confidence preset car detection, if any clears
// the acceptance threshold.
func (s *StaticLocator) Detect(ctx context.Context, img image.Image) (bool, types.BoundingBox, error) {
	best := types.Detection{}
	found := false
	for _, d := range s.Detections {
		if d.Confidence <= DefaultConfidence {
			continue
		}
		// Strictly-highest wins; exact ties keep the first encountered.
		if !found || d.Confidence > best.Confidence {
			best = d
			found = true
		}
	}
	if !found {
		return false, types.BoundingBox{}, nil
	}
	return true, best.Box, nil
}

// DetectAll returns the preset detections above the threshold, sorted by
// descending confidence.
func (s *StaticLocator) DetectAll(ctx context.Context, img image.Image) ([]types.Detection, error) {
	var out []types.Detection
	for _, d := range s.Detections {
		if d.Confidence > DefaultConfidence {
			out = append(out, d)
		}
	}
	sortByConfidence(out)
	return out, nil
}

func sortByConfidence(dets []types.Detection) {
	// Stable insertion keeps first-encountered order on exact ties.
	for i := 1; i < len(dets); i++ {
		for j := i; j > 0 && dets[j].Confidence > dets[j-1].Confidence; j-- {
			dets[j], dets[j-1] = dets[j-1], dets[j]
		}
	}
}
