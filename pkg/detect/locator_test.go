package detect

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvida/photocheck/pkg/types"
)

var testImg = image.NewNRGBA(image.Rect(0, 0, 640, 480))

func TestStaticLocatorPicksHighestConfidence(t *testing.T) {
	locator := &StaticLocator{Detections: []types.Detection{
		{Confidence: 0.6, Box: types.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 50}},
		{Confidence: 0.9, Box: types.BoundingBox{X1: 200, Y1: 0, X2: 400, Y2: 100}},
		{Confidence: 0.7, Box: types.BoundingBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
	}}

	found, box, err := locator.Detect(context.Background(), testImg)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.BoundingBox{X1: 200, Y1: 0, X2: 400, Y2: 100}, box)
}

func TestStaticLocatorFiltersThreshold(t *testing.T) {
	locator := &StaticLocator{Detections: []types.Detection{
		{Confidence: 0.5, Box: types.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 50}},
		{Confidence: 0.3, Box: types.BoundingBox{X1: 50, Y1: 50, X2: 150, Y2: 100}},
	}}

	// 0.5 is not strictly above the threshold.
	found, _, err := locator.Detect(context.Background(), testImg)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStaticLocatorEmpty(t *testing.T) {
	found, box, err := (&StaticLocator{}).Detect(context.Background(), testImg)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, types.BoundingBox{}, box)
}

func TestStaticLocatorTieKeepsFirst(t *testing.T) {
	first := types.BoundingBox{X1: 10, Y1: 10, X2: 110, Y2: 60}
	locator := &StaticLocator{Detections: []types.Detection{
		{Confidence: 0.8, Box: first},
		{Confidence: 0.8, Box: types.BoundingBox{X1: 300, Y1: 10, X2: 400, Y2: 60}},
	}}

	found, box, err := locator.Detect(context.Background(), testImg)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first, box)
}

func TestStaticLocatorDetectAllSorted(t *testing.T) {
	locator := &StaticLocator{Detections: []types.Detection{
		{Confidence: 0.6},
		{Confidence: 0.4},
		{Confidence: 0.9},
		{Confidence: 0.7},
	}}

	dets, err := locator.DetectAll(context.Background(), testImg)
	require.NoError(t, err)
	require.Len(t, dets, 3)
	assert.Equal(t, 0.9, dets[0].Confidence)
	assert.Equal(t, 0.7, dets[1].Confidence)
	assert.Equal(t, 0.6, dets[2].Confidence)
}

func TestIoU(t *testing.T) {
	a := types.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}

	tests := []struct {
		name     string
		b        types.BoundingBox
		expected float64
	}{
		{"identical", a, 1.0},
		{"disjoint", types.BoundingBox{X1: 200, Y1: 200, X2: 300, Y2: 300}, 0},
		{"touching edges", types.BoundingBox{X1: 100, Y1: 0, X2: 200, Y2: 100}, 0},
		{"half overlap", types.BoundingBox{X1: 50, Y1: 0, X2: 150, Y2: 100}, 5000.0 / 15000.0},
		{"contained quarter", types.BoundingBox{X1: 0, Y1: 0, X2: 50, Y2: 50}, 0.25},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.expected, iou(a, test.b), 1e-9)
		})
	}
}

func TestNonMaxSuppression(t *testing.T) {
	dets := []types.Detection{
		{Confidence: 0.9, Box: types.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
		// Heavy overlap with the first, lower confidence: suppressed.
		{Confidence: 0.8, Box: types.BoundingBox{X1: 10, Y1: 10, X2: 110, Y2: 110}},
		// Far away: kept.
		{Confidence: 0.7, Box: types.BoundingBox{X1: 300, Y1: 300, X2: 400, Y2: 400}},
	}

	kept := nonMaxSuppression(dets, 0.45)
	require.Len(t, kept, 2)
	assert.Equal(t, 0.9, kept[0].Confidence)
	assert.Equal(t, 0.7, kept[1].Confidence)
}

func TestNonMaxSuppressionKeepsLightOverlap(t *testing.T) {
	dets := []types.Detection{
		{Confidence: 0.9, Box: types.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}},
		// IoU 1/3: below the threshold, both survive.
		{Confidence: 0.8, Box: types.BoundingBox{X1: 50, Y1: 0, X2: 150, Y2: 100}},
	}

	kept := nonMaxSuppression(dets, 0.45)
	assert.Len(t, kept, 2)
}

func TestDecodePredictions(t *testing.T) {
	out := make([]float32, (4+numClasses)*numAnchors)

	// Anchor 0: a confident car centered at (320, 320) sized 320x160 in model
	// coordinates, laid out as cx, cy, w, h planes.
	out[0] = 320
	out[numAnchors] = 320
	out[2*numAnchors] = 320
	out[3*numAnchors] = 160
	out[(4+ClassCar)*numAnchors] = 0.85

	// Anchor 1: a confident dog (class 16) must be ignored.
	out[1] = 100
	out[numAnchors+1] = 100
	out[2*numAnchors+1] = 50
	out[3*numAnchors+1] = 50
	out[(4+16)*numAnchors+1] = 0.95

	// Anchor 2: a car below the confidence floor.
	out[2] = 500
	out[numAnchors+2] = 500
	out[2*numAnchors+2] = 100
	out[3*numAnchors+2] = 100
	out[(4+ClassCar)*numAnchors+2] = 0.3

	dets := decodePredictions(out, 1280, 640, []int{ClassCar}, DefaultConfidence)
	require.Len(t, dets, 1)
	assert.InDelta(t, 0.85, dets[0].Confidence, 1e-6)
	// Scaled x2 horizontally, x1 vertically for a 1280x640 source.
	assert.Equal(t, types.BoundingBox{X1: 320, Y1: 240, X2: 960, Y2: 400}, dets[0].Box)
}

func TestDecodePredictionsClampsToImage(t *testing.T) {
	out := make([]float32, (4+numClasses)*numAnchors)
	out[0] = 10 // cx near the left edge
	out[numAnchors] = 320
	out[2*numAnchors] = 100 // wider than the remaining space
	out[3*numAnchors] = 100
	out[(4+ClassCar)*numAnchors] = 0.9

	dets := decodePredictions(out, 640, 640, []int{ClassCar}, DefaultConfidence)
	require.Len(t, dets, 1)
	assert.Equal(t, 0, dets[0].Box.X1)
	assert.Equal(t, 60, dets[0].Box.X2)
}

func TestDecodePredictionsVehicleClasses(t *testing.T) {
	out := make([]float32, (4+numClasses)*numAnchors)
	out[0] = 320
	out[numAnchors] = 320
	out[2*numAnchors] = 200
	out[3*numAnchors] = 100
	out[(4+ClassTruck)*numAnchors] = 0.8

	// Car-only decode skips the truck; the vehicle set accepts it.
	assert.Empty(t, decodePredictions(out, 640, 640, []int{ClassCar}, DefaultConfidence))
	dets := decodePredictions(out, 640, 640, []int{ClassCar, ClassMotorcycle, ClassBus, ClassTruck}, DefaultConfidence)
	assert.Len(t, dets, 1)
}

func TestPrepareInputLayout(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, inputWidth, inputHeight))
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 128, B: 0, A: 255})

	data := make([]float32, 3*inputWidth*inputHeight)
	prepareInput(img, data)

	channelSize := inputWidth * inputHeight
	assert.InDelta(t, 1.0, data[1], 1e-6)
	assert.InDelta(t, 128.0/255.0, data[channelSize+1], 1e-6)
	assert.InDelta(t, 0.0, data[2*channelSize+1], 1e-6)
	assert.InDelta(t, 0.0, data[0], 1e-6)
}

func TestDefaultYOLOConfig(t *testing.T) {
	cfg := DefaultYOLOConfig("models/yolov8n.onnx")
	assert.Equal(t, "models/yolov8n.onnx", cfg.ModelPath)
	assert.Equal(t, DefaultConfidence, cfg.Confidence)
	assert.Equal(t, 0.45, cfg.IoUThreshold)
	assert.Equal(t, "images", cfg.InputName)
	assert.Equal(t, "output0", cfg.OutputName)
}
