package detect

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/carvida/photocheck/pkg/types"
)

// Model input geometry and output layout for a COCO-trained YOLOv8 export:
// 4 box coordinates plus 80 class scores per anchor.
const (
	inputWidth  = 640
	inputHeight = 640
	numClasses  = 80
	numAnchors  = 8400
)

// YOLOConfig configures the ONNX-backed locator.
type YOLOConfig struct {
	ModelPath    string
	Confidence   float64
	IoUThreshold float64
	InputName    string
	OutputName   string
}

// DefaultYOLOConfig returns the shipped locator settings.
func DefaultYOLOConfig(modelPath string) YOLOConfig {
	return YOLOConfig{
		ModelPath:    modelPath,
		Confidence:   DefaultConfidence,
		IoUThreshold: 0.45,
		InputName:    "images",
		OutputName:   "output0",
	}
}

// YOLOLocator runs a YOLOv8 ONNX model through onnxruntime. A locator owns
// one session with fixed tensors, so concurrent calls are serialized on an
// internal mutex; batch workers can safely share one locator.
type YOLOLocator struct {
	config  YOLOConfig
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewYOLOLocator loads the model and prepares the inference session.
func NewYOLOLocator(config YOLOConfig) (*YOLOLocator, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetInterOpNumThreads(runtime.NumCPU())

	inputShape := ort.NewShape(1, 3, inputWidth, inputHeight)
	outputShape := ort.NewShape(1, 4+numClasses, numAnchors)

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{config.InputName},
		[]string{config.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &YOLOLocator{
		config:  config,
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Close releases the ONNX session and tensors.
func (l *YOLOLocator) Close() {
	if l.session != nil {
		l.session.Destroy()
	}
	if l.input != nil {
		l.input.Destroy()
	}
	if l.output != nil {
		l.output.Destroy()
	}
}

// Detect returns the best car detection above the confidence threshold.
func (l *YOLOLocator) Detect(ctx context.Context, img image.Image) (bool, types.BoundingBox, error) {
	dets, err := l.infer(ctx, img, []int{ClassCar})
	if err != nil {
		return false, types.BoundingBox{}, err
	}
	if len(dets) == 0 {
		return false, types.BoundingBox{}, nil
	}
	return true, dets[0].Box, nil
}

// DetectAll returns every accepted vehicle detection, best first.
func (l *YOLOLocator) DetectAll(ctx context.Context, img image.Image) ([]types.Detection, error) {
	return l.infer(ctx, img, []int{ClassCar, ClassMotorcycle, ClassBus, ClassTruck})
}

func (l *YOLOLocator) infer(ctx context.Context, img image.Image, classes []int) ([]types.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	resized := imaging.Resize(img, inputWidth, inputHeight, imaging.Lanczos)

	// The session reads and writes the same two tensors on every run, so
	// exactly one inference may touch them at a time.
	l.mu.Lock()
	prepareInput(resized, l.input.GetData())
	if err := l.session.Run(); err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("model inference: %w", err)
	}
	out := append([]float32(nil), l.output.GetData()...)
	l.mu.Unlock()

	bounds := img.Bounds()
	dets := decodePredictions(out, bounds.Dx(), bounds.Dy(), classes, l.config.Confidence)
	dets = nonMaxSuppression(dets, l.config.IoUThreshold)
	sortByConfidence(dets)
	return dets, nil
}

// prepareInput writes the resized image into the CHW float32 input tensor,
// normalized to [0,1].
func prepareInput(img *image.NRGBA, data []float32) {
	channelSize := inputWidth * inputHeight
	for y := 0; y < inputHeight; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < inputWidth; x++ {
			i := y*inputWidth + x
			data[i] = float32(row[x*4]) / 255.0
			data[channelSize+i] = float32(row[x*4+1]) / 255.0
			data[2*channelSize+i] = float32(row[x*4+2]) / 255.0
		}
	}
}

// decodePredictions reads the transposed YOLOv8 output (attributes × anchors)
// and keeps candidates of the requested classes above the confidence floor,
// with box coordinates mapped back to source-image pixels.
func decodePredictions(out []float32, imgWidth, imgHeight int, classes []int, minConf float64) []types.Detection {
	scaleX := float32(imgWidth) / float32(inputWidth)
	scaleY := float32(imgHeight) / float32(inputHeight)

	var dets []types.Detection
	for a := 0; a < numAnchors; a++ {
		bestClass := -1
		bestScore := float32(0)
		for _, cls := range classes {
			score := out[(4+cls)*numAnchors+a]
			if score > bestScore {
				bestScore = score
				bestClass = cls
			}
		}
		if bestClass < 0 || float64(bestScore) <= minConf {
			continue
		}

		cx := out[a] * scaleX
		cy := out[numAnchors+a] * scaleY
		w := out[2*numAnchors+a] * scaleX
		h := out[3*numAnchors+a] * scaleY

		box := types.BoundingBox{
			X1: clampInt(int(cx-w/2), 0, imgWidth),
			Y1: clampInt(int(cy-h/2), 0, imgHeight),
			X2: clampInt(int(cx+w/2), 0, imgWidth),
			Y2: clampInt(int(cy+h/2), 0, imgHeight),
		}
		if !box.Valid() {
			continue
		}
		dets = append(dets, types.Detection{Confidence: float64(bestScore), Box: box})
	}
	return dets
}

// nonMaxSuppression drops candidates that heavily overlap a higher-confidence
// one.
func nonMaxSuppression(dets []types.Detection, iouThreshold float64) []types.Detection {
	sortByConfidence(dets)

	var kept []types.Detection
	for _, d := range dets {
		overlap := false
		for _, k := range kept {
			if iou(d.Box, k.Box) > iouThreshold {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, d)
		}
	}
	return kept
}

func iou(a, b types.BoundingBox) float64 {
	x1 := maxInt(a.X1, b.X1)
	y1 := maxInt(a.Y1, b.Y1)
	x2 := minInt(a.X2, b.X2)
	y2 := minInt(a.Y2, b.Y2)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := float64((x2 - x1) * (y2 - y1))
	union := float64(a.Area()+b.Area()) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
