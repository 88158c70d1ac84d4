// Package processing handles image loading and conversion for the validation
// pipelines: decoding listing photos (including WebP), preparing base64
// payloads for vision models, and drawing review overlays.
package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/carvida/photocheck/pkg/types"
)

// Processor handles image decode and encode operations.
type Processor struct{}

// NewProcessor creates a new image processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	} else {
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// DecodeBytes decodes an image from raw bytes with WebP support.
func (p *Processor) DecodeBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// PrepareImageForModel converts an image to base64 for sending to vision
// models, optionally downscaling the long side to maxDim first.
func (p *Processor) PrepareImageForModel(img image.Image, format string, maxDim, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// MimeTypeForPath returns the transport MIME type for an image file,
// defaulting to JPEG.
func MimeTypeForPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(ext(path), ".")) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func ext(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

// SaveImage saves an image with the format implied by quality settings.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// SaveAnnotated writes a review copy of img into dir with the detection box
// drawn, named after the source file. It returns the written path.
func (p *Processor) SaveAnnotated(img image.Image, box types.BoundingBox, src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, types.StripExtension(filepath.Base(src))+"_annotated.jpg")
	if err := p.SaveImage(p.AnnotateDetection(img, box), out, "jpg", 90, false); err != nil {
		return "", err
	}
	return out, nil
}

// AnnotateDetection draws the detected box onto a copy of the image for
// manual review of rejected listings.
func (p *Processor) AnnotateDetection(img image.Image, box types.BoundingBox) image.Image {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	stroke := maxInt(2, minInt(w, h)/250)
	green := [4]uint8{0, 255, 0, 255}
	for s := 0; s < stroke; s++ {
		drawHLine(nrgba, box.Y1+s, box.X1, box.X2, green)
		drawHLine(nrgba, box.Y2-1-s, box.X1, box.X2, green)
		drawVLine(nrgba, box.X1+s, box.Y1, box.Y2, green)
		drawVLine(nrgba, box.X2-1-s, box.Y1, box.Y2, green)
	}
	return nrgba
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c [4]uint8) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		copy(img.Pix[i:i+4], c[:])
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c [4]uint8) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		copy(img.Pix[i:i+4], c[:])
		i += img.Stride
	}
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
