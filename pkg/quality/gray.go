package quality

import (
	"image"
	"math"
)

// plane is a dense grayscale copy of an image, kept as float64 so the
// statistics below avoid repeated color-model conversions.
type plane struct {
	w, h int
	pix  []float64
}

func grayPlane(img image.Image) *plane {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := &plane{w: w, h: h, pix: make([]float64, w*h)}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, scaled from 16-bit channels to 0-255.
			p.pix[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}
	return p
}

func (p *plane) mean() float64 {
	if len(p.pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range p.pix {
		sum += v
	}
	return sum / float64(len(p.pix))
}

func (p *plane) stddev() float64 {
	if len(p.pix) == 0 {
		return 0
	}
	m := p.mean()
	sum := 0.0
	for _, v := range p.pix {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(p.pix)))
}

// laplacianVariance measures sharpness as the variance of the discrete
// 4-neighbor Laplacian over interior pixels. Blurred photos score low because
// second derivatives flatten out.
func (p *plane) laplacianVariance() float64 {
	if p.w < 3 || p.h < 3 {
		return 0
	}

	n := (p.w - 2) * (p.h - 2)
	lap := make([]float64, 0, n)
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			c := p.pix[y*p.w+x]
			v := p.pix[(y-1)*p.w+x] + p.pix[(y+1)*p.w+x] +
				p.pix[y*p.w+x-1] + p.pix[y*p.w+x+1] - 4*c
			lap = append(lap, v)
		}
	}

	mean := 0.0
	for _, v := range lap {
		mean += v
	}
	mean /= float64(len(lap))

	variance := 0.0
	for _, v := range lap {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(lap))
}
