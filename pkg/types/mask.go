package types

// Mask is a per-pixel binary labeling of an image: 1 marks car pixels,
// 0 marks background. Dimensions always match the source image.
type Mask struct {
	Width  int
	Height int
	pix    []uint8
}

// NewMask allocates an all-background mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		pix:    make([]uint8, width*height),
	}
}

// MaskFromBox builds the degenerate mask used when no segmentation is
// available: 1 inside the bounding box, 0 outside.
func MaskFromBox(width, height int, box BoundingBox) *Mask {
	m := NewMask(width, height)
	m.FillBox(box, 1)
	return m
}

// At returns the label at (x, y). Out-of-range coordinates read as background.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.pix[y*m.Width+x]
}

// Set writes the label at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.pix[y*m.Width+x] = v
}

// FillBox sets every pixel inside the box (clipped to the mask) to v.
func (m *Mask) FillBox(box BoundingBox, v uint8) {
	x1, y1, x2, y2 := box.X1, box.Y1, box.X2, box.Y2
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > m.Width {
		x2 = m.Width
	}
	if y2 > m.Height {
		y2 = m.Height
	}
	for y := y1; y < y2; y++ {
		row := m.pix[y*m.Width : y*m.Width+m.Width]
		for x := x1; x < x2; x++ {
			row[x] = v
		}
	}
}

// Area returns the number of car pixels.
func (m *Mask) Area() int {
	n := 0
	for _, v := range m.pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Ratio returns the fraction of all pixels labeled as car.
func (m *Mask) Ratio() float64 {
	total := m.Width * m.Height
	if total == 0 {
		return 0
	}
	return float64(m.Area()) / float64(total)
}
