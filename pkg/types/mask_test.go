package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskFromBox(t *testing.T) {
	box := BoundingBox{X1: 2, Y1: 2, X2: 6, Y2: 4}
	mask := MaskFromBox(10, 10, box)

	assert.Equal(t, 8, mask.Area())
	assert.InDelta(t, 0.08, mask.Ratio(), 1e-9)
	assert.EqualValues(t, 1, mask.At(3, 3))
	assert.EqualValues(t, 0, mask.At(6, 3), "x2 is exclusive")
	assert.EqualValues(t, 0, mask.At(0, 0))
}

func TestMaskFillBoxClipsToBounds(t *testing.T) {
	mask := NewMask(5, 5)
	mask.FillBox(BoundingBox{X1: -3, Y1: -3, X2: 3, Y2: 3}, 1)

	assert.Equal(t, 9, mask.Area())
	assert.EqualValues(t, 1, mask.At(0, 0))
	assert.EqualValues(t, 0, mask.At(3, 3))
}

func TestMaskOutOfRangeAccess(t *testing.T) {
	mask := NewMask(4, 4)
	mask.Set(10, 10, 1)
	mask.Set(-1, 0, 1)

	assert.Equal(t, 0, mask.Area())
	assert.EqualValues(t, 0, mask.At(10, 10))
	assert.EqualValues(t, 0, mask.At(-1, -1))
}

func TestMaskClearRegion(t *testing.T) {
	mask := MaskFromBox(10, 10, BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10})
	mask.FillBox(BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 5}, 0)

	assert.Equal(t, 50, mask.Area())
	assert.InDelta(t, 0.5, mask.Ratio(), 1e-9)
}

func TestMaskRatioEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NewMask(0, 0).Ratio())
}
