package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvida/photocheck/pkg/types"
)

func allPass() types.CriterionSet {
	return types.CriterionSet{
		ContainsCar:        true,
		SideView:           true,
		WhiteBackground:    true,
		ProperSize:         true,
		CorrectOrientation: true,
	}
}

func TestAggregateAllPass(t *testing.T) {
	result, reasons := Aggregate(allPass(), BoxWording())
	assert.Equal(t, types.ResultYes, result)
	assert.Empty(t, reasons)
}

func TestAggregateNoCarShortCircuits(t *testing.T) {
	// Other flags are irrelevant once the car is missing.
	c := allPass()
	c.ContainsCar = false

	result, reasons := Aggregate(c, BoxWording())
	assert.Equal(t, types.ResultNo, result)
	assert.Equal(t, []string{"No car detected in image"}, reasons)
}

func TestAggregateSingleFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.CriterionSet)
		reason string
	}{
		{"size", func(c *types.CriterionSet) { c.ProperSize = false }, "Car does not occupy sufficient portion of image (< 1/4)"},
		{"background", func(c *types.CriterionSet) { c.WhiteBackground = false }, "Background is not sufficiently white"},
		{"side view", func(c *types.CriterionSet) { c.SideView = false }, "Car does not appear to be in side view (width/height ratio)"},
		{"facing", func(c *types.CriterionSet) { c.CorrectOrientation = false }, "Car does not appear to be facing left"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := allPass()
			test.mutate(&c)
			result, reasons := Aggregate(c, BoxWording())
			assert.Equal(t, types.ResultNo, result)
			assert.Equal(t, []string{test.reason}, reasons)
		})
	}
}

func TestAggregateReasonOrder(t *testing.T) {
	// All four criteria fail: reasons come in the fixed order regardless of
	// evaluation order.
	c := types.CriterionSet{ContainsCar: true}

	_, reasons := Aggregate(c, BoxWording())
	assert.Equal(t, []string{
		"Car does not occupy sufficient portion of image (< 1/4)",
		"Background is not sufficiently white",
		"Car does not appear to be in side view (width/height ratio)",
		"Car does not appear to be facing left",
	}, reasons)
}

func TestMaskWordingDiffers(t *testing.T) {
	c := allPass()
	c.ProperSize = false
	c.SideView = false

	_, reasons := Aggregate(c, MaskWording())
	assert.Equal(t, []string{
		"Car does not occupy sufficient portion of image (< 20%)",
		"Car does not appear to be in side view",
	}, reasons)
}

func TestBuildAttachesCriteria(t *testing.T) {
	result := Build(allPass(), BoxWording(), "yolo + heuristics", "car.jpg")

	assert.Equal(t, types.ResultYes, result.Result)
	require.NotNil(t, result.Criteria)
	assert.True(t, result.Criteria.AllPass())
	assert.Equal(t, "yolo + heuristics", result.ModelUsed)
	assert.Equal(t, "car.jpg", result.ImagePath)
	assert.NotEmpty(t, result.Timestamp)
}

func TestBuildNoCar(t *testing.T) {
	result := BuildNoCar(MaskWording(), "yolo + segmenter + classifier", "empty.jpg")

	assert.Equal(t, types.ResultNo, result.Result)
	require.NotNil(t, result.Criteria)
	assert.Equal(t, types.CriterionSet{}, *result.Criteria)
	assert.Equal(t, []string{"No car detected in image"}, result.FailureReasons)
}
