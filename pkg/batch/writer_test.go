package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carvida/photocheck/pkg/types"
)

func sampleReport() *types.Report {
	report := types.NewReport("run")
	report.Add("car.jpg", types.ValidationResult{Result: types.ResultYes})
	report.Add("van.jpg", types.ValidationResult{
		Result:         types.ResultNo,
		FailureReasons: []string{"Car does not appear to be facing left"},
	})
	return report
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeSimple.Valid())
	assert.True(t, ModeDetailed.Valid())
	assert.False(t, Mode("verbose").Valid())
}

func TestWriteReportSimple(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteReport(sampleReport(), ModeSimple, dir)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "validation_results_simple_"), "got %s", name)
	assert.True(t, strings.HasSuffix(name, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var simple map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &simple))
	assert.Equal(t, "Yes", simple["car"]["result"])
	assert.Equal(t, "No", simple["van"]["result"])
}

func TestWriteReportDetailed(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteReport(sampleReport(), ModeDetailed, dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "validation_results_detailed_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var detailed map[string]types.ValidationResult
	require.NoError(t, json.Unmarshal(data, &detailed))
	require.Contains(t, detailed, "van.jpg")
	assert.Equal(t, []string{"Car does not appear to be facing left"}, detailed["van.jpg"].FailureReasons)
}

func TestWriteReportCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := WriteReport(sampleReport(), ModeDetailed, dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
