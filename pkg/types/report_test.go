package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReport() *Report {
	report := NewReport("test-run")
	report.Add("b.jpg", ValidationResult{Result: ResultNo, FailureReasons: []string{"Background is not sufficiently white"}})
	report.Add("a.jpg", ValidationResult{Result: ResultYes})
	report.Add("c.jpg", NewErrorResult("c.jpg", "File not found"))
	return report
}

func TestReportFilenamesSorted(t *testing.T) {
	report := buildReport()
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, report.Filenames())
	assert.Equal(t, 3, report.Len())
}

func TestReportSummarize(t *testing.T) {
	summary := buildReport().Summarize()

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Errors)
}

func TestReportMarshalSimple(t *testing.T) {
	data, err := buildReport().MarshalSimple()
	require.NoError(t, err)

	var simple map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &simple))

	assert.Equal(t, "Yes", simple["a"]["result"])
	assert.Equal(t, "No", simple["b"]["result"])
	assert.Equal(t, "Error", simple["c"]["result"])
	_, hasExt := simple["a.jpg"]
	assert.False(t, hasExt, "simple projection keys drop the extension")
}

func TestReportMarshalDetailed(t *testing.T) {
	data, err := buildReport().MarshalDetailed()
	require.NoError(t, err)

	var detailed map[string]ValidationResult
	require.NoError(t, json.Unmarshal(data, &detailed))

	require.Contains(t, detailed, "b.jpg")
	assert.Equal(t, ResultNo, detailed["b.jpg"].Result)
	assert.Equal(t, []string{"Background is not sufficiently white"}, detailed["b.jpg"].FailureReasons)
}

func TestReportOverwriteSameFilename(t *testing.T) {
	report := NewReport("run")
	report.Add("x.jpg", ValidationResult{Result: ResultNo})
	report.Add("x.jpg", ValidationResult{Result: ResultYes})

	assert.Equal(t, 1, report.Len())
	result, ok := report.Get("x.jpg")
	require.True(t, ok)
	assert.Equal(t, ResultYes, result.Result)
}
