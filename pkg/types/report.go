package types

import (
	"encoding/json"
	"sort"
	"strings"
)

// Report is the outcome of a batch run: one ValidationResult per image file,
// keyed by filename. Keys are kept sorted so reports are deterministic
// regardless of processing order.
type Report struct {
	RunID   string
	results map[string]ValidationResult
}

// NewReport creates an empty batch report.
func NewReport(runID string) *Report {
	return &Report{
		RunID:   runID,
		results: make(map[string]ValidationResult),
	}
}

// Add records the result for one image file.
func (r *Report) Add(filename string, result ValidationResult) {
	r.results[filename] = result
}

// Get returns the result for a filename.
func (r *Report) Get(filename string) (ValidationResult, bool) {
	res, ok := r.results[filename]
	return res, ok
}

// Len returns the number of recorded results.
func (r *Report) Len() int {
	return len(r.results)
}

// Filenames returns all recorded filenames in sorted order.
func (r *Report) Filenames() []string {
	names := make([]string, 0, len(r.results))
	for name := range r.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary holds aggregate verdict counts for a batch run.
type Summary struct {
	Total  int
	Passed int
	Failed int
	Errors int
}

// Summarize counts verdicts across the report.
func (r *Report) Summarize() Summary {
	s := Summary{Total: len(r.results)}
	for _, res := range r.results {
		switch res.Result {
		case ResultYes:
			s.Passed++
		case ResultNo:
			s.Failed++
		default:
			s.Errors++
		}
	}
	return s
}

// MarshalDetailed serializes the full report keyed by original filename.
func (r *Report) MarshalDetailed() ([]byte, error) {
	return json.MarshalIndent(r.results, "", "  ")
}

// MarshalSimple serializes the simple projection: the verdict only, keyed by
// filename without extension. The projection happens here, at the
// presentation boundary; recorded results always keep full detail.
func (r *Report) MarshalSimple() ([]byte, error) {
	simple := make(map[string]map[string]string, len(r.results))
	for name, res := range r.results {
		simple[StripExtension(name)] = map[string]string{"result": res.Result}
	}
	return json.MarshalIndent(simple, "", "  ")
}

// StripExtension removes the trailing file extension from an image filename.
func StripExtension(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}
