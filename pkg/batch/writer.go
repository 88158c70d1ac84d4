package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carvida/photocheck/internal/utils"
	"github.com/carvida/photocheck/pkg/types"
)

// Mode selects the output projection for a batch report.
type Mode string

// Output modes. Simple keeps only the verdict per image; detailed writes the
// full result records.
const (
	ModeSimple   Mode = "simple"
	ModeDetailed Mode = "detailed"
)

// Valid reports whether the mode is a known projection.
func (m Mode) Valid() bool {
	return m == ModeSimple || m == ModeDetailed
}

// WriteReport serializes the report into a timestamped JSON file inside
// outDir and returns the file path.
func WriteReport(report *types.Report, mode Mode, outDir string) (string, error) {
	if err := utils.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var data []byte
	var err error
	switch mode {
	case ModeSimple:
		data, err = report.MarshalSimple()
	default:
		data, err = report.MarshalDetailed()
	}
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	name := fmt.Sprintf("validation_results_%s_%s.json", mode, time.Now().Format("20060102_150405"))
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
