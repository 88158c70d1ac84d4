package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/carvida/photocheck"
	"github.com/carvida/photocheck/internal/config"
	"github.com/carvida/photocheck/internal/utils"
	"github.com/carvida/photocheck/pkg/batch"
	"github.com/carvida/photocheck/pkg/client"
	"github.com/carvida/photocheck/pkg/detect"
	"github.com/carvida/photocheck/pkg/llamacpp"
	"github.com/carvida/photocheck/pkg/ollama"
	"github.com/carvida/photocheck/pkg/processing"
	"github.com/carvida/photocheck/pkg/server"
	"github.com/carvida/photocheck/pkg/types"
)

func main() {
	var in, mode, variant, backend, url, model, modelPath, outDir, configFile, serveAddr, debugOut string
	var workers int
	var verbose bool

	flag.StringVar(&in, "in", "", "input image file or directory")
	flag.StringVar(&mode, "mode", "detailed", "output mode: simple|detailed")
	flag.StringVar(&variant, "pipeline", "", "validation path: box|mask|vision (default from config)")
	flag.StringVar(&backend, "backend", "", "vision backend: ollama|llamacpp (default from config)")
	flag.StringVar(&url, "url", "", "vision backend server URL")
	flag.StringVar(&model, "model", "", "vision model name")
	flag.StringVar(&modelPath, "modelpath", "", "path to the YOLO ONNX model")
	flag.StringVar(&outDir, "out", "", "directory for batch result files")
	flag.StringVar(&configFile, "config", "", "config file path (JSON)")
	flag.StringVar(&serveAddr, "serve", "", "run as an HTTP service on this address instead of validating a path")
	flag.StringVar(&debugOut, "debug-out", "", "directory for annotated copies of rejected images")
	flag.IntVar(&workers, "workers", 0, "worker pool size for directory runs")
	flag.BoolVar(&verbose, "v", false, "debug logging")

	flag.Parse()

	cfg := loadConfig(configFile)
	cfg.ApplyEnv()
	applyFlags(cfg, variant, backend, url, model, modelPath, outDir, workers)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	batchMode := batch.Mode(mode)
	if !batchMode.Valid() {
		log.Fatalf("unknown mode %q (use simple or detailed)", mode)
	}

	logger := newLogger(verbose)
	defer logger.Sync()

	validator, locator, cleanup, err := buildValidator(cfg, logger)
	if err != nil {
		log.Fatalf("failed to build %s pipeline: %v", cfg.Pipeline.Variant, err)
	}
	defer cleanup()

	var annotator *rejectAnnotator
	if debugOut != "" {
		if locator == nil {
			log.Printf("-debug-out needs a detector pipeline, ignoring it for %s", cfg.Pipeline.Variant)
		} else {
			annotator = &rejectAnnotator{
				locator:   locator,
				processor: processing.NewProcessor(),
				outDir:    debugOut,
				logger:    logger,
			}
		}
	}

	if serveAddr != "" {
		srv := server.New(validator, logger)
		if err := srv.ListenAndServe(serveAddr); err != nil {
			log.Fatal(err)
		}
		return
	}

	if in == "" {
		log.Fatalf("usage: %s -in image-or-directory [-pipeline box|mask|vision] [-mode simple|detailed]", filepath.Base(os.Args[0]))
	}

	ctx := context.Background()
	switch {
	case utils.FileExists(in):
		runSingle(ctx, validator, in, batchMode, annotator)
	case utils.DirExists(in):
		runBatch(ctx, validator, in, batchMode, cfg.Batch.OutputDir, annotator)
	default:
		fmt.Fprintf(os.Stderr, "Error: Path not found: %s\n", in)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func applyFlags(cfg *config.Config, variant, backend, url, model, modelPath, outDir string, workers int) {
	if variant != "" {
		cfg.Pipeline.Variant = variant
	}
	if backend != "" {
		cfg.Vision.Backend = backend
	}
	if url != "" {
		cfg.Vision.URL = url
	}
	if model != "" {
		cfg.Vision.Model = model
	}
	if modelPath != "" {
		cfg.Pipeline.ModelPath = modelPath
	}
	if outDir != "" {
		cfg.Batch.OutputDir = outDir
	}
	if workers > 0 {
		cfg.Batch.Workers = workers
	}
}

func newLogger(verbose bool) *zap.Logger {
	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.TimeKey = "timestamp"
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

// buildValidator wires the configured validation path. The returned locator
// is nil for the vision path; the cleanup function releases detector
// resources.
func buildValidator(cfg *config.Config, logger *zap.Logger) (*photocheck.Validator, detect.Locator, func(), error) {
	cleanup := func() {}

	switch cfg.Pipeline.Variant {
	case "vision":
		vc, err := newVisionClient(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		v := photocheck.NewVisionValidator(vc, cfg.Vision.Model, logger)
		v.SetWorkers(cfg.Batch.Workers)
		return v, nil, cleanup, nil

	default:
		locator, err := detect.NewYOLOLocator(detect.DefaultYOLOConfig(cfg.Pipeline.ModelPath))
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup = locator.Close

		var v *photocheck.Validator
		if cfg.Pipeline.Variant == "mask" {
			v = photocheck.NewMaskValidator(locator, logger)
		} else {
			v = photocheck.NewBoxValidator(locator, logger)
		}
		v.SetWorkers(cfg.Batch.Workers)
		return v, locator, cleanup, nil
	}
}

// rejectAnnotator saves copies of rejected images with the detection drawn,
// for manual review of what the detector actually saw.
type rejectAnnotator struct {
	locator   detect.Locator
	processor *processing.Processor
	outDir    string
	logger    *zap.Logger
}

func (a *rejectAnnotator) annotate(ctx context.Context, path string) {
	img, err := a.processor.LoadImage(path)
	if err != nil {
		a.logger.Warn("annotate: load failed", zap.String("image", path), zap.Error(err))
		return
	}
	found, box, err := a.locator.Detect(ctx, img)
	if err != nil || !found {
		return
	}
	out, err := a.processor.SaveAnnotated(img, box, path, a.outDir)
	if err != nil {
		a.logger.Warn("annotate: save failed", zap.String("image", path), zap.Error(err))
		return
	}
	fmt.Printf("Annotated copy saved to: %s\n", out)
}

func newVisionClient(cfg *config.Config) (client.VisionClient, error) {
	switch cfg.Vision.Backend {
	case "llamacpp":
		return llamacpp.NewClient(cfg.Vision.URL)
	default:
		return ollama.NewClient(cfg.Vision.URL)
	}
}

func runSingle(ctx context.Context, v *photocheck.Validator, path string, mode batch.Mode, annotator *rejectAnnotator) {
	result := v.ValidateFile(ctx, path)
	if annotator != nil && result.Result == types.ResultNo {
		annotator.annotate(ctx, path)
	}

	if mode == batch.ModeSimple {
		fmt.Printf("%q\n", result.Result)
		return
	}

	js, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}
	fmt.Println(string(js))

	if result.Result == types.ResultNo && len(result.FailureReasons) > 0 {
		fmt.Println("\nFailure reasons:")
		for _, reason := range result.FailureReasons {
			fmt.Printf("  - %s\n", reason)
		}
	}
}

func runBatch(ctx context.Context, v *photocheck.Validator, dir string, mode batch.Mode, outDir string, annotator *rejectAnnotator) {
	report, err := v.ValidateDirectory(ctx, dir)
	if err != nil {
		log.Fatalf("batch run failed: %v", err)
	}

	if annotator != nil {
		for _, name := range report.Filenames() {
			if result, ok := report.Get(name); ok && result.Result == types.ResultNo {
				annotator.annotate(ctx, filepath.Join(dir, name))
			}
		}
	}

	outFile, err := batch.WriteReport(report, mode, outDir)
	if err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	summary := report.Summarize()
	fmt.Printf("\nResults saved to: %s\n", outFile)
	fmt.Println("\nSummary:")
	fmt.Printf("  Total images: %d\n", summary.Total)
	fmt.Printf("  Passed: %d\n", summary.Passed)
	fmt.Printf("  Failed: %d\n", summary.Failed)
	fmt.Printf("  Errors: %d\n", summary.Errors)
}
