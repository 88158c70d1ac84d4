package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Pipeline PipelineConfig `json:"pipeline"`
	Vision   VisionConfig   `json:"vision"`
	Batch    BatchConfig    `json:"batch"`
}

// PipelineConfig selects the validation path and its detector model
type PipelineConfig struct {
	Variant   string `json:"variant"` // box, mask, or vision
	ModelPath string `json:"model_path"`
}

// VisionConfig holds settings for the vision-model backend
type VisionConfig struct {
	Backend     string `json:"backend"` // ollama or llamacpp
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// BatchConfig holds settings for directory runs
type BatchConfig struct {
	Workers   int    `json:"workers"`
	OutputDir string `json:"output_dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Variant:   "box",
			ModelPath: "models/yolov8n.onnx",
		},
		Vision: VisionConfig{
			Backend:     "ollama",
			URL:         "http://localhost:11434",
			Model:       "llava:13b",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Batch: BatchConfig{
			Workers:   4,
			OutputDir: ".",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the configuration. A .env
// file next to the binary is honored when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("PHOTOCHECK_PIPELINE"); v != "" {
		c.Pipeline.Variant = v
	}
	if v := os.Getenv("PHOTOCHECK_MODEL_PATH"); v != "" {
		c.Pipeline.ModelPath = v
	}
	if v := os.Getenv("PHOTOCHECK_VISION_BACKEND"); v != "" {
		c.Vision.Backend = v
	}
	if v := os.Getenv("PHOTOCHECK_VISION_URL"); v != "" {
		c.Vision.URL = v
	}
	if v := os.Getenv("PHOTOCHECK_VISION_MODEL"); v != "" {
		c.Vision.Model = v
	}
	if v := os.Getenv("PHOTOCHECK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Batch.Workers = n
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Pipeline.Variant {
	case "box", "mask", "vision":
	default:
		return fmt.Errorf("pipeline.variant must be box, mask, or vision")
	}

	switch c.Vision.Backend {
	case "ollama", "llamacpp":
	default:
		return fmt.Errorf("vision.backend must be ollama or llamacpp")
	}

	if c.Vision.SendQuality < 1 || c.Vision.SendQuality > 100 {
		return fmt.Errorf("vision.send_quality must be between 1 and 100")
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be positive")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "photocheck", "config.json")
}
