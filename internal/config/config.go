/*
PURPOSE:
  Defines the defaults file structure and loading logic for llm-bench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow run parameters (framework, device, iterations, prompt files,
    engine configs) to be kept in a file instead of repeated on every run.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Explicit CLI flags override file values; file values override defaults.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if an explicitly named file is missing or invalid.
  - Missing default files fall back to built-in defaults.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (e.g., 1 iteration, CPU).

USAGE:
  cfg, err := config.Load("llm_bench.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/resolve.go
  - internal/config/json.go

MAINTENANCE:
  - Update when adding new run parameters.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFiles are searched in order when no --config is given.
var DefaultFiles = []string{"llm_bench.yaml", "llm_bench.yml"}

// Config represents the defaults file.
type Config struct {
	Framework  string   `yaml:"framework"`
	Device     string   `yaml:"device"`
	InferCount int      `yaml:"infer_count"`
	BatchSize  int      `yaml:"batch_size"`
	NumBeams   int      `yaml:"num_beams"`
	Seed       *int     `yaml:"seed"`
	OutputDir  string   `yaml:"output_dir"`
	GenAI      bool     `yaml:"genai"`
	PromptFile []string `yaml:"prompt_file"`
	// LoadConfig and CBConfig are JSON file paths or inline JSON strings.
	LoadConfig string `yaml:"load_config"`
	CBConfig   string `yaml:"cb_config"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Framework:  "ov",
		Device:     "CPU",
		InferCount: 1,
		BatchSize:  1,
		NumBeams:   1,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
