package config

import (
	"fmt"
	"os"

	"github.com/daryltucker/llm-bench/internal/model"
)

// LoadJSON parses an engine config. src is either a path to an existing file
// or the JSON text itself. On failure nothing is returned.
func LoadJSON(src string) (*model.EngineConfig, error) {
	if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", src, err)
		}
		cfg, err := model.ParseEngineConfig(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parse file %s failure, json format is incorrect: %v", model.ErrFormat, src, err)
		}
		return cfg, nil
	}

	cfg, err := model.ParseEngineConfig([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parse config %s failure, json format is incorrect: %v", model.ErrFormat, src, err)
	}
	return cfg, nil
}
