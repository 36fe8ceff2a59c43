/*
PURPOSE:
  The narrow capability llm-bench consumes from the external inference
  engine, and the preparation of arguments for its generate call.

REQUIREMENTS:
  User-specified:
  - load(model_dir, device, config) -> Pipeline
  - Pipeline.generate(prompt, generation_config) -> result

  Implementation-discovered:
  - Batching replicates the prompt batch_size times in one call.
  - Image prompts forward only the overrides present in the prompt file.

ARCHITECTURE INTEGRATION:
  - Implemented by: engine bindings outside this module (and test fakes).
  - Used by: internal/engine/runner.go

ERROR HANDLING:
  - Implementations return errors; the runner records generate errors per
    result and aborts on load errors.

IMPLEMENTATION RULES:
  - Blocking calls take a context.Context.

USAGE:
  reqs := engine.Requests(rc)

SELF-HEALING INSTRUCTIONS:
  - New generation options go in GenerateRequest and Requests().

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Update when the engine exposes new generate options.
*/

package engine

import (
	"context"

	"github.com/daryltucker/llm-bench/internal/model"
)

// LoadConfig is everything besides path and device that constructing a
// pipeline needs.
type LoadConfig struct {
	Config      *model.EngineConfig
	CBConfig    *model.EngineConfig
	Stateful    *bool
	GenAI       bool
	UseCB       bool
	Speculative *model.Speculative
}

// Loader constructs pipelines.
type Loader interface {
	Load(ctx context.Context, modelDir, device string, cfg LoadConfig) (Pipeline, error)
}

// Pipeline runs generation on a loaded model.
type Pipeline interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// GenerateRequest is one generate call.
type GenerateRequest struct {
	PromptIndex int
	// Prompts holds the prompt repeated once per batch slot.
	Prompts []string

	NumBeams         int
	Seed             *int
	EndTokenStopping bool

	Width         *int
	Height        *int
	Steps         *int
	GuidanceScale *float64

	NumAssistantTokens           int
	AssistantConfidenceThreshold *float64
}

// GenerateResult is what the pipeline reports back.
type GenerateResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// LoadConfigFor extracts the pipeline construction arguments from rc.
func LoadConfigFor(rc *model.RunConfig) LoadConfig {
	return LoadConfig{
		Config:      rc.Config,
		CBConfig:    rc.CBConfig,
		Stateful:    rc.Stateful,
		GenAI:       rc.GenAI,
		UseCB:       rc.UseCB,
		Speculative: rc.Speculative,
	}
}

// Requests builds the generate calls for the prompts rc selects, in order.
func Requests(rc *model.RunConfig) []GenerateRequest {
	idx, prompts := rc.SelectedPrompts()
	reqs := make([]GenerateRequest, 0, len(prompts))
	for i, p := range prompts {
		batch := make([]string, rc.BatchSize)
		for j := range batch {
			batch[j] = p.Text
		}
		req := GenerateRequest{
			PromptIndex:      idx[i],
			Prompts:          batch,
			NumBeams:         rc.NumBeams,
			Seed:             rc.Seed,
			EndTokenStopping: rc.EndTokenStopping,
			Width:            p.Width,
			Height:           p.Height,
			Steps:            p.Steps,
			GuidanceScale:    p.GuidanceScale,
		}
		if s := rc.Speculative; s != nil {
			req.NumAssistantTokens = s.NumAssistantTokens
			req.AssistantConfidenceThreshold = s.AssistantConfidenceThreshold
		}
		reqs = append(reqs, req)
	}
	return reqs
}
