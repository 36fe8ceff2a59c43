/*
PURPOSE:
  Builds the immutable RunConfig for one benchmark invocation from raw
  CLI / defaults-file inputs.

REQUIREMENTS:
  User-specified:
  - Fail on a missing model path, conflicting inputs, unsupported modes.
  - Default the compile backend when only compile options are given, with
    a warning instead of an error.
  - Deduplicate prompt indices, keeping first-seen order.

  Implementation-discovered:
  - The framework tag must be validated before classification; an unknown
    tag previously fell through with stale state.
  - Warnings are returned as diagnostics so the caller owns logging.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/catalog, internal/prompt, internal/config, internal/model

ERROR HANDLING:
  - Every failure is fatal and returned immediately, wrapped around a
    model.Err* kind. No partial RunConfig is returned.
  - No retries.

IMPLEMENTATION RULES:
  - Resolution order: framework, path, flags, identity, prompts,
    engine config, backend checks, compile options, selector, draft model.
  - Options is copied, never retained.

USAGE:
  rc, diags, err := engine.Resolve(opts)

SELF-HEALING INSTRUCTIONS:
  - New option: add to Options and model.RunConfig, copy it in Resolve.

RELATED FILES:
  - internal/model/types.go
  - internal/engine/pipeline.go

MAINTENANCE:
  - Update when the backend gains or loses run modes.
*/

package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/daryltucker/llm-bench/internal/catalog"
	"github.com/daryltucker/llm-bench/internal/config"
	"github.com/daryltucker/llm-bench/internal/model"
	"github.com/daryltucker/llm-bench/internal/prompt"
)

// DefaultCompileBackend is used when compile options come without a backend.
const DefaultCompileBackend = "openvino"

// Options are the raw inputs to Resolve. Zero values mean "not supplied".
type Options struct {
	ModelPath string
	Framework string
	Device    string

	Prompt      *string
	PromptFiles []string
	// PromptIndex nil means all prompts.
	PromptIndex []int

	// LoadConfig and CBConfig are JSON file paths or inline JSON.
	LoadConfig string
	CBConfig   string

	Stateful        bool
	DisableStateful bool
	GenAI           bool
	UseCB           bool

	InferCount int
	BatchSize  int
	NumBeams   int
	Seed       *int

	Images               string
	MemConsumption       int
	FuseDecodingStrategy bool
	SavePreparedModel    string
	ConvertTokenizer     bool
	Subsequent           bool
	OutputDir            string
	EndTokenStopping     bool

	TorchCompile model.TorchCompile

	DraftModel                   string
	DraftDevice                  string
	NumAssistantTokens           int
	AssistantConfidenceThreshold *float64
}

// Resolve validates opts and derives the run configuration. Diagnostics are
// non-fatal events the caller should surface.
func Resolve(opts Options) (*model.RunConfig, []model.Diagnostic, error) {
	var diags []model.Diagnostic

	fw, err := parseFramework(opts.Framework)
	if err != nil {
		return nil, nil, err
	}

	if err := mustExist(opts.ModelPath, "model path"); err != nil {
		return nil, nil, err
	}

	if err := checkScalars(opts); err != nil {
		return nil, nil, err
	}

	stateful, err := resolveStateful(opts.Stateful, opts.DisableStateful)
	if err != nil {
		return nil, nil, err
	}

	identity, err := resolveIdentity(opts.ModelPath, fw)
	if err != nil {
		return nil, nil, err
	}

	prompts, err := prompt.Resolve(prompt.Input{
		Prompt:      opts.Prompt,
		PromptFiles: opts.PromptFiles,
		UseCase:     identity.UseCase,
	})
	if err != nil {
		return nil, nil, err
	}

	engineCfg := model.NewEngineConfig()
	if opts.LoadConfig != "" {
		if engineCfg, err = config.LoadJSON(opts.LoadConfig); err != nil {
			return nil, nil, err
		}
	}
	if fw == model.FrameworkOV {
		// An empty CACHE_DIR disables the backend model cache.
		engineCfg.SetDefault("CACHE_DIR", "")
	}

	if opts.UseCB && !opts.GenAI {
		return nil, nil, fmt.Errorf("%w: continuous batching mode supported only via OpenVINO GenAI", model.ErrConfiguration)
	}
	if opts.GenAI && fw != model.FrameworkOV {
		return nil, nil, fmt.Errorf("%w: GenAI backend requires framework %q, got %q", model.ErrConfiguration, model.FrameworkOV, fw)
	}

	var cbCfg *model.EngineConfig
	if opts.CBConfig != "" {
		if cbCfg, err = config.LoadJSON(opts.CBConfig); err != nil {
			return nil, nil, err
		}
	}

	tc := opts.TorchCompile
	if tc.Backend == "" && (tc.Options != "" || tc.InputModule != "" || tc.Dynamic) {
		tc.Backend = DefaultCompileBackend
		diags = append(diags, model.Diagnostic{
			Field:   "torch_compile_backend",
			Message: fmt.Sprintf("torch.compile configuration options provided, but backend is not selected, %s backend will be used", DefaultCompileBackend),
		})
	}

	index, err := DedupIndices(opts.PromptIndex)
	if err != nil {
		return nil, nil, err
	}

	spec, err := resolveSpeculative(opts)
	if err != nil {
		return nil, nil, err
	}

	device := opts.Device
	if device == "" {
		device = "CPU"
	}

	rc := &model.RunConfig{
		ID:                   uuid.NewString(),
		ModelPath:            opts.ModelPath,
		Framework:            fw,
		Identity:             identity,
		Prompts:              prompts,
		PromptIndex:          index,
		Config:               engineCfg,
		CBConfig:             cbCfg,
		Device:               device,
		BatchSize:            opts.BatchSize,
		NumBeams:             opts.NumBeams,
		InferCount:           opts.InferCount,
		Seed:                 opts.Seed,
		Stateful:             stateful,
		Images:               opts.Images,
		MemConsumption:       opts.MemConsumption,
		FuseDecodingStrategy: opts.FuseDecodingStrategy,
		SavePreparedModel:    opts.SavePreparedModel,
		ConvertTokenizer:     opts.ConvertTokenizer,
		Subsequent:           opts.Subsequent,
		OutputDir:            opts.OutputDir,
		GenAI:                opts.GenAI,
		UseCB:                opts.UseCB,
		EndTokenStopping:     opts.EndTokenStopping,
		TorchCompile:         tc,
		Speculative:          spec,
	}
	return rc, diags, nil
}

func parseFramework(s string) (model.Framework, error) {
	switch fw := model.Framework(s); fw {
	case model.FrameworkOV, model.FrameworkPT:
		return fw, nil
	}
	return "", fmt.Errorf("%w: unknown framework %q (want %q or %q)", model.ErrConfiguration, s, model.FrameworkOV, model.FrameworkPT)
}

func mustExist(path, what string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", model.ErrValidation, what)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: incorrect %s: %s", model.ErrNotFound, what, path)
		}
		return fmt.Errorf("failed to stat %s %s: %w", what, path, err)
	}
	return nil
}

func checkScalars(opts Options) error {
	switch {
	case opts.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", model.ErrValidation, opts.BatchSize)
	case opts.NumBeams < 1:
		return fmt.Errorf("%w: num_beams must be at least 1, got %d", model.ErrValidation, opts.NumBeams)
	case opts.InferCount < 0:
		return fmt.Errorf("%w: infer_count must not be negative, got %d", model.ErrValidation, opts.InferCount)
	}
	return nil
}

func resolveStateful(on, off bool) (*bool, error) {
	switch {
	case on && off:
		return nil, fmt.Errorf("%w: --stateful and --disable-stateful", model.ErrConflict)
	case on || off:
		v := on
		return &v, nil
	}
	return nil, nil
}

func resolveIdentity(path string, fw model.Framework) (model.ModelIdentity, error) {
	uc, name, err := catalog.ClassifyUseCase(path)
	if err != nil {
		return model.ModelIdentity{}, err
	}
	segs := catalog.SplitPath(path)
	return model.ModelIdentity{
		RawPath:            path,
		Segments:           segs,
		UseCase:            uc,
		Name:               name,
		ModelClass:         catalog.ResolveModelType(name, uc, fw),
		Precision:          catalog.MatchPrecision(segs),
		ConversionFrontend: catalog.ConversionFrontend(name, segs),
	}, nil
}

// DedupIndices removes repeated indices keeping first-seen order. nil stays
// nil ("use all").
func DedupIndices(in []int) ([]int, error) {
	if in == nil {
		return nil, nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, i := range in {
		if i < 0 {
			return nil, fmt.Errorf("%w: prompt index must not be negative, got %d", model.ErrValidation, i)
		}
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out, nil
}

func resolveSpeculative(opts Options) (*model.Speculative, error) {
	tuned := opts.NumAssistantTokens != 0 || opts.AssistantConfidenceThreshold != nil
	if opts.NumAssistantTokens != 0 && opts.AssistantConfidenceThreshold != nil {
		return nil, fmt.Errorf("%w: num_assistant_tokens and assistant_confidence_threshold", model.ErrConflict)
	}
	if opts.NumAssistantTokens < 0 {
		return nil, fmt.Errorf("%w: num_assistant_tokens must be positive, got %d", model.ErrValidation, opts.NumAssistantTokens)
	}
	if opts.DraftModel == "" {
		if tuned {
			return nil, fmt.Errorf("%w: speculative decoding parameters require a draft model", model.ErrValidation)
		}
		return nil, nil
	}
	if err := mustExist(opts.DraftModel, "draft model path"); err != nil {
		return nil, err
	}
	return &model.Speculative{
		DraftModelPath:               opts.DraftModel,
		DraftDevice:                  opts.DraftDevice,
		NumAssistantTokens:           opts.NumAssistantTokens,
		AssistantConfidenceThreshold: opts.AssistantConfidenceThreshold,
	}, nil
}
