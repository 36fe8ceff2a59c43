/*
PURPOSE:
  Defines the core data structures shared across llm-bench.
  These models describe a resolved benchmark run and its results.

REQUIREMENTS:
  User-specified:
  - One explicit, typed run configuration instead of a free-form argument map.
  - Track model identity (use case, canonical name, class, precision).
  - Record per-generation timing for the benchmark driver.

  Implementation-discovered:
  - Image prompts carry optional numeric overrides that must stay absent
    (not zero) when the prompt file omits them, hence pointer fields.
  - JSON tags are needed for `resolve --format json` and JSONL results.

ARCHITECTURE INTEGRATION:
  - Used by: internal/catalog, internal/prompt, internal/config,
    internal/engine, internal/output, internal/cli
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs). Error kinds live in errors.go.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Values are built once by engine.Resolve and must not be mutated afterwards.

USAGE:
  rc, diags, err := engine.Resolve(opts)
  fmt.Println(rc.Identity.UseCase)

SELF-HEALING INSTRUCTIONS:
  - If a new CLI option is added, add a typed field to RunConfig and
    engine.Options, and copy it in engine.Resolve.

RELATED FILES:
  - internal/model/errors.go
  - internal/model/engine_config.go
  - internal/engine/resolve.go

MAINTENANCE:
  - Update when adding new run parameters or result metrics.
*/

package model

import (
	"time"
)

// UseCase is the broad benchmark category a model belongs to.
type UseCase string

const (
	UseCaseTextGen         UseCase = "text_gen"
	UseCaseCodeGen         UseCase = "code_gen"
	UseCaseTextToImage     UseCase = "text_to_image"
	UseCaseSpeechToText    UseCase = "speech_to_text"
	UseCaseImageCls        UseCase = "image_cls"
	UseCaseSuperResolution UseCase = "ldm_super_resolution"
)

// IsImage reports whether prompts for this use case are image-generation
// records. Super resolution takes input images, not prompts.
func (u UseCase) IsImage() bool {
	return u == UseCaseTextToImage
}

// Framework selects the inference backend family.
type Framework string

const (
	FrameworkOV Framework = "ov"
	FrameworkPT Framework = "pt"
)

// UnknownPrecision is reported when no path segment names a known precision.
const UnknownPrecision = "unknown"

// ModelIdentity is everything derived from the model path.
type ModelIdentity struct {
	RawPath            string   `json:"raw_path"`
	Segments           []string `json:"segments"`
	UseCase            UseCase  `json:"use_case"`
	Name               string   `json:"name"`
	ModelClass         string   `json:"model_class"`
	Precision          string   `json:"precision"`
	ConversionFrontend string   `json:"conversion_frontend,omitempty"`
}

// Prompt is one prompt record. Text prompts only carry Text; image prompts may
// carry any subset of the optional generation overrides.
type Prompt struct {
	Text          string   `json:"prompt"`
	Width         *int     `json:"width,omitempty"`
	Height        *int     `json:"height,omitempty"`
	Steps         *int     `json:"steps,omitempty"`
	GuidanceScale *float64 `json:"guidance_scale,omitempty"`
}

// PromptSet is an ordered list of prompts. Order matches input order.
type PromptSet []Prompt

// Texts returns the prompt strings in order.
func (ps PromptSet) Texts() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text
	}
	return out
}

// TorchCompile holds the torch.compile tuning options for the pt framework.
type TorchCompile struct {
	Backend     string `json:"backend,omitempty"`
	Dynamic     bool   `json:"dynamic,omitempty"`
	Options     string `json:"options,omitempty"`
	InputModule string `json:"input_module,omitempty"`
}

// Speculative describes an optional draft model used for speculative decoding.
type Speculative struct {
	DraftModelPath string `json:"draft_model_path"`
	DraftDevice    string `json:"draft_device,omitempty"`
	// Exactly one of the two below may be set.
	NumAssistantTokens           int      `json:"num_assistant_tokens,omitempty"`
	AssistantConfidenceThreshold *float64 `json:"assistant_confidence_threshold,omitempty"`
}

// RunConfig is the fully resolved description of one benchmark invocation.
type RunConfig struct {
	ID        string        `json:"id"`
	ModelPath string        `json:"model_path"`
	Framework Framework     `json:"framework"`
	Identity  ModelIdentity `json:"identity"`
	Prompts   PromptSet     `json:"prompts"`
	// PromptIndex selects prompts by index; nil means all of them.
	PromptIndex []int         `json:"prompt_index"`
	Config      *EngineConfig `json:"config"`
	CBConfig    *EngineConfig `json:"cb_config,omitempty"`

	Device               string       `json:"device"`
	BatchSize            int          `json:"batch_size"`
	NumBeams             int          `json:"num_beams"`
	InferCount           int          `json:"infer_count"`
	Seed                 *int         `json:"seed,omitempty"`
	Stateful             *bool        `json:"stateful,omitempty"`
	Images               string       `json:"images,omitempty"`
	MemConsumption       int          `json:"mem_consumption,omitempty"`
	FuseDecodingStrategy bool         `json:"fuse_decoding_strategy,omitempty"`
	SavePreparedModel    string       `json:"save_prepared_model,omitempty"`
	ConvertTokenizer     bool         `json:"convert_tokenizer,omitempty"`
	Subsequent           bool         `json:"subsequent,omitempty"`
	OutputDir            string       `json:"output_dir,omitempty"`
	GenAI                bool         `json:"genai"`
	UseCB                bool         `json:"use_cb"`
	EndTokenStopping     bool         `json:"end_token_stopping,omitempty"`
	TorchCompile         TorchCompile `json:"torch_compile"`
	Speculative          *Speculative `json:"speculative,omitempty"`
}

// SelectedPrompts returns (index, prompt) pairs chosen by PromptIndex, in
// selector order. Indices out of range are skipped.
func (rc *RunConfig) SelectedPrompts() ([]int, PromptSet) {
	if rc.PromptIndex == nil {
		idx := make([]int, len(rc.Prompts))
		for i := range rc.Prompts {
			idx[i] = i
		}
		return idx, rc.Prompts
	}
	var idx []int
	var ps PromptSet
	for _, i := range rc.PromptIndex {
		if i < 0 || i >= len(rc.Prompts) {
			continue
		}
		idx = append(idx, i)
		ps = append(ps, rc.Prompts[i])
	}
	return idx, ps
}

// Diagnostic is a non-fatal event produced during resolution. The caller
// decides how to surface it.
type Diagnostic struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result represents the outcome of a single generate call.
type Result struct {
	RunID       string        `json:"run_id"`
	Model       string        `json:"model"`
	UseCase     UseCase       `json:"use_case"`
	Precision   string        `json:"precision"`
	Framework   Framework     `json:"framework"`
	Device      string        `json:"device"`
	Iteration   int           `json:"iteration"`
	PromptIndex int           `json:"prompt_index"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}
