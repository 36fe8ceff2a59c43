package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daryltucker/llm-bench/internal/model"
)

// UseCaseEntry maps a use case to the model-name prefixes that identify it.
// A trailing "_" on a prefix only constrains filename matching; it is
// stripped when matching a config.json model_type.
type UseCaseEntry struct {
	UseCase  model.UseCase
	Prefixes []string
}

var useCases = []UseCaseEntry{
	{model.UseCaseTextToImage, []string{"stable-diffusion-", "ssd-", "deepfloyd-if", "tiny-sd", "small-sd", "lcm-", "sdxl"}},
	{model.UseCaseSpeechToText, []string{"whisper"}},
	{model.UseCaseImageCls, []string{"vit"}},
	{model.UseCaseCodeGen, []string{"replit", "codegen2", "codegen", "codet5", "stable-code", "code-gen"}},
	{model.UseCaseTextGen, []string{
		"decoder", "t5", "falcon", "glm", "chatglm", "aquila", "gpt", "gpt-", "gpt2", "open-llama", "openchat",
		"neural-chat", "llama", "tiny-llama", "tinyllama", "opt", "opt-", "pythia", "pythia-", "stablelm",
		"stablelm-", "stable-zephyr-", "rocket-", "blenderbot", "vicuna", "dolly", "bloom", "red-pajama",
		"xgen", "longchat", "jais", "orca-mini", "baichuan", "qwen", "zephyr", "mistral", "mixtral", "phi",
		"minicpm", "gemma", "deci", "internlm", "olmo", "starcoder", "instruct-gpt", "granite", "mpt_",
	}},
	{model.UseCaseSuperResolution, []string{"ldm-super-resolution"}},
}

// UseCases returns a copy of the use-case catalog in order.
func UseCases() []UseCaseEntry {
	out := make([]UseCaseEntry, len(useCases))
	for i, e := range useCases {
		out[i] = UseCaseEntry{UseCase: e.UseCase, Prefixes: append([]string(nil), e.Prefixes...)}
	}
	return out
}

// matchPrefix finds the first catalog entry whose prefix (after norm) starts
// name. It returns the use case and the prefix as written in the catalog.
func matchPrefix(name string, norm func(string) string) (model.UseCase, string, bool) {
	for _, e := range useCases {
		if p, ok := firstMatch(e.Prefixes, func(p string) bool {
			return strings.HasPrefix(name, norm(p))
		}); ok {
			return e.UseCase, p, true
		}
	}
	return "", "", false
}

func identity(s string) string { return s }

func stripMarker(s string) string { return strings.TrimSuffix(s, "_") }

// ClassifyUseCase determines the use case and canonical model name for a model
// path. Path segments are tried rightmost first; if none match, the model_type
// declared in <path>/config.json is tried.
func ClassifyUseCase(path string) (model.UseCase, string, error) {
	segments := SplitPath(path)
	for i := len(segments) - 1; i >= 0; i-- {
		if uc, _, ok := matchPrefix(strings.ToLower(segments[i]), identity); ok {
			return uc, segments[i], nil
		}
	}

	if mt, ok := declaredModelType(path); ok {
		norm := strings.ReplaceAll(strings.ToLower(mt), "_", "-")
		if uc, id, ok := matchPrefix(norm, stripMarker); ok {
			return uc, id, nil
		}
	}

	return "", "", fmt.Errorf("%w: model path %s", model.ErrClassification, path)
}

// declaredModelType reads the model_type field of <dir>/config.json. Missing
// or unreadable files are not an error; they just yield no value.
func declaredModelType(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return "", false
	}
	var cfg struct {
		ModelType any `json:"model_type"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", false
	}
	mt, ok := cfg.ModelType.(string)
	return mt, ok && mt != ""
}
