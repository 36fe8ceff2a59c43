package catalog

import (
	"strings"

	"github.com/daryltucker/llm-bench/internal/model"
)

// Model-class markers per framework, matched as substrings of the lowercased
// model name. Order matters: "t5" precedes "codet5".
var (
	ovModelClasses = []string{
		"decoder", "t5", "blenderbot", "falcon", "mpt", "replit", "codet5", "codegen2",
		"ldm_super_resolution", "qwen", "mistral", "mixtral", "zephyr", "phi", "chatglm",
		"whisper", "vit", "stable-diffusion-xl", "sdxl", "lcm-sdxl", "ssd-1b", "lcm-ssd-1b",
		"stable-diffusion", "lcm", "tiny-sd", "small-sd", "deepfloyd-if",
	}
	ptModelClasses = []string{
		"decoder", "t5", "blenderbot", "falcon", "mpt", "stable-diffusion-xl", "sdxl", "lcm-sdxl",
		"ssd-1b", "lcm-ssd-1b", "stablelm", "chatglm", "codet5", "codegen2", "replit", "qwen",
		"mistral", "mixtral", "zephyr", "phi", "whisper", "vit",
	}
)

var defaultModelClasses = map[model.UseCase]string{
	model.UseCaseTextGen:         "decoder",
	model.UseCaseCodeGen:         "decoder",
	model.UseCaseTextToImage:     "stable_diffusion",
	model.UseCaseSpeechToText:    "whisper",
	model.UseCaseImageCls:        "vit",
	model.UseCaseSuperResolution: "ldm_super_resolution",
}

// ModelClasses returns the class markers registered for a framework.
func ModelClasses(fw model.Framework) []string {
	switch fw {
	case model.FrameworkOV:
		return append([]string(nil), ovModelClasses...)
	case model.FrameworkPT:
		return append([]string(nil), ptModelClasses...)
	}
	return nil
}

// DefaultModelClass returns the fallback class for a use case ("" if none).
func DefaultModelClass(uc model.UseCase) string {
	return defaultModelClasses[uc]
}

// ResolveModelType returns the first framework class marker contained in the
// lowercased name, or the use-case default.
func ResolveModelType(name string, uc model.UseCase, fw model.Framework) string {
	lower := strings.ToLower(name)
	var markers []string
	switch fw {
	case model.FrameworkOV:
		markers = ovModelClasses
	case model.FrameworkPT:
		markers = ptModelClasses
	}
	if cls, ok := firstMatch(markers, func(m string) bool { return strings.Contains(lower, m) }); ok {
		return cls
	}
	return DefaultModelClass(uc)
}
