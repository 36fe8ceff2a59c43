/*
PURPOSE:
  Resolves the prompts a benchmark run feeds to the pipeline.
  Exactly one source contributes: inline prompt, prompt files, or a
  built-in default picked by use case.

REQUIREMENTS:
  User-specified:
  - --prompt and --prompt-file are mutually exclusive.
  - Prompt files are JSON Lines with a required non-empty "prompt" key.
  - Image use cases keep width/height/steps/guidance_scale when present.

  Implementation-discovered:
  - Optional numeric fields must stay absent rather than default to zero,
    so the pipeline keeps its own defaults.
  - Prompts can be long (whole articles); the line scanner needs a large buffer.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Resolve)
  - Uses: internal/model

ERROR HANDLING:
  - ErrConflict, ErrValidation, ErrFormat, ErrNotFound, wrapped with the
    offending file and line.
  - No partial prompt set is returned on error.

IMPLEMENTATION RULES:
  - Rules are checked strictly in order: conflict, default, inline, files.
  - Files are closed on every exit path.

USAGE:
  ps, err := prompt.Resolve(prompt.Input{PromptFiles: files, UseCase: uc})

SELF-HEALING INSTRUCTIONS:
  - New optional image fields go in imageRecord and Prompt.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update defaults when new use cases get a canonical prompt.
*/

package prompt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/daryltucker/llm-bench/internal/model"
)

// FileExt is the only accepted prompt-file extension.
const FileExt = ".jsonl"

const maxLineSize = 16 * 1024 * 1024

const (
	DefaultTextPrompt  = "What is OpenVINO?"
	DefaultCodePrompt  = "def print_hello_world():"
	DefaultImagePrompt = "sailing ship in storm by Leonardo da Vinci"
)

// Input holds the raw prompt-related inputs. A nil Prompt and an empty
// PromptFiles both mean "not supplied".
type Input struct {
	Prompt      *string
	PromptFiles []string
	UseCase     model.UseCase
}

// Default returns the built-in prompt for a use case, if one exists.
func Default(uc model.UseCase) (string, bool) {
	switch {
	case uc == model.UseCaseTextGen:
		return DefaultTextPrompt, true
	case uc == model.UseCaseCodeGen:
		return DefaultCodePrompt, true
	case uc.IsImage():
		return DefaultImagePrompt, true
	}
	return "", false
}

// Resolve produces the prompt set for in.
func Resolve(in Input) (model.PromptSet, error) {
	hasPrompt := in.Prompt != nil
	hasFiles := len(in.PromptFiles) > 0

	switch {
	case hasPrompt && hasFiles:
		return nil, fmt.Errorf("%w: prompt and prompt file should not exist together", model.ErrConflict)
	case !hasPrompt && !hasFiles:
		if p, ok := Default(in.UseCase); ok {
			return model.PromptSet{{Text: p}}, nil
		}
		return model.PromptSet{}, nil
	case hasPrompt:
		if *in.Prompt == "" {
			return nil, fmt.Errorf("%w: prompt should not be empty string", model.ErrValidation)
		}
		return model.PromptSet{{Text: *in.Prompt}}, nil
	}

	var out model.PromptSet
	for _, path := range in.PromptFiles {
		ps, err := ReadFile(path, in.UseCase.IsImage())
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// ReadFile reads one JSON Lines prompt file. With image set, the optional
// image generation fields are kept.
func ReadFile(path string, image bool) (model.PromptSet, error) {
	if !strings.HasSuffix(path, FileExt) {
		return nil, fmt.Errorf("%w: prompt file %s should end with %s", model.ErrFormat, path, FileExt)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: prompt file %s does not exist", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat prompt file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: prompt file %s is not a regular file", model.ErrFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out model.PromptSet
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		p, err := parseRecord(line, image)
		if err != nil {
			return nil, fmt.Errorf("prompt file %s line %d: %w", path, lineNo, err)
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return out, nil
}

func parseRecord(line []byte, image bool) (model.Prompt, error) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(line, &rec); err != nil {
		return model.Prompt{}, fmt.Errorf("%w: %v", model.ErrFormat, err)
	}

	raw, ok := rec["prompt"]
	if !ok {
		return model.Prompt{}, fmt.Errorf(`%w: key word "prompt" does not exist`, model.ErrValidation)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return model.Prompt{}, fmt.Errorf(`%w: "prompt" must be a string`, model.ErrValidation)
	}
	if text == "" {
		return model.Prompt{}, fmt.Errorf("%w: prompt should not be empty string", model.ErrValidation)
	}

	p := model.Prompt{Text: text}
	if !image {
		return p, nil
	}

	var err error
	if p.Width, err = intField(rec, "width"); err != nil {
		return model.Prompt{}, err
	}
	if p.Height, err = intField(rec, "height"); err != nil {
		return model.Prompt{}, err
	}
	if p.Steps, err = intField(rec, "steps"); err != nil {
		return model.Prompt{}, err
	}
	if p.GuidanceScale, err = floatField(rec, "guidance_scale"); err != nil {
		return model.Prompt{}, err
	}
	return p, nil
}

// floatField decodes a finite JSON number or a numeric string.
func floatField(rec map[string]json.RawMessage, key string) (*float64, error) {
	raw, ok := rec[key]
	if !ok {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", model.ErrFormat, key, err)
	}
	f, ok := 0.0, false
	switch n := v.(type) {
	case float64:
		f, ok = n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		f, ok = parsed, err == nil && !math.IsInf(parsed, 0) && !math.IsNaN(parsed)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q must be numeric, got %s", model.ErrValidation, key, string(raw))
	}
	return &f, nil
}

// intField decodes a whole JSON number or a decimal integer string.
// Fractions, non-finite values and values outside the int range are rejected.
func intField(rec map[string]json.RawMessage, key string) (*int, error) {
	raw, ok := rec[key]
	if !ok {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", model.ErrFormat, key, err)
	}
	switch n := v.(type) {
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) || n != math.Trunc(n) ||
			n < float64(math.MinInt) || n >= -float64(math.MinInt) {
			break
		}
		i := int(n)
		return &i, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			break
		}
		return &i, nil
	}
	return nil, fmt.Errorf("%w: %q must be an integer, got %s", model.ErrValidation, key, string(raw))
}

