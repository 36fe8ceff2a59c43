package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/llm-bench/internal/model"
)

func ptr[T any](v T) *T { return &v }

// modelDir creates <tmp>/<parts...> and returns its path.
func modelDir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{t.TempDir()}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func baseOptions(path string) Options {
	return Options{
		ModelPath:  path,
		Framework:  "ov",
		InferCount: 1,
		BatchSize:  1,
		NumBeams:   1,
	}
}

func TestResolve_CodeGenScenario(t *testing.T) {
	path := modelDir(t, "code-gen-model", "OV_FP32-INT8")

	rc, diags, err := Resolve(baseOptions(path))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, model.UseCaseCodeGen, rc.Identity.UseCase)
	assert.Equal(t, "code-gen-model", rc.Identity.Name)
	assert.Equal(t, "OV_FP32-INT8", rc.Identity.Precision)
	assert.Equal(t, "OV_FP32-INT8", rc.Identity.ConversionFrontend)
	assert.Equal(t, "decoder", rc.Identity.ModelClass)
	assert.Equal(t, model.PromptSet{{Text: "def print_hello_world():"}}, rc.Prompts)
	assert.Nil(t, rc.PromptIndex)
	assert.NotEmpty(t, rc.ID)
	assert.Equal(t, "CPU", rc.Device)

	v, ok := rc.Config.Get("CACHE_DIR")
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestResolve_EngineConfig(t *testing.T) {
	path := modelDir(t, "llama-2-7b-chat", "FP16")

	t.Run("user CACHE_DIR is kept", func(t *testing.T) {
		opts := baseOptions(path)
		opts.LoadConfig = `{"CACHE_DIR": "/cache", "NUM_STREAMS": 2}`
		rc, _, err := Resolve(opts)
		require.NoError(t, err)
		v, _ := rc.Config.Get("CACHE_DIR")
		assert.Equal(t, "/cache", v)
		assert.Equal(t, []string{"CACHE_DIR", "NUM_STREAMS"}, rc.Config.Keys())
	})

	t.Run("pt gets no injected key", func(t *testing.T) {
		opts := baseOptions(path)
		opts.Framework = "pt"
		rc, _, err := Resolve(opts)
		require.NoError(t, err)
		assert.Equal(t, 0, rc.Config.Len())
	})

	t.Run("cb config parsed", func(t *testing.T) {
		opts := baseOptions(path)
		opts.GenAI = true
		opts.UseCB = true
		opts.CBConfig = `{"cache_size": 2, "block_size": 16}`
		rc, _, err := Resolve(opts)
		require.NoError(t, err)
		require.NotNil(t, rc.CBConfig)
		assert.Equal(t, []string{"cache_size", "block_size"}, rc.CBConfig.Keys())
	})

	t.Run("bad load config", func(t *testing.T) {
		opts := baseOptions(path)
		opts.LoadConfig = "{bad json"
		_, _, err := Resolve(opts)
		assert.ErrorIs(t, err, model.ErrFormat)
	})
}

func TestResolve_Errors(t *testing.T) {
	path := modelDir(t, "llama-2-7b-chat")

	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"unknown framework", func(o *Options) { o.Framework = "onnx" }, model.ErrConfiguration},
		{"missing model path", func(o *Options) { o.ModelPath = filepath.Join(path, "nope") }, model.ErrNotFound},
		{"empty model path", func(o *Options) { o.ModelPath = "" }, model.ErrValidation},
		{"prompt and prompt file", func(o *Options) {
			o.Prompt = ptr("hi")
			o.PromptFiles = []string{"p.jsonl"}
		}, model.ErrConflict},
		{"empty prompt", func(o *Options) { o.Prompt = ptr("") }, model.ErrValidation},
		{"stateful conflict", func(o *Options) {
			o.Stateful = true
			o.DisableStateful = true
		}, model.ErrConflict},
		{"cb without genai", func(o *Options) { o.UseCB = true }, model.ErrConfiguration},
		{"genai on pt", func(o *Options) {
			o.Framework = "pt"
			o.GenAI = true
		}, model.ErrConfiguration},
		{"negative prompt index", func(o *Options) { o.PromptIndex = []int{0, -1} }, model.ErrValidation},
		{"zero batch", func(o *Options) { o.BatchSize = 0 }, model.ErrValidation},
		{"assistant params without draft", func(o *Options) { o.NumAssistantTokens = 5 }, model.ErrValidation},
		{"assistant params both set", func(o *Options) {
			o.DraftModel = path
			o.NumAssistantTokens = 5
			o.AssistantConfidenceThreshold = ptr(0.4)
		}, model.ErrConflict},
		{"missing draft model", func(o *Options) { o.DraftModel = filepath.Join(path, "draft") }, model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(path)
			tt.mutate(&opts)
			rc, diags, err := Resolve(opts)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, rc)
			assert.Nil(t, diags)
		})
	}
}

func TestResolve_UnclassifiedModel(t *testing.T) {
	path := modelDir(t, "mystery-model")
	_, _, err := Resolve(baseOptions(path))
	assert.ErrorIs(t, err, model.ErrClassification)
}

func TestResolve_SuperResolutionHasNoDefaultPrompt(t *testing.T) {
	path := modelDir(t, "ldm-super-resolution-4x")

	rc, _, err := Resolve(baseOptions(path))
	require.NoError(t, err)
	assert.Equal(t, model.UseCaseSuperResolution, rc.Identity.UseCase)
	assert.Empty(t, rc.Prompts)
}

func TestResolve_TorchCompileDefault(t *testing.T) {
	path := modelDir(t, "llama-2-7b-chat")

	opts := baseOptions(path)
	opts.Framework = "pt"
	opts.TorchCompile = model.TorchCompile{Dynamic: true}
	rc, diags, err := Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultCompileBackend, rc.TorchCompile.Backend)
	require.Len(t, diags, 1)
	assert.Equal(t, "torch_compile_backend", diags[0].Field)

	opts.TorchCompile = model.TorchCompile{Backend: "inductor", Options: `{"x": 1}`}
	rc, diags, err = Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "inductor", rc.TorchCompile.Backend)
	assert.Empty(t, diags)
}

func TestResolve_StatefulAndSpeculative(t *testing.T) {
	path := modelDir(t, "llama-2-7b-chat")
	draft := modelDir(t, "tiny-llama-draft")

	opts := baseOptions(path)
	opts.DisableStateful = true
	opts.DraftModel = draft
	opts.NumAssistantTokens = 5
	opts.PromptIndex = []int{2, 1, 2, 3, 1}

	rc, _, err := Resolve(opts)
	require.NoError(t, err)
	require.NotNil(t, rc.Stateful)
	assert.False(t, *rc.Stateful)
	require.NotNil(t, rc.Speculative)
	assert.Equal(t, draft, rc.Speculative.DraftModelPath)
	assert.Equal(t, 5, rc.Speculative.NumAssistantTokens)
	assert.Equal(t, []int{2, 1, 3}, rc.PromptIndex)
}

func TestResolve_UniqueIDs(t *testing.T) {
	path := modelDir(t, "llama-2-7b-chat")
	a, _, err := Resolve(baseOptions(path))
	require.NoError(t, err)
	b, _, err := Resolve(baseOptions(path))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDedupIndices(t *testing.T) {
	got, err := DedupIndices([]int{2, 1, 2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3}, got)

	got, err = DedupIndices(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = DedupIndices([]int{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
