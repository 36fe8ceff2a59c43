package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/llm-bench/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to set up test file")
	return path
}

func ptr[T any](v T) *T { return &v }

func TestResolve_Conflict(t *testing.T) {
	for _, p := range []string{"", "hello"} {
		_, err := Resolve(Input{Prompt: ptr(p), PromptFiles: []string{"whatever.jsonl"}, UseCase: model.UseCaseTextGen})
		assert.ErrorIs(t, err, model.ErrConflict)
	}
}

func TestResolve_Defaults(t *testing.T) {
	tests := []struct {
		uc   model.UseCase
		want model.PromptSet
	}{
		{model.UseCaseTextGen, model.PromptSet{{Text: DefaultTextPrompt}}},
		{model.UseCaseCodeGen, model.PromptSet{{Text: "def print_hello_world():"}}},
		{model.UseCaseTextToImage, model.PromptSet{{Text: DefaultImagePrompt}}},
		{model.UseCaseSpeechToText, model.PromptSet{}},
		{model.UseCaseSuperResolution, model.PromptSet{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.uc), func(t *testing.T) {
			got, err := Resolve(Input{UseCase: tt.uc})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Inline(t *testing.T) {
	for _, p := range []string{"x", "Tell me a story", "  spaced  "} {
		got, err := Resolve(Input{Prompt: ptr(p), UseCase: model.UseCaseTextGen})
		require.NoError(t, err)
		assert.Equal(t, model.PromptSet{{Text: p}}, got)
	}

	_, err := Resolve(Input{Prompt: ptr(""), UseCase: model.UseCaseTextGen})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestResolve_Files(t *testing.T) {
	dir := t.TempDir()

	t.Run("records across files keep order", func(t *testing.T) {
		a := writeFile(t, dir, "a.jsonl", "{\"prompt\": \"one\"}\n{\"prompt\": \"two\"}\n\n")
		b := writeFile(t, dir, "b.jsonl", `{"prompt": "three", "width": 512}`)

		got, err := Resolve(Input{PromptFiles: []string{a, b}, UseCase: model.UseCaseTextGen})
		require.NoError(t, err)
		want := model.PromptSet{{Text: "one"}, {Text: "two"}, {Text: "three"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("prompt set mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("image records keep optional fields", func(t *testing.T) {
		path := writeFile(t, dir, "img.jsonl",
			"{\"prompt\": \"cat\", \"width\": 256, \"height\": \"128\", \"steps\": 20.0, \"guidance_scale\": 7}\n"+
				"{\"prompt\": \"dog\"}\n")

		got, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextToImage})
		require.NoError(t, err)
		want := model.PromptSet{
			{Text: "cat", Width: ptr(256), Height: ptr(128), Steps: ptr(20), GuidanceScale: ptr(7.0)},
			{Text: "dog"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("prompt set mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := writeFile(t, dir, "prompts.txt", `{"prompt": "x"}`)
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextGen})
		require.ErrorIs(t, err, model.ErrFormat)
		assert.ErrorContains(t, err, path)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "nope.jsonl")
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextGen})
		require.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorContains(t, err, path)
	})

	t.Run("missing prompt key names the file", func(t *testing.T) {
		path := writeFile(t, dir, "nokey.jsonl", "{\"prompt\": \"ok\"}\n{\"text\": \"x\"}\n")
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextGen})
		require.ErrorIs(t, err, model.ErrValidation)
		assert.ErrorContains(t, err, path)
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("empty prompt value", func(t *testing.T) {
		path := writeFile(t, dir, "empty.jsonl", `{"prompt": ""}`)
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextToImage})
		require.ErrorIs(t, err, model.ErrValidation)
		assert.ErrorContains(t, err, path)
	})

	t.Run("malformed line", func(t *testing.T) {
		path := writeFile(t, dir, "bad.jsonl", `{"prompt": `)
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextGen})
		assert.ErrorIs(t, err, model.ErrFormat)
	})

	t.Run("non numeric image field", func(t *testing.T) {
		path := writeFile(t, dir, "badwidth.jsonl", `{"prompt": "x", "width": "wide"}`)
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextToImage})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("image integer fields must be whole and in range", func(t *testing.T) {
		for name, line := range map[string]string{
			"overflow":        `{"prompt": "x", "width": 1e30}`,
			"negative huge":   `{"prompt": "x", "height": -1e30}`,
			"fraction":        `{"prompt": "x", "steps": 3.5}`,
			"fraction string": `{"prompt": "x", "steps": "3.5"}`,
		} {
			t.Run(name, func(t *testing.T) {
				path := writeFile(t, dir, "range.jsonl", line)
				_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextToImage})
				require.ErrorIs(t, err, model.ErrValidation)
				assert.ErrorContains(t, err, path)
			})
		}
	})

	t.Run("directory with prompt extension", func(t *testing.T) {
		path := filepath.Join(dir, "folder.jsonl")
		require.NoError(t, os.Mkdir(path, 0o755))
		_, err := Resolve(Input{PromptFiles: []string{path}, UseCase: model.UseCaseTextGen})
		require.ErrorIs(t, err, model.ErrFormat)
		assert.ErrorContains(t, err, path)
	})
}
