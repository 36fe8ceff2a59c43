package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineConfig(t *testing.T) {
	cfg, err := ParseEngineConfig([]byte(` {"b": 1, "a": {"nested": true}} `))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, cfg.Keys())

	assert.False(t, cfg.SetDefault("b", 2), "existing keys are never overwritten")
	v, _ := cfg.Get("b")
	assert.Equal(t, float64(1), v)

	assert.True(t, cfg.SetDefault("CACHE_DIR", ""))
	assert.Equal(t, []string{"b", "a", "CACHE_DIR"}, cfg.Keys())

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b": 1, "a": {"nested": true}, "CACHE_DIR": ""}`, string(out))
	assert.Equal(t, `{"b":1,"a":{"nested":true},"CACHE_DIR":""}`, cfg.String())
}

func TestParseEngineConfig_Rejects(t *testing.T) {
	for _, in := range []string{"", "[1]", "5", `"x"`, "{bad json", `{"a":}`} {
		_, err := ParseEngineConfig([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestNilEngineConfig(t *testing.T) {
	var cfg *EngineConfig
	assert.Equal(t, 0, cfg.Len())
	assert.Nil(t, cfg.Keys())
	_, ok := cfg.Get("x")
	assert.False(t, ok)
	assert.Equal(t, "{}", cfg.String())
}

func TestSelectedPrompts(t *testing.T) {
	rc := &RunConfig{Prompts: PromptSet{{Text: "a"}, {Text: "b"}, {Text: "c"}}}

	idx, ps := rc.SelectedPrompts()
	assert.Equal(t, []int{0, 1, 2}, idx)
	assert.Equal(t, []string{"a", "b", "c"}, ps.Texts())

	rc.PromptIndex = []int{2, 0, 7}
	idx, ps = rc.SelectedPrompts()
	assert.Equal(t, []int{2, 0}, idx)
	assert.Equal(t, []string{"c", "a"}, ps.Texts())
}

func TestUseCaseIsImage(t *testing.T) {
	assert.True(t, UseCaseTextToImage.IsImage())
	assert.False(t, UseCaseCodeGen.IsImage())
	assert.False(t, UseCaseSuperResolution.IsImage())
}
