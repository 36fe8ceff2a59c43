package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EngineConfig is an opaque JSON object forwarded to the inference backend.
// Key order from the source document is preserved so that logged and
// serialized configs read the way the user wrote them.
type EngineConfig struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewEngineConfig returns an empty config.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{om: orderedmap.New[string, any]()}
}

// ParseEngineConfig decodes a JSON object. Anything other than an object is
// rejected.
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON")
	}
	c := NewEngineConfig()
	if err := c.UnmarshalJSON(trimmed); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of keys. A nil config has none.
func (c *EngineConfig) Len() int {
	if c == nil || c.om == nil {
		return 0
	}
	return c.om.Len()
}

// Get returns the value stored under key.
func (c *EngineConfig) Get(key string) (any, bool) {
	if c == nil || c.om == nil {
		return nil, false
	}
	return c.om.Get(key)
}

// Keys returns the keys in insertion order.
func (c *EngineConfig) Keys() []string {
	if c.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, c.om.Len())
	for pair := c.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// SetDefault stores value under key only if key is absent. It reports whether
// the value was stored.
func (c *EngineConfig) SetDefault(key string, value any) bool {
	if c.om == nil {
		c.om = orderedmap.New[string, any]()
	}
	if _, ok := c.om.Get(key); ok {
		return false
	}
	c.om.Set(key, value)
	return true
}

// MarshalJSON encodes the config as a JSON object in key order.
func (c *EngineConfig) MarshalJSON() ([]byte, error) {
	if c.om == nil {
		return []byte("{}"), nil
	}
	return c.om.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (c *EngineConfig) UnmarshalJSON(data []byte) error {
	if c.om == nil {
		c.om = orderedmap.New[string, any]()
	}
	return c.om.UnmarshalJSON(data)
}

// String renders the config as compact JSON for log lines.
func (c *EngineConfig) String() string {
	if c == nil {
		return "{}"
	}
	b, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(b)
}
