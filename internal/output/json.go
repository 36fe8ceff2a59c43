/*
PURPOSE:
  JSON Lines sink for benchmark results, one model.Result per line.

REQUIREMENTS:
  User-specified:
  - Results readable by jq and line-oriented tools.

  Implementation-discovered:
  - Tests and pipes want results on an arbitrary io.Writer, so the writer
    only closes what it opened itself.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (RunToDir), as an engine.Sink
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Create and encode errors are returned to the caller.
  - Close on a stream writer is a no-op.

IMPLEMENTATION RULES:
  - One Encode per Write under the mutex, so concurrent sinks never interleave lines.

USAGE:
  w, err := output.NewJSONWriter(filepath.Join(dir, "results.jsonl"))
  s := output.NewJSONStream(os.Stdout)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/output/csv.go
  - internal/engine/runner.go
*/

package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/daryltucker/llm-bench/internal/model"
)

// JSONWriter writes one result per line.
type JSONWriter struct {
	closer  io.Closer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates (or truncates) path.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{closer: f, encoder: json.NewEncoder(f)}, nil
}

// NewJSONStream writes to w without owning it.
func NewJSONStream(w io.Writer) *JSONWriter {
	return &JSONWriter{encoder: json.NewEncoder(w)}
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(r model.Result) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file, if the writer owns one.
func (jw *JSONWriter) Close() error {
	if jw.closer == nil {
		return nil
	}
	return jw.closer.Close()
}
