/*
PURPOSE:
  CSV sink for benchmark results: header row, then one row per generate call
  with run ID, identity, iteration, timing and token counts.

REQUIREMENTS:
  User-specified:
  - Spreadsheet-friendly results next to the JSON Lines file.

  Implementation-discovered:
  - A killed run must still leave every finished row on disk.
  - A rerun into the same output directory replaces results.csv.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (RunToDir), as an engine.Sink
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Create, header and row errors are returned; the csv.Writer error is
    checked after each flush.

IMPLEMENTATION RULES:
  - Flush after every row.
  - Rows are written under the mutex.
  - Only writers built by NewCSVWriter own and close their file.

USAGE:
  w, err := output.NewCSVWriter(filepath.Join(dir, "results.csv"))
  w, err := output.NewCSVStream(&buf)

RELATED FILES:
  - internal/output/json.go

MAINTENANCE:
  - Keep csvHeader and record() in column order when model.Result changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/daryltucker/llm-bench/internal/model"
)

var csvHeader = []string{
	"run_id", "model", "use_case", "precision", "framework", "device",
	"iteration", "prompt_index", "timestamp", "duration_s",
	"input_tokens", "output_tokens", "error",
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	closer io.Closer
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// NewCSVStream writes to w without owning it.
func NewCSVStream(w io.Writer) (*CSVWriter, error) {
	return newCSV(w)
}

func newCSV(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVWriter{writer: cw}, nil
}

// Write writes a single result to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.Result) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if err := cw.writer.Write(record(r)); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

func record(r model.Result) []string {
	return []string{
		r.RunID,
		r.Model,
		string(r.UseCase),
		r.Precision,
		string(r.Framework),
		r.Device,
		strconv.Itoa(r.Iteration),
		strconv.Itoa(r.PromptIndex),
		r.Timestamp.Format(time.RFC3339),
		fmt.Sprintf("%.4f", r.Duration.Seconds()),
		strconv.Itoa(r.InputTokens),
		strconv.Itoa(r.OutputTokens),
		r.Error,
	}
}

// Close flushes and closes the underlying file, if the writer owns one.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if cw.closer == nil {
		return cw.writer.Error()
	}
	return cw.closer.Close()
}
