/*
PURPOSE:
  Provides a structured logger for llm-bench.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - Resolution warnings must be visible.

  Implementation-discovered:
  - Needs to support Debug/Info/Warn/Error levels and a JSON handler for
    non-interactive runs.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine (runner).
  - Resolution code does not log; it returns diagnostics.

ERROR HANDLING:
  - Configure rejects unknown levels and formats.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - Ensure Go 1.21+ is used.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/daryltucker/llm-bench/internal/model"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// Configure replaces Logger with one writing to w at the given level
// ("debug", "info", "warn", "error") and format ("text" or "json").
func Configure(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		Logger = slog.New(slog.NewTextHandler(w, opts))
	case "json":
		Logger = slog.New(slog.NewJSONHandler(w, opts))
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return nil
}

// LogDiagnostics emits resolution diagnostics as warnings.
func LogDiagnostics(diags []model.Diagnostic) {
	for _, d := range diags {
		Logger.Warn(d.Message, "field", d.Field)
	}
}
