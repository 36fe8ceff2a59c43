/*
PURPOSE:
  High-level runner that drives a resolved benchmark.
  Loads the pipeline once, then loops Iterations -> Prompts and records
  one result per generate call.

REQUIREMENTS:
  User-specified:
  - Iteration 0 is the warm-up; iterations 1..infer_count are measured.
  - Log results to CSV/JSON.

  Implementation-discovered:
  - Needs to report progress to CLI.

ARCHITECTURE INTEGRATION:
  - Called by: programs embedding an engine Loader
  - Uses: internal/engine/pipeline.go, internal/output

ERROR HANDLING:
  - Load failure aborts the run.
  - Generate failures are logged, recorded in the result, and the loop
    continues (resilience).
  - Context cancellation stops the loop between calls.

IMPLEMENTATION RULES:
  - Iterate iterations.
  - For each iteration: every selected prompt, in selector order.
  - Every result goes to every sink.

USAGE:
  engine.Run(ctx, loader, rc, csvWriter, jsonWriter)
  engine.RunToDir(ctx, loader, rc)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/pipeline.go
  - internal/output/csv.go

MAINTENANCE:
  - Update iteration logic if parallelism is introduced.
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daryltucker/llm-bench/internal/model"
	"github.com/daryltucker/llm-bench/internal/output"
)

// Sink receives benchmark results.
type Sink interface {
	Write(r model.Result) error
}

// Run executes the benchmark described by rc.
func Run(ctx context.Context, loader Loader, rc *model.RunConfig, sinks ...Sink) error {
	output.Logger.Info("Loading pipeline", "model", rc.ModelPath, "device", rc.Device, "config", rc.Config.String())
	pipe, err := loader.Load(ctx, rc.ModelPath, rc.Device, LoadConfigFor(rc))
	if err != nil {
		return fmt.Errorf("failed to load pipeline for %s: %w", rc.ModelPath, err)
	}

	reqs := Requests(rc)
	for iter := 0; iter <= rc.InferCount; iter++ {
		for _, req := range reqs {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			gen, err := pipe.Generate(ctx, req)
			res := model.Result{
				RunID:        rc.ID,
				Model:        rc.Identity.Name,
				UseCase:      rc.Identity.UseCase,
				Precision:    rc.Identity.Precision,
				Framework:    rc.Framework,
				Device:       rc.Device,
				Iteration:    iter,
				PromptIndex:  req.PromptIndex,
				Timestamp:    start,
				Duration:     time.Since(start),
				InputTokens:  gen.InputTokens,
				OutputTokens: gen.OutputTokens,
				Response:     gen.Text,
			}
			if err != nil {
				output.Logger.Error("Generation Failed", "model", res.Model, "iteration", iter, "prompt", req.PromptIndex, "error", err)
				res.Error = err.Error()
			} else {
				output.Logger.Info("Generation Success",
					"model", res.Model,
					"iteration", iter,
					"prompt", req.PromptIndex,
					"duration", res.Duration,
					"output_tokens", res.OutputTokens,
				)
			}

			for _, s := range sinks {
				if err := s.Write(res); err != nil {
					output.Logger.Error("Failed to write result", "error", err)
				}
			}
		}
	}
	return nil
}

// RunToDir runs the benchmark and writes results as CSV and JSON Lines under
// rc.OutputDir (the working directory when empty).
func RunToDir(ctx context.Context, loader Loader, rc *model.RunConfig) error {
	dir := rc.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	csvPath := filepath.Join(dir, "results.csv")
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := filepath.Join(dir, "results.jsonl")
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	return Run(ctx, loader, rc, csvWriter, jsonWriter)
}
