/*
PURPOSE:
  Defines the 'resolve' subcommand.
  Resolves and prints the full run configuration for a model path.

REQUIREMENTS:
  User-specified:
  - Model path as positional argument.
  - --prompt / --prompt-file (repeatable) / --load-config / --cb-config /
    --stateful / --disable-stateful / --framework.

  Implementation-discovered:
  - Need to load the defaults file first.
  - Only flags the user actually set override the file.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Resolve()
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if the defaults file fails to load or resolution fails.
  - Diagnostics are logged as warnings.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> engine.Resolve -> print.

USAGE:
  llm-bench resolve ./models/llama-2-7b-chat/pytorch/FP16 --prompt "Hi"

SELF-HEALING INSTRUCTIONS:
  - Check flag names match engine.Options fields generally.

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/resolve.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/daryltucker/llm-bench/internal/config"
	"github.com/daryltucker/llm-bench/internal/engine"
	"github.com/daryltucker/llm-bench/internal/model"
	"github.com/daryltucker/llm-bench/internal/output"
)

// resolveFlags mirrors engine.Options for flag binding.
type resolveFlags struct {
	framework   string
	device      string
	prompt      string
	promptFiles []string
	promptIndex []int
	loadConfig  string
	cbConfig    string

	stateful        bool
	disableStateful bool
	genai           bool
	useCB           bool

	inferCount int
	batchSize  int
	numBeams   int
	seed       int

	images               string
	memConsumption       int
	fuseDecodingStrategy bool
	savePreparedModel    string
	convertTokenizer     bool
	subsequent           bool
	outputDir            string
	endTokenStopping     bool

	torchCompile model.TorchCompile

	draftModel          string
	draftDevice         string
	numAssistantTokens  int
	assistantConfidence float64

	format string
}

var rf resolveFlags

var resolveCmd = &cobra.Command{
	Use:   "resolve <model-path>",
	Short: "Resolve the run configuration for a model",
	Long: `Resolves the run configuration for one benchmark invocation.
The process follows a strict order:
1. Defaults: built-in values, then the defaults file, then explicitly set flags.
2. Identity: use case and model name from the path (or config.json), model class and precision.
3. Inputs: prompts, engine config, continuous batching config.
4. Validation: conflicting or unsupported options abort with an error.`,
	Example: `  # Resolve with defaults (uses llm_bench.yaml if present)
  llm-bench resolve ./models/llama-2-7b-chat/pytorch/dldt/FP16

  # Prompts from files, a subset of them, JSON output
  llm-bench resolve ./models/qwen-7b --prompt-file a.jsonl --prompt-file b.jsonl --prompt-index 0,2 --format json

  # Inline engine config on the GenAI backend with continuous batching
  llm-bench resolve ./models/phi-2 --genai --use-cb --load-config '{"NUM_STREAMS": 1}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		opts := buildOptions(cmd, cfg, args[0])
		rc, diags, err := engine.Resolve(opts)
		if err != nil {
			return err
		}
		output.LogDiagnostics(diags)
		output.Logger.Debug("Resolved run configuration", "id", rc.ID, "use_case", rc.Identity.UseCase, "config", rc.Config.String())

		switch rf.format {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rc)
		case "table", "":
			renderRunConfig(cmd.OutOrStdout(), rc)
			return nil
		}
		return fmt.Errorf("unknown format %q (want table or json)", rf.format)
	},
}

// buildOptions applies precedence: explicitly set flag > defaults file.
func buildOptions(cmd *cobra.Command, cfg *config.Config, modelPath string) engine.Options {
	changed := cmd.Flags().Changed

	opts := engine.Options{
		ModelPath:   modelPath,
		Framework:   cfg.Framework,
		Device:      cfg.Device,
		PromptFiles: cfg.PromptFile,
		LoadConfig:  cfg.LoadConfig,
		CBConfig:    cfg.CBConfig,
		GenAI:       cfg.GenAI,
		InferCount:  cfg.InferCount,
		BatchSize:   cfg.BatchSize,
		NumBeams:    cfg.NumBeams,
		Seed:        cfg.Seed,
		OutputDir:   cfg.OutputDir,

		Stateful:             rf.stateful,
		DisableStateful:      rf.disableStateful,
		UseCB:                rf.useCB,
		Images:               rf.images,
		MemConsumption:       rf.memConsumption,
		FuseDecodingStrategy: rf.fuseDecodingStrategy,
		SavePreparedModel:    rf.savePreparedModel,
		ConvertTokenizer:     rf.convertTokenizer,
		Subsequent:           rf.subsequent,
		EndTokenStopping:     rf.endTokenStopping,
		TorchCompile:         rf.torchCompile,
		DraftModel:           rf.draftModel,
		DraftDevice:          rf.draftDevice,
		NumAssistantTokens:   rf.numAssistantTokens,
	}

	if changed("framework") {
		opts.Framework = rf.framework
	}
	if changed("device") {
		opts.Device = rf.device
	}
	if changed("prompt") {
		p := rf.prompt
		opts.Prompt = &p
		// An inline prompt replaces file prompts from the defaults file.
		if !changed("prompt-file") {
			opts.PromptFiles = nil
		}
	}
	if changed("prompt-file") {
		opts.PromptFiles = rf.promptFiles
	}
	if changed("prompt-index") {
		opts.PromptIndex = append([]int{}, rf.promptIndex...)
	}
	if changed("load-config") {
		opts.LoadConfig = rf.loadConfig
	}
	if changed("cb-config") {
		opts.CBConfig = rf.cbConfig
	}
	if changed("genai") {
		opts.GenAI = rf.genai
	}
	if changed("infer-count") {
		opts.InferCount = rf.inferCount
	}
	if changed("batch-size") {
		opts.BatchSize = rf.batchSize
	}
	if changed("num-beams") {
		opts.NumBeams = rf.numBeams
	}
	if changed("seed") {
		s := rf.seed
		opts.Seed = &s
	}
	if changed("output-dir") {
		opts.OutputDir = rf.outputDir
	}
	if changed("assistant-confidence-threshold") {
		v := rf.assistantConfidence
		opts.AssistantConfidenceThreshold = &v
	}
	return opts
}

func renderRunConfig(w io.Writer, rc *model.RunConfig) {
	rows := [][]string{
		{"Run ID", rc.ID},
		{"Model path", rc.ModelPath},
		{"Framework", string(rc.Framework)},
		{"Use case", string(rc.Identity.UseCase)},
		{"Model name", rc.Identity.Name},
		{"Model class", rc.Identity.ModelClass},
		{"Precision", rc.Identity.Precision},
		{"Conversion frontend", rc.Identity.ConversionFrontend},
		{"Device", rc.Device},
		{"Infer count", strconv.Itoa(rc.InferCount)},
		{"Batch size", strconv.Itoa(rc.BatchSize)},
		{"Num beams", strconv.Itoa(rc.NumBeams)},
		{"Seed", optional(rc.Seed)},
		{"Stateful", optional(rc.Stateful)},
		{"GenAI", strconv.FormatBool(rc.GenAI)},
		{"Continuous batching", strconv.FormatBool(rc.UseCB)},
		{"Engine config", rc.Config.String()},
	}
	if rc.CBConfig != nil {
		rows = append(rows, []string{"CB config", rc.CBConfig.String()})
	}
	if rc.TorchCompile.Backend != "" {
		rows = append(rows, []string{"Compile backend", rc.TorchCompile.Backend})
	}
	if s := rc.Speculative; s != nil {
		rows = append(rows, []string{"Draft model", s.DraftModelPath})
	}
	if rc.PromptIndex == nil {
		rows = append(rows, []string{"Prompt index", "all"})
	} else {
		rows = append(rows, []string{"Prompt index", fmt.Sprint(rc.PromptIndex)})
	}
	for i, p := range rc.Prompts {
		rows = append(rows, []string{fmt.Sprintf("Prompt %d", i), truncate(p.Text, 60)})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"FIELD", "VALUE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}

func optional[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	f := resolveCmd.Flags()
	f.StringVarP(&rf.framework, "framework", "f", "ov", "Framework: ov or pt")
	f.StringVarP(&rf.device, "device", "d", "CPU", "Inference device")
	f.StringVarP(&rf.prompt, "prompt", "p", "", "Inline prompt (mutually exclusive with --prompt-file)")
	f.StringArrayVar(&rf.promptFiles, "prompt-file", nil, "JSON Lines prompt file, repeatable")
	f.IntSliceVar(&rf.promptIndex, "prompt-index", nil, "Prompt indices to run (duplicates are dropped)")
	f.StringVar(&rf.loadConfig, "load-config", "", "Engine config: JSON file path or inline JSON")
	f.StringVar(&rf.cbConfig, "cb-config", "", "Continuous batching config: JSON file path or inline JSON")
	f.BoolVar(&rf.stateful, "stateful", false, "Replace kv-cache inputs and outputs with internal state")
	f.BoolVar(&rf.disableStateful, "disable-stateful", false, "Disable stateful transformation")
	f.BoolVar(&rf.genai, "genai", false, "Use the GenAI backend")
	f.BoolVar(&rf.useCB, "use-cb", false, "Use continuous batching (GenAI only)")
	f.IntVarP(&rf.inferCount, "infer-count", "n", 1, "Measured iterations (iteration 0 is warm-up)")
	f.IntVar(&rf.batchSize, "batch-size", 1, "Batch size")
	f.IntVar(&rf.numBeams, "num-beams", 1, "Beam count")
	f.IntVar(&rf.seed, "seed", 0, "Random seed")
	f.StringVar(&rf.images, "images", "", "Input image or directory for image use cases")
	f.IntVar(&rf.memConsumption, "memory-consumption", 0, "Memory consumption tracking level")
	f.BoolVar(&rf.fuseDecodingStrategy, "fuse-decoding-strategy", false, "Fuse decoding strategy into the model")
	f.StringVar(&rf.savePreparedModel, "save-prepared-model", "", "Save the prepared model to this path")
	f.BoolVar(&rf.convertTokenizer, "convert-tokenizer", false, "Convert the tokenizer")
	f.BoolVar(&rf.subsequent, "subsequent", false, "Run prompts subsequently after the first one")
	f.StringVarP(&rf.outputDir, "output-dir", "o", "", "Output directory for results")
	f.BoolVar(&rf.endTokenStopping, "end-token-stopping", false, "Stop generation on the end token")
	f.StringVar(&rf.torchCompile.Backend, "torch-compile-backend", "", "torch.compile backend")
	f.BoolVar(&rf.torchCompile.Dynamic, "torch-compile-dynamic", false, "torch.compile dynamic shapes")
	f.StringVar(&rf.torchCompile.Options, "torch-compile-options", "", "torch.compile options (JSON)")
	f.StringVar(&rf.torchCompile.InputModule, "torch-compile-input-module", "", "Submodule to compile")
	f.StringVar(&rf.draftModel, "draft-model", "", "Draft model path for speculative decoding")
	f.StringVar(&rf.draftDevice, "draft-device", "", "Draft model device")
	f.IntVar(&rf.numAssistantTokens, "num-assistant-tokens", 0, "Candidates the draft model proposes per step")
	f.Float64Var(&rf.assistantConfidence, "assistant-confidence-threshold", 0, "Draft candidate probability threshold")
	f.StringVar(&rf.format, "format", "table", "Output format: table or json")
}
