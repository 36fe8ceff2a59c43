/*
PURPOSE:
  Defines the 'use-cases' and 'precisions' subcommands.
  Helps debug classification before a full resolve.

REQUIREMENTS:
  Implementation-discovered:
  - Useful to see why a directory name did or did not classify.

ARCHITECTURE INTEGRATION:
  - Calls: internal/catalog listings

ERROR HANDLING:
  - model-classes rejects unknown frameworks.

IMPLEMENTATION RULES:
  - Simple table output to stdout.
*/

package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/daryltucker/llm-bench/internal/catalog"
	"github.com/daryltucker/llm-bench/internal/model"
)

var useCasesCmd = &cobra.Command{
	Use:   "use-cases",
	Short: "List use cases, their name prefixes and default model classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"USE CASE", "DEFAULT CLASS", "PREFIXES"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoWrapText(false)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		for _, e := range catalog.UseCases() {
			table.Append([]string{string(e.UseCase), catalog.DefaultModelClass(e.UseCase), strings.Join(e.Prefixes, ", ")})
		}
		table.Render()
		return nil
	},
}

var precisionsCmd = &cobra.Command{
	Use:   "precisions",
	Short: "List recognized precision directory names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"PRECISION"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		for _, p := range catalog.PrecisionTags() {
			table.Append([]string{p})
		}
		table.Render()
		return nil
	},
}

var modelClassesCmd = &cobra.Command{
	Use:   "model-classes <ov|pt>",
	Short: "List model class markers for a framework, in match order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classes := catalog.ModelClasses(model.Framework(args[0]))
		if classes == nil {
			return fmt.Errorf("%w: unknown framework %q", model.ErrConfiguration, args[0])
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"CLASS"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		for _, c := range classes {
			table.Append([]string{c})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCasesCmd)
	rootCmd.AddCommand(precisionsCmd)
	rootCmd.AddCommand(modelClassesCmd)
}
