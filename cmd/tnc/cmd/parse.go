package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/tnc/internal/frontend"
	"github.com/msto63/tnc/internal/frontend/ast"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the syntax tree of a file",
	Long: `Parses FILE and prints its syntax tree. The tree format is an indented
outline; the yaml format lists every node with its fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: tree or yaml (default from config)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format := parseFormat
	if format == "" {
		format = cfg.Output.ASTFormat
	}
	if format != "tree" && format != "yaml" {
		return fmt.Errorf("unknown format %q: want tree or yaml", format)
	}

	result, err := frontend.CompileFile(args[0], frontendOptions())
	if err != nil {
		return reportDiagnostics(cmd, err)
	}

	out := cmd.OutOrStdout()
	if format == "tree" {
		fmt.Fprint(out, ast.Dump(result.Program))
		return nil
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(ast.ToMap(result.Program)); err != nil {
		return fmt.Errorf("failed to encode syntax tree: %w", err)
	}
	return enc.Close()
}
