package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/tnc/internal/frontend"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a file",
	Long: `Lexes FILE and prints the final token stream, one token per line,
as KIND 'text' (line N).`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	tokens, err := frontend.LexFile(args[0], frontendOptions())
	if err != nil {
		return reportDiagnostics(cmd, err)
	}

	out := cmd.OutOrStdout()
	for _, tok := range tokens {
		fmt.Fprintln(out, tok.String())
	}
	return nil
}
