package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	tncerror "github.com/msto63/tnc/foundation/core/error"
	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend"
	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/internal/frontend/walker"
	"github.com/msto63/tnc/internal/reports"
)

var noRecord bool

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Compile files and report diagnostics",
	Long: `Compiles every FILE, printing a summary line for each file that compiles
to standard output and diagnostics to standard error. When reports are enabled
in the configuration, every run is recorded in the diagnostics archive.
Exits non-zero when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record runs even when reports are enabled")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	var store reports.Store
	if cfg.Reports.Enabled && !noRecord {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	st := newStyles(colorEnabled())
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0

	for _, file := range args {
		started := time.Now()
		result, err := frontend.CompileFile(file, frontendOptions())
		elapsed := time.Since(started)

		if err != nil {
			failed++
			printDiagnostics(errOut, err, st)
		} else {
			stats := collectStats(result.Program)
			fmt.Fprintf(out, "%s %s (%d statements, %d nodes, max depth %d)\n",
				st.Success.Render("ok"), file, len(result.Program.Body), stats.nodes, stats.maxDepth)
		}

		if store != nil {
			run := reports.NewRun(file, started, elapsed, result, err)
			if err := store.Record(context.Background(), run); err != nil {
				return err
			}
			logger.Debug("Run archived", tnclog.Fields{"run": run.ID, "file": file})
		}
	}

	if failed > 0 {
		return &reportedError{err: fmt.Errorf("%d of %d files failed", failed, len(args))}
	}
	return nil
}

// treeStats summarizes the shape of a syntax tree
type treeStats struct {
	nodes    int
	maxDepth int
}

func collectStats(program *ast.Program) treeStats {
	var stats treeStats
	w := walker.NewWithOptions(walker.Options{Logger: logger})
	walker.Handle(w, func(ast.Node) {
		stats.nodes++
		if d := w.Depth(); d > stats.maxDepth {
			stats.maxDepth = d
		}
	})
	w.Walk(program)
	return stats
}

func openStore() (*reports.SQLiteStore, error) {
	return reports.NewSQLiteStore(reports.Config{Path: cfg.Reports.Path, Logger: logger})
}

// reportDiagnostics prints the diagnostics of err and returns it marked as
// already reported
func reportDiagnostics(cmd *cobra.Command, err error) error {
	printDiagnostics(cmd.ErrOrStderr(), err, newStyles(colorEnabled()))
	return &reportedError{err: err}
}

func printDiagnostics(w io.Writer, err error, st styles) {
	for _, d := range frontend.Diagnostics(err) {
		fmt.Fprint(w, renderDiagnostic(d, st))
	}
	var list *tncerror.List
	if errors.As(err, &list) && list.Summary() != "" {
		fmt.Fprintln(w, st.Error.Render(list.Summary()))
	}
}
