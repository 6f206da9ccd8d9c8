package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/tnc/internal/reports"
)

var (
	reportsFile   string
	reportsStatus string
	reportsSince  time.Duration
	reportsLimit  int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect archived check runs",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the diagnostics of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the configured retention",
	Args:  cobra.NoArgs,
	RunE:  runReportsPrune,
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsFile, "file", "", "only runs of this file")
	reportsListCmd.Flags().StringVar(&reportsStatus, "status", "", "only runs with this status (ok, failed)")
	reportsListCmd.Flags().DurationVar(&reportsSince, "since", 0, "only runs started within this duration")
	reportsListCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "maximum number of runs (0 for all)")

	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsPruneCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	filter := reports.Filter{
		File:   reportsFile,
		Status: reports.Status(reportsStatus),
		Limit:  reportsLimit,
	}
	switch filter.Status {
	case "", reports.StatusOK, reports.StatusFailed:
	default:
		return fmt.Errorf("unknown status %q: want ok or failed", reportsStatus)
	}
	if reportsSince > 0 {
		filter.Since = time.Now().Add(-reportsSince)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Query(context.Background(), filter)
	if err != nil {
		return err
	}

	st := newStyles(colorEnabled())
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, st.Muted.Render("no runs recorded"))
		return nil
	}
	for _, run := range runs {
		status := st.Success.Render(fmt.Sprintf("%-6s", run.Status))
		if run.Status == reports.StatusFailed {
			status = st.Error.Render(fmt.Sprintf("%-6s", run.Status))
		}
		fmt.Fprintf(out, "%s  %s  %s  %s  tokens=%d statements=%d errors=%d\n",
			run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), status,
			run.File, run.TokenCount, run.StatementCount, run.ErrorCount)
	}
	return nil
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	diagnostics, err := store.Diagnostics(ctx, run.ID)
	if err != nil {
		return err
	}

	st := newStyles(colorEnabled())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "File:       %s\n", st.File.Render(run.File))
	fmt.Fprintf(out, "Started:    %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Duration:   %s\n", run.Duration)
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	fmt.Fprintf(out, "Tokens:     %d\n", run.TokenCount)
	fmt.Fprintf(out, "Statements: %d\n", run.StatementCount)

	if len(diagnostics) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	for _, d := range diagnostics {
		fmt.Fprintf(out, "%s line %d: %s\n", st.Error.Render(d.Code), d.Line, d.Message)
		if d.Near != "" {
			fmt.Fprintf(out, "  Found near: %s\n", st.Near.Render(d.Near))
		}
	}
	return nil
}

func runReportsPrune(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(context.Background(), cfg.Reports.Retention.Duration)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs older than %s\n", deleted, cfg.Reports.Retention.Duration)
	return nil
}
