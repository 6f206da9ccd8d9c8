package cmd

import (
	"fmt"
	"io"

	tnclog "github.com/msto63/tnc/foundation/core/log"
	"github.com/msto63/tnc/internal/frontend"
	"github.com/msto63/tnc/pkg/core/config"
	"github.com/msto63/tnc/pkg/core/logging"
	"github.com/msto63/tnc/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool

	// Set by the root command before any subcommand runs
	cfg       *config.Config
	logger    *tnclog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "tnc",
	Short: "tnc - Tonic front end",
	Long: `tnc reads Tonic source files, lexes and parses them and reports
diagnostics. Tonic is an indentation based language compiled to C++.

Commands:
  tokens   - print the token stream of a file
  parse    - print the syntax tree of a file
  check    - compile files and report diagnostics
  reports  - inspect archived check runs`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command and prints a returned error to stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvVar+", ./tnc.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log phase timings and counts")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	logCfg := logging.LoggerConfig{
		Name:   version.Name,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
		File:   cfg.Logging.File,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	logger, logCloser, err = logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	tnclog.SetDefault(logger)
	return nil
}

func frontendOptions() frontend.Options {
	return frontend.Options{
		MaxSourceBytes: cfg.Compiler.MaxSourceBytes,
		Logger:         logger,
	}
}

// reportedError marks an error whose diagnostics were already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	_, ok := err.(*reportedError)
	return ok
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", newStyles(colorEnabled()).Error.Render("error:"), err)
}

func colorEnabled() bool {
	return cfg == nil || cfg.Output.ColorEnabled()
}
