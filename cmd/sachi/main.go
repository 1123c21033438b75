package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sachi/sachi-go/internal/config"
	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logging.Logger
	cfg     *config.Config
)

// Exit codes
const (
	exitOK           = 0
	exitError        = 1
	exitThresholdHit = 2
)

// exitCodeError carries a specific exit code up to main
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger = nil
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if logger != nil {
		logger.Close()
	}
	if err == nil {
		return exitOK
	}

	code := exitError
	var coded *exitCodeError
	if errors.As(err, &coded) {
		code = coded.code
		err = coded.err
	}
	if err != nil {
		printError(stderr, err)
	}
	return code
}

// printError writes err to w, with its type, context and stack under -v
func printError(w io.Writer, err error) {
	var serr *serrors.Error
	if verbose && errors.As(err, &serr) {
		fmt.Fprintf(w, "Error: %s", serr.DetailedString())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "sachi",
	Short: "sachi - entropy-based coding standard checks for Python",
	Long: `sachi scans Python source code, scores every function against a small
coding standard and prints the checks that fall below their goal.

Without a subcommand, sachi reads a single source from --input or stdin
and writes the rendered report to --output or stdout.`,
	Version:           Version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runAnalyze,
}

// setup loads the configuration and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	result := cfg.Validate()
	if result.HasErrors() {
		return result.Err()
	}

	logCfg := logging.Config{
		Level:      cfg.Log.Level,
		Output:     cmd.ErrOrStderr(),
		OutputFile: cfg.Log.File,
		MaxSize:    int64(cfg.Log.MaxSizeMB) * 1024 * 1024,
		MaxBackups: cfg.Log.MaxBackups,
		JSONFormat: cfg.Log.Format == "json",
	}
	if verbose {
		logCfg.Level = logging.DebugConfig().Level
	}

	logger, err = logging.NewLogger(logCfg)
	if err != nil {
		return err
	}

	for _, warn := range result.Warnings {
		logger.Warn(warn)
	}

	logger.WithField("version", Version).Debug("Configuration loaded")
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .sachi/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addAnalyzeFlags(rootCmd)

	// Set custom version template
	rootCmd.SetVersionTemplate(`sachi {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderersCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
