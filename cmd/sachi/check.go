package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/ingestion"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/sachi"
	"github.com/sachi/sachi-go/internal/storage"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Analyze files and directories",
	Long: `Analyze every Python file found under the given paths.

Directories are walked recursively, skipping virtualenvs, caches and
VCS metadata. Files that fail to parse are reported and do not stop the run.

Exit codes:
  0  analysis completed
  1  a target could not be analyzed, or sachi failed
  2  a check reached the --fail-on severity

Examples:
  # Text report of a package
  sachi check -r text src/

  # Fail CI on any warning
  sachi check --fail-on warning src/ tests/

  # Open an HTML report in the browser and keep it in the history
  sachi check -r html --open --record src/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("renderer", "r", "", "report renderer (default from config: raw)")
	checkCmd.Flags().StringP("output", "o", "", "report file (default: stdout)")
	checkCmd.Flags().IntP("workers", "w", 0, "concurrent analyses (default from config)")
	checkCmd.Flags().Duration("timeout", 0, "per-file analysis timeout (0 = none)")
	checkCmd.Flags().String("fail-on", "", "exit 2 when a check reaches this severity: never, info, warning, error")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	checkCmd.Flags().Bool("record", false, "save the run to the history store")
	checkCmd.Flags().Bool("open", false, "open the HTML report in the browser")
}

func runCheck(cmd *cobra.Command, args []string) error {
	renderer, _ := cmd.Flags().GetString("renderer")
	output, _ := cmd.Flags().GetString("output")
	workers, _ := cmd.Flags().GetInt("workers")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	failOn, _ := cmd.Flags().GetString("fail-on")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	record, _ := cmd.Flags().GetBool("record")
	open, _ := cmd.Flags().GetBool("open")

	renderer = rendererName(renderer)
	if failOn == "" {
		failOn = cfg.FailOn
	}
	threshold, err := failOnSeverity(failOn)
	if err != nil {
		return err
	}
	if open && renderer != "html" {
		return serrors.ValidationError("--open requires the html renderer")
	}

	ctx := cmd.Context()
	walker := ingestion.NewWalker(cfg.Walk.Extensions, cfg.Walk.ExcludeDirs)
	targets, err := walker.Collect(ctx, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return serrors.ValidationError("no source files found")
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logDirectoryStats(walker, args)
	}
	logger.WithField("targets", len(targets)).Debug("Collected targets")

	opts, release, err := analysisOptions(!noCache)
	if err != nil {
		return err
	}
	defer release()

	if workers > 0 {
		opts.Workers = workers
	}
	opts.Timeout = timeout
	if output == "" && !open {
		opts.Color = useColor(cmd.OutOrStdout())
	}

	startedAt := time.Now()
	r, err := sachi.AnalyzeTargets(ctx, targets, opts)
	if err != nil {
		return err
	}
	duration := time.Since(startedAt)

	rendered, err := sachi.Render(r, renderer, opts)
	if err != nil {
		return err
	}

	if open && output == "" {
		output, err = tempReport()
		if err != nil {
			return err
		}
	}
	if err := writeOutput(cmd.OutOrStdout(), output, rendered); err != nil {
		return err
	}
	if open {
		if err := browser.OpenFile(output); err != nil {
			logger.WithError(err).Warn("Failed to open browser")
		}
	}

	if record || cfg.History.Enabled {
		if err := recordRun(cmd, r, renderer, startedAt, duration); err != nil {
			// The report was already written
			logger.WithError(err).Warn("Failed to record run")
		}
	}

	logger.WithFields(logrus.Fields{
		"targets":  len(targets),
		"duration": duration.String(),
	}).Info("Analysis complete")

	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			logger.WithField("target", e.Target).WithError(e.Err).Error("Target not analyzed")
		}
		return &exitCodeError{code: exitError, err: fmt.Errorf("%d of %d targets could not be analyzed", len(r.Errors), len(targets))}
	}
	if threshold.Rank() > 0 && r.MaxSeverity().Rank() >= threshold.Rank() {
		return &exitCodeError{code: exitThresholdHit}
	}
	return nil
}

// logDirectoryStats logs how many files of each directory target are
// analyzed or skipped
func logDirectoryStats(walker *ingestion.Walker, targets []string) {
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			continue
		}
		stats, err := walker.CountFiles(target)
		if err != nil {
			logger.WithError(err).WithField("target", target).Debug("Failed to count files")
			continue
		}
		logger.WithFields(logrus.Fields{
			"target":  target,
			"total":   stats.Total,
			"source":  stats.Source,
			"skipped": stats.Skipped,
		}).Debug("Scanned directory")
	}
}

// failOnSeverity maps a fail_on level to the minimal severity that fails the
// run. "never" maps to ok, which never fails.
func failOnSeverity(level string) (report.Severity, error) {
	switch level {
	case "", "never":
		return report.SeverityOK, nil
	case "info":
		return report.SeverityInfo, nil
	case "warning":
		return report.SeverityWarning, nil
	case "error":
		return report.SeverityError, nil
	default:
		return "", serrors.ValidationErrorf("invalid fail-on level %q (expected never, info, warning or error)", level)
	}
}

func tempReport() (string, error) {
	f, err := os.CreateTemp("", "sachi-report-*.html")
	if err != nil {
		return "", serrors.FileSystemError(err, "failed to create report file")
	}
	defer f.Close()
	return f.Name(), nil
}

func recordRun(cmd *cobra.Command, r *report.Report, renderer string, startedAt time.Time, duration time.Duration) error {
	store, err := storage.Open(cmd.Context(), storage.Options{
		Type:        cfg.History.Type,
		LocalPath:   cfg.History.LocalPath,
		PostgresDSN: cfg.History.PostgresDSN,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	run := storage.NewRun(r, renderer, startedAt, duration)
	if err := store.SaveRun(cmd.Context(), run); err != nil {
		return err
	}
	logger.WithField("run", run.ID).Info("Run recorded")
	return nil
}
