package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded check runs",
	Long: `List the most recent runs recorded with "sachi check --record", or show
the findings of one run. A run id may be abbreviated to a unique prefix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of runs to list")
	historyCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

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

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := store.GetRun(cmd.Context(), args[0])
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return serrors.ValidationErrorf("no run matches %q", args[0])
		case errors.Is(err, storage.ErrAmbiguous):
			return serrors.ValidationErrorf("run id %q is ambiguous, use more characters", args[0])
		case err != nil:
			return err
		}
		if format == "text" {
			printRun(out, run)
			return nil
		}
		return encode(out, format, run)
	}

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if format != "text" {
		return encode(out, format, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	fmt.Fprintf(out, "%-8s  %-19s  %8s  %7s  %9s  %8s  %6s\n", "ID", "STARTED", "DURATION", "TARGETS", "FUNCTIONS", "WARNINGS", "ERRORS")
	for _, run := range runs {
		fmt.Fprintf(out, "%-8s  %-19s  %8s  %7d  %9d  %8d  %6d\n",
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration(),
			run.Targets, run.Functions, run.Warnings, run.Errors)
	}
	return nil
}

func printRun(out io.Writer, run *storage.Run) {
	fmt.Fprintf(out, "Run:       %s\n", run.ID)
	fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration:  %s\n", run.Duration())
	fmt.Fprintf(out, "Renderer:  %s\n", run.Renderer)
	fmt.Fprintf(out, "Targets:   %d\n", run.Targets)
	fmt.Fprintf(out, "Functions: %d\n", run.Functions)
	fmt.Fprintf(out, "Checks:    %d\n", run.Checks)
	fmt.Fprintf(out, "Warnings:  %d\n", run.Warnings)
	fmt.Fprintf(out, "Errors:    %d\n", run.Errors)

	if len(run.Findings) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, f := range run.Findings {
		fmt.Fprintf(out, "%s:%d:%d %s %s %.2f/%.2f\n", f.Target, f.Line, f.Col, f.Rule, f.Scope, f.Value, f.Goal)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func encode(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return serrors.ValidationErrorf("unknown format %q (expected text, json or yaml)", format)
	}
}
