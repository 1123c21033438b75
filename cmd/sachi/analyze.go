package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/sachi"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single source read from --input or stdin",
	Long: `Analyze a single Python source and render the report.

Examples:
  # Raw report of a file
  sachi analyze -i app/models.py

  # HTML report from stdin
  cat app/models.py | sachi analyze -r html -o report.html`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("renderer", "r", "", "report renderer (default from config: raw)")
	cmd.Flags().StringP("input", "i", "", "source file (default: stdin)")
	cmd.Flags().StringP("output", "o", "", "report file (default: stdout)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	renderer, _ := cmd.Flags().GetString("renderer")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	target := sachi.StdinTarget
	var (
		source []byte
		err    error
	)
	if input != "" {
		target = input
		source, err = os.ReadFile(input)
		if err != nil {
			return serrors.FileSystemErrorf(err, "failed to read %s", input)
		}
	} else {
		source, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return serrors.FileSystemError(err, "failed to read stdin")
		}
	}

	opts, release, err := analysisOptions(!noCache)
	if err != nil {
		return err
	}
	defer release()

	if output == "" {
		opts.Color = useColor(cmd.OutOrStdout())
	}

	result, err := sachi.Run(cmd.Context(), target, source, rendererName(renderer), opts)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), output, result)
}
