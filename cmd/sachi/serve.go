package main

import (
	"github.com/spf13/cobra"

	"github.com/sachi/sachi-go/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Expose sachi to MCP clients such as editors and agents.

The server offers two tools: sachi_analyze scores a source string or a
file, and sachi_rules lists the coding standard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, _ := cmd.Flags().GetString("renderer")

		opts, release, err := analysisOptions(true)
		if err != nil {
			return err
		}
		defer release()

		logger.Info("MCP server listening on stdio")
		return mcp.Serve(cmd.Context(), mcp.Options{
			Version:  Version,
			Analysis: opts,
			Limits:   limits(),
			Renderer: renderer,
			Logger:   logger,
		})
	},
}

func init() {
	serveCmd.Flags().StringP("renderer", "r", "text", "renderer used for the tool text output")
}
