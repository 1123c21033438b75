package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sachi/sachi-go/internal/mcp/tools"
	"github.com/sachi/sachi-go/internal/renderers"
)

var renderersCmd = &cobra.Command{
	Use:   "renderers",
	Short: "List the available report renderers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range renderers.Names() {
			marker := ""
			if name == renderers.DefaultRenderer {
				marker = " (default)"
			}
			fmt.Fprintf(out, "%s%s\n", name, marker)
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules of the coding standard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, rule := range tools.ListRules(limits()).Rules {
			fmt.Fprintf(out, "%-6s %-12s limit=%-3d %s\n", rule.Code, rule.Checker, rule.Limit, rule.Description)
		}
		return nil
	},
}
