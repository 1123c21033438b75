package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openCache()
		if err != nil {
			return err
		}
		defer m.Close()

		stats, err := m.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Path:    %s\n", stats.Path)
		fmt.Fprintf(out, "Enabled: %t\n", cfg.Cache.Enabled)
		fmt.Fprintf(out, "TTL:     %s\n", cfg.Cache.TTL)
		fmt.Fprintf(out, "Entries: %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(out, "Size:    %s\n", humanize.Bytes(uint64(stats.Size)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openCache()
		if err != nil {
			return err
		}
		defer m.Close()

		n, err := m.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached reports\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
