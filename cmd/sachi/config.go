package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sachi/sachi-go/internal/config"
	serrors "github.com/sachi/sachi-go/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sachi configuration",
	Long:  `View and initialize sachi configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get configuration value",
	Long: `Get a configuration value by its dotted key.

Examples:
  sachi config get rules.max_calls
  SACHI_CACHE_ENABLED=false sachi config get cache.enabled`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok, err := config.Get(cfgFile, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return serrors.ValidationErrorf("unknown configuration key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var (
	initForce  bool
	initGlobal bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Write the default configuration to .sachi/config.yaml, or to
~/.sachi/config.yaml with --global.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&initGlobal, "global", false, "write to the home directory")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		dir := ".sachi"
		if initGlobal {
			home, err := os.UserHomeDir()
			if err != nil {
				return serrors.FileSystemError(err, "failed to locate home directory")
			}
			dir = filepath.Join(home, ".sachi")
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return serrors.ValidationErrorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}
