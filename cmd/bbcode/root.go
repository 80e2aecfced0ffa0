package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bbcode",
	Short: "Render BBCode markup to HTML",
	Long: `bbcode parses BBCode markup ([b], [url=...], [size=3], ...) and renders it
to HTML. Documents can use [var], [foreach] and [cond] tags that read from a
YAML or JSON parameter file.

Configuration is read from --config (YAML) and BBCODE_* environment variables,
which take precedence over the file.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig installs the global configuration before any subcommand runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	var config *bbcode.Config
	if cfgFile != "" {
		loaded, err := bbcode.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}
		config = loaded
	} else {
		config = bbcode.ConfigFromEnvironment()
		if err := config.Validate(); err != nil {
			return fmt.Errorf("invalid environment configuration: %w", err)
		}
	}

	if verbose {
		config.LogLevel = "debug"
	}

	bbcode.SetGlobalConfig(config)
	bbcode.Debug("Configuration loaded from %q", cfgFile)
	return nil
}
