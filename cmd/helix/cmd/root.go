/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/helixcode/pkg/config"
	"github.com/ssargent/helixcode/pkg/di"
)

const skipConfigAnnotation = "helix/skip-config"

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "helix",
	Short: "helix - error-correcting nucleotide codec",
	Long: `helix encodes any file as a single nucleotide record (A, C, G, T) and back.

Every byte is protected by an extended Hamming code: a single flipped bit per
byte is repaired on decode and two flipped bits are detected and reported.
Work is spread over a pool of workers; output order never depends on them.

Examples:
  helix encode notes.txt
  helix decode notes.txt.fa --workers 8
  helix inspect A`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}
		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/helix/config.yaml)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "number of parallel workers (default from config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
}

// loadConfig reads the config file, applies flag overrides and hands the
// result to the container
func loadConfig(cmd *cobra.Command) error {
	if container == nil {
		return errors.New("dependency container not initialized")
	}

	configPath, explicit := configPathFlag(cmd)

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else if explicit {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	return container.SetConfig(cfg)
}

func configPathFlag(cmd *cobra.Command) (string, bool) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		return config.GetDefaultConfigPath(), false
	}
	return configPath, true
}

// applyFlagOverrides copies every flag the user set onto cfg
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if changed("log-level") {
		if cfg.Logging.Level, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if changed("line-width") {
		if cfg.LineWidth, err = flags.GetInt("line-width"); err != nil {
			return err
		}
	}
	if changed("compress") {
		if cfg.Compress, err = flags.GetBool("compress"); err != nil {
			return err
		}
	}
	if changed("policy") {
		if cfg.SymbolPolicy, err = flags.GetString("policy"); err != nil {
			return err
		}
	}
	if changed("placeholder") {
		if cfg.Placeholder, err = flags.GetString("placeholder"); err != nil {
			return err
		}
	}
	if changed("metrics-file") {
		if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
			return err
		}
	}
	return nil
}
