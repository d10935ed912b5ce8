// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the featex CLI.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"featex/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the diagnostics sink threaded through every component. Built in
// the root PersistentPreRunE so --verbose/--quiet apply to all subcommands.
var logger *zap.SugaredLogger

// rootCmd is the base command for the featex CLI.
var rootCmd = &cobra.Command{
	Use:   "featex",
	Short: "Extract typed features from product descriptions using LLMs",
	Long: `featex runs a batch extraction pipeline over free-form product description
files: it discovers documents in an input directory, asks a text-inference
provider for a fixed set of named features, normalizes the semi-structured
response into typed values, and persists one spreadsheet per document.

Sources are archived after processing — successes under processed_files/,
failures under processed_files/errors/ — so a batch never reprocesses them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")

		l, err := newLogger(verbose, quiet)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./featex.yaml or ~/.config/featex/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress output except errors")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("featex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "featex"))
		}
	}

	viper.SetEnvPrefix("FEATEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	viper.ReadInConfig()
}

// newLogger builds the diagnostics sink. Default level is info; --verbose
// lowers it to debug, --quiet raises it to error.
func newLogger(verbose, quiet bool) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	if quiet {
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
