// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"featex/pkg/types"
)

func setDefaults() {
	viper.SetDefault("llm.provider", types.DefaultProvider)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.max_retries", types.DefaultMaxRetries)
	viper.SetDefault("llm.base_delay", types.DefaultBaseDelay)

	viper.SetDefault("paths.features", types.DefaultFeaturesFile)
	viper.SetDefault("paths.input_dir", types.DefaultInputDir)
	viper.SetDefault("paths.output_dir", types.DefaultOutputDir)
	viper.SetDefault("paths.processed_dir", types.DefaultProcessedDir)
	viper.SetDefault("paths.file_pattern", types.DefaultFilePattern)
	viper.SetDefault("paths.summary_file", types.DefaultSummaryFile)
	viper.SetDefault("paths.history_db", types.DefaultHistoryDB)

	viper.SetDefault("processing.batch_size", types.DefaultBatchSize)
}

// loadConfig assembles the effective configuration from defaults, the config
// file, environment variables, and bound flags. Invalid values are replaced
// with defaults and logged, never accepted.
func loadConfig() types.Config {
	cfg := types.Config{
		LLM: types.LLMConfig{
			Provider:   viper.GetString("llm.provider"),
			Model:      viper.GetString("llm.model"),
			APIKey:     viper.GetString("llm.api_key"),
			MaxRetries: viper.GetInt("llm.max_retries"),
			BaseDelay:  viper.GetDuration("llm.base_delay"),
		},
		Paths: types.PathsConfig{
			Features:     viper.GetString("paths.features"),
			InputDir:     viper.GetString("paths.input_dir"),
			OutputDir:    viper.GetString("paths.output_dir"),
			ProcessedDir: viper.GetString("paths.processed_dir"),
			FilePattern:  viper.GetString("paths.file_pattern"),
			SummaryFile:  viper.GetString("paths.summary_file"),
			HistoryDB:    viper.GetString("paths.history_db"),
		},
		Processing: types.ProcessingConfig{
			BatchSize: viper.GetInt("processing.batch_size"),
		},
	}

	// A bare number for base_delay parses as nanoseconds; treat it as seconds.
	if cfg.LLM.BaseDelay > 0 && cfg.LLM.BaseDelay < time.Millisecond {
		cfg.LLM.BaseDelay *= time.Second / time.Nanosecond
	}

	for _, field := range cfg.Sanitize() {
		logger.Warnw("invalid configuration value, using default", "field", field)
	}

	return cfg
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config resolves defaults, the config file, FEATEX_* environment variables,
and flags, then prints the result as YAML. Useful as a starting point for a
featex.yaml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = "[redacted]"
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
