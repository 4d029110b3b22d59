// Package config handles configuration loading from files, environment variables, and flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/state"
	"github.com/spf13/viper"
)

const (
	DefaultTargetPlatform = "sqlmi"
	DefaultOutputDir      = "./migration-output"

	answerPrefix = "answer_"
)

// AnswerKeys lists the wizard controls that can be preset. Each is read from
// the ANSWER_<CONTROL> key.
func AnswerKeys() []string {
	return []string{
		"azure_account",
		"target_subscription",
		"target_server",
		"migration_mode",
		"container_type",
		"network_share_location",
		"windows_user",
		"storage_subscription",
		"storage_account",
		"file_share",
		"blob_container",
		"migration_controller",
		"node_name",
	}
}

// Config holds all configuration for the migration wizard.
type Config struct {
	TargetPlatform string
	OutputDir      string
	NonInteractive bool
	SkipAzure      bool
	AzureAccount   string
	Debug          bool

	// Answers maps control names to preset values. Controls without an
	// entry are prompted for or keep their default.
	Answers map[string]string
}

// Load initializes configuration from file, environment variables, and flags.
func Load(configFile string) (*Config, error) {
	viper.SetDefault("target_platform", DefaultTargetPlatform)
	viper.SetDefault("output_dir", DefaultOutputDir)

	viper.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	answers := make(map[string]string)
	for _, key := range AnswerKeys() {
		if v := strings.TrimSpace(viper.GetString(answerPrefix + key)); v != "" {
			answers[key] = v
		}
	}

	azureAccount := viper.GetString("azure_account")
	if _, ok := answers["azure_account"]; !ok && azureAccount != "" {
		answers["azure_account"] = azureAccount
	}

	cfg := &Config{
		TargetPlatform: viper.GetString("target_platform"),
		OutputDir:      viper.GetString("output_dir"),
		NonInteractive: viper.GetBool("non_interactive"),
		SkipAzure:      viper.GetBool("skip_azure"),
		AzureAccount:   azureAccount,
		Debug:          viper.GetBool("debug"),
		Answers:        answers,
	}

	return cfg, nil
}

// Validate checks that required configuration is present and that preset
// answers name known choices.
func (c *Config) Validate() error {
	if c.TargetPlatform == "" {
		return fmt.Errorf("target_platform is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if v, ok := c.Answers["migration_mode"]; ok {
		if _, err := state.ParseMigrationMode(v); err != nil {
			return fmt.Errorf("invalid answer_migration_mode: %w", err)
		}
	}
	if v, ok := c.Answers["container_type"]; ok {
		if _, err := state.ParseNetworkContainerType(v); err != nil {
			return fmt.Errorf("invalid answer_container_type: %w", err)
		}
	}
	if c.NonInteractive {
		for _, key := range []string{"target_subscription", "target_server"} {
			if c.Answers[key] == "" {
				return fmt.Errorf("answer_%s is required for non-interactive runs", key)
			}
		}
	}
	return nil
}

// LoadConfig loads configuration using the global Viper instance.
func LoadConfig() (*Config, error) {
	return Load("")
}
