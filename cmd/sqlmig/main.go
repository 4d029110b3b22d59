// Package main provides the entry point for the sqlmig CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/codebypatrickleung/sqlmi-wizard/internal/config"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/view"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sqlmig",
	Short:   "sqlmig - SQL Managed Instance Migration Wizard",
	Long:    `sqlmig is a Go-based CLI wizard that collects the settings for migrating SQL Server databases to Azure SQL Managed Instance.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(false)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the migration summary from preset answers without writing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(true)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sqlmig-config.env)")

	flags := []struct {
		name, shorthand, usage, defaultValue string
	}{
		{"target-platform", "", "Migration target (sqlmi)", config.DefaultTargetPlatform},
		{"output-dir", "o", "Directory for the migration document", config.DefaultOutputDir},
		{"azure-account", "", "Azure account used for the migration", ""},
	}
	for _, f := range flags {
		rootCmd.PersistentFlags().StringP(f.name, f.shorthand, f.defaultValue, f.usage)
	}

	boolFlags := []struct {
		name, usage string
	}{
		{"non-interactive", "Answer every control from presets and fail on incomplete pages"},
		{"skip-azure", "Skip Azure lookups and enter every value by hand"},
		{"debug", "Enable debug logging"},
	}
	for _, f := range boolFlags {
		rootCmd.PersistentFlags().Bool(f.name, false, f.usage)
	}

	bindings := map[string]string{
		"TARGET_PLATFORM": "target-platform",
		"OUTPUT_DIR":      "output-dir",
		"AZURE_ACCOUNT":   "azure-account",
		"NON_INTERACTIVE": "non-interactive",
		"SKIP_AZURE":      "skip-azure",
		"DEBUG":           "debug",
	}

	// Preset answers, e.g. --answer-target-server binds ANSWER_TARGET_SERVER
	for _, key := range config.AnswerKeys() {
		flag := "answer-" + strings.ReplaceAll(key, "_", "-")
		rootCmd.PersistentFlags().String(flag, "", fmt.Sprintf("Preset answer for %s, the prompt default when interactive", strings.ReplaceAll(key, "_", " ")))
		bindings["ANSWER_"+strings.ToUpper(key)] = flag
	}

	for env, flag := range bindings {
		if err := viper.BindPFlag(env, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind flag %s to env %s: %v\n", flag, env, err)
		}
	}

	rootCmd.AddCommand(summaryCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("sqlmig-config")
		viper.SetConfigType("env")
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(preview bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if preview {
		cfg.NonInteractive = true
	}

	timestamp := logger.GetTimestamp()
	logFileName := fmt.Sprintf("sqlmig-%s.log", timestamp)

	log, err := logger.NewWithFile(cfg.Debug, logFileName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Infof("sqlmig version %s", version)
	log.Infof("Log file: %s", logFileName)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var answers view.Answerer = view.PresetAnswers(cfg.Answers)
	if !cfg.NonInteractive {
		answers = view.NewPrompter(os.Stdin, os.Stdout).WithDefaults(cfg.Answers)
	}
	term := view.NewTerminal(os.Stdout, answers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mgr, err := workflow.NewManager(cfg, log, term, version)
	if err != nil {
		return fmt.Errorf("failed to create workflow manager: %w", err)
	}

	if preview {
		_, err = mgr.Preview(ctx)
	} else {
		_, err = mgr.Run(ctx)
	}
	return err
}
