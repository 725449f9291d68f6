// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the oj-export CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/oj-export/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the process logger, built in PersistentPreRunE.
var log = zap.NewNop().Sugar()

// rootCmd is the base command for the oj-export CLI. Run without a
// subcommand it performs a full export with the configured defaults.
var rootCmd = &cobra.Command{
	Use:   "oj-export",
	Short: "Convert ZeroJudge problem exports into Hydro import archives",
	Long: `oj-export reads a JSON array of problems exported from a ZeroJudge-style
judge, renders each problem into the Hydro import layout (problem.md,
problem.yaml, testdata/), and packs the folders into numbered zip archives
of a fixed batch size.

Running oj-export with no subcommand is the same as "oj-export export".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := logger.New(logger.Options{
			Level: viper.GetString("log_level"),
			File:  viper.GetString("log_file"),
		})
		if err != nil {
			return err
		}
		log = l
		if used := viper.ConfigFileUsed(); used != "" {
			log.Infow("using config file", "path", used)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: runExport,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./oj-export.yaml or ~/.config/oj-export/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this rotating file")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	registerExportFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("oj-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "oj-export"))
		}
	}

	viper.SetEnvPrefix("OJ_EXPORT")
	viper.AutomaticEnv()

	configErr = readConfig()
}

// configErr is a config file failure, returned from PersistentPreRunE.
var configErr error

// readConfig loads the config file. A missing file is fine unless it was
// named explicitly with --config.
func readConfig() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config file: %w", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
