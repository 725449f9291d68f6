// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oj-export/internal/archive"
	"github.com/pdiddy/oj-export/internal/loader"
	"github.com/pdiddy/oj-export/internal/manifest"
	"github.com/pdiddy/oj-export/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [input.json]",
	Short: "Convert problems and pack them into batch archives",
	Long: `Export loads the input problems, writes one numbered folder per problem
(0001, 0002, ...) and packs every batch of folders into <prefix>_<n>.zip.
Serial numbers continue across batches. The input may be a JSON array or a
zip of .zjson files. With --manifest, every unit is recorded in a SQLite
ledger for later lookup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := exportConfig(args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	problems, err := loader.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	log.Infow("loaded problems", "input", cfg.InputPath, "problems", len(problems))

	var opts []archive.Option
	var run *manifest.Run
	if cfg.ManifestPath != "" {
		store, err := manifest.Open(cfg.ManifestPath)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err = store.BeginRun(ctx, manifest.RunInfo{InputPath: cfg.InputPath, OwnerID: cfg.OwnerID})
		if err != nil {
			return err
		}
		opts = append(opts, archive.WithRecorder(run))
		log.Infow("recording manifest", "path", cfg.ManifestPath, "run", run.ID)
	}

	result, err := archive.New(cfg, log, opts...).Run(ctx, problems, os.Stdout)
	if run != nil {
		if ferr := run.Finish(context.Background(), result.Total(), len(result.Archives)); ferr != nil {
			log.Warnw("manifest run not finalized", "run", run.ID, "error", ferr)
		}
	}
	if err != nil {
		return fmt.Errorf("export aborted: %w", err)
	}
	return nil
}

// exportConfig builds the run configuration from viper, which layers
// flags over environment over config file over defaults.
func exportConfig(args []string) types.ExportConfig {
	cfg := types.ExportConfig{
		InputPath:    viper.GetString("input"),
		OutputPrefix: viper.GetString("prefix"),
		BatchSize:    viper.GetInt("batch_size"),
		OwnerID:      viper.GetInt("owner"),
		StartSerial:  viper.GetInt("start_serial"),
		OutputDir:    viper.GetString("output_dir"),
		TempDir:      viper.GetString("temp_dir"),
		RenderMode:   types.RenderMode(viper.GetString("render_mode")),
		Pairing:      types.PairingPolicy(viper.GetString("pairing")),
		ManifestPath: viper.GetString("manifest"),
	}
	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	return cfg
}

// registerExportFlags adds the export settings as persistent flags on
// cmd and binds each to its viper key.
func registerExportFlags(cmd *cobra.Command) {
	d := types.DefaultExportConfig()
	flags := cmd.PersistentFlags()

	flags.String("input", d.InputPath, "input JSON array of problems (or zip of .zjson files)")
	flags.String("prefix", d.OutputPrefix, "archive name prefix: <prefix>_<batch>.zip")
	flags.Int("batch-size", d.BatchSize, "maximum problems per archive")
	flags.Int("owner", d.OwnerID, "owner id written to every problem.yaml")
	flags.Int("start-serial", d.StartSerial, "folder number of the first problem")
	flags.String("output-dir", d.OutputDir, "directory for the archives")
	flags.String("temp-dir", "", "directory for temporary batch trees (default: output dir)")
	flags.String("render-mode", string(d.RenderMode), "HTML rendering: text or markdown")
	flags.String("pairing", string(d.Pairing), "unequal test file counts: truncate or strict")
	flags.String("manifest", "", "SQLite manifest path (empty disables the manifest)")

	bindings := map[string]string{
		"input":        "input",
		"prefix":       "prefix",
		"batch_size":   "batch-size",
		"owner":        "owner",
		"start_serial": "start-serial",
		"output_dir":   "output-dir",
		"temp_dir":     "temp-dir",
		"render_mode":  "render-mode",
		"pairing":      "pairing",
		"manifest":     "manifest",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
