// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oj-export/internal/manifest"
	"github.com/pdiddy/oj-export/pkg/types"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the export manifest (list, export)",
	Long: `Manifest reads the SQLite ledger written by "export --manifest" and maps
each target serial back to the source problem id, title and archive.`,
}

// --- list subcommand ---

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the units of a run (default: latest run)",
	RunE:  runManifestList,
}

func runManifestList(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetString("run")
	units, err := store.Units(cmd.Context(), runID)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatUnits(units, jsonOutput)
}

func formatUnits(units []types.ExportUnit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(units)
	}

	if len(units) == 0 {
		fmt.Println("No units recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-40s  %-16s  %s\n", "Serial", "Problem", "Title", "Archive", "Cases")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 86))
	for _, u := range units {
		title := u.Title
		if r := []rune(title); len(r) > 40 {
			title = string(r[:37]) + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-40s  %-16s  %d\n", u.Dir, u.ProblemID, title, u.Archive, u.TestCases)
	}
	fmt.Fprintf(os.Stdout, "\n%d units\n", len(units))
	return nil
}

// --- runs subcommand ---

var manifestRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded export runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openManifest()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %-30s  %d problems  %d archives\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.InputPath, r.Problems, r.Archives)
		}
		return nil
	},
}

// --- export subcommand ---

var manifestExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a run's manifest to YAML or JSON",
	RunE:  runManifestExport,
}

func runManifestExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	runID, _ := cmd.Flags().GetString("run")

	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if out == "" {
			out = "manifest.yaml"
		}
		if err := store.ExportYAML(cmd.Context(), runID, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "manifest.json"
		}
		if err := store.ExportJSON(cmd.Context(), runID, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Println("Exported to", out)
	return nil
}

func openManifest() (*manifest.Store, error) {
	path := viper.GetString("manifest")
	if path == "" {
		return nil, errors.New("manifest path required: pass --manifest or set manifest in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return manifest.Open(path)
}

func init() {
	manifestListCmd.Flags().String("run", "", "run id (default: latest run)")
	manifestListCmd.Flags().Bool("json", false, "output units as JSON")

	manifestExportCmd.Flags().String("run", "", "run id (default: latest run)")
	manifestExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	manifestExportCmd.Flags().String("out", "", "output path (default: manifest.yaml or manifest.json)")

	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestRunsCmd)
	manifestCmd.AddCommand(manifestExportCmd)

	rootCmd.AddCommand(manifestCmd)
}
