// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/oj-export/pkg/types"
)

// Document is the exported form of one run.
type Document struct {
	Run   RunSummary         `json:"run" yaml:"run"`
	Units []types.ExportUnit `json:"units" yaml:"units"`
}

// ExportYAML writes the run's manifest to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, runID, path string) error {
	doc, err := s.document(ctx, runID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeFile(path, data)
}

// ExportJSON writes the run's manifest to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, runID, path string) error {
	doc, err := s.document(ctx, runID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeFile(path, data)
}

func (s *Store) document(ctx context.Context, runID string) (Document, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return Document{}, err
	}
	if len(runs) == 0 {
		return Document{}, ErrNoRuns
	}

	run := runs[0]
	if runID != "" {
		found := false
		for _, r := range runs {
			if r.ID == runID {
				run, found = r, true
				break
			}
		}
		if !found {
			return Document{}, fmt.Errorf("run %s not found", runID)
		}
	}

	units, err := s.Units(ctx, run.ID)
	if err != nil {
		return Document{}, err
	}
	return Document{Run: run, Units: units}, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
