// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// RenderMode selects how HTML statement fields are turned into text.
type RenderMode string

const (
	// RenderText extracts visible text nodes joined by newlines.
	RenderText RenderMode = "text"

	// RenderMarkdown keeps headings, emphasis, lists, tables and math as Markdown.
	RenderMarkdown RenderMode = "markdown"
)

// Defaults for ExportConfig.
const (
	DefaultInputPath    = "a_oj_problems.json"
	DefaultOutputPrefix = "Export"
	DefaultBatchSize    = 10
	DefaultOwnerID      = 3
	DefaultStartSerial  = 1
)

// ExportConfig holds settings for one export run.
type ExportConfig struct {
	// InputPath is the JSON (or zip of .zjson files) to read.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPrefix names archives as <prefix>_<batch>.zip.
	OutputPrefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// BatchSize is the maximum number of problems per archive.
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// OwnerID tags every exported problem with the target judge account.
	OwnerID int `json:"owner" yaml:"owner" mapstructure:"owner"`

	// StartSerial is the folder number of the first exported problem.
	StartSerial int `json:"start_serial" yaml:"start_serial" mapstructure:"start_serial"`

	// OutputDir receives the archives (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// TempDir is where per-batch working trees are created. Empty means OutputDir.
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty" mapstructure:"temp_dir"`

	// RenderMode selects text or markdown rendering of HTML fields.
	RenderMode RenderMode `json:"render_mode" yaml:"render_mode" mapstructure:"render_mode"`

	// Pairing decides how unequal test sequences are handled.
	Pairing PairingPolicy `json:"pairing" yaml:"pairing" mapstructure:"pairing"`

	// ManifestPath is the SQLite ledger for exported units. Empty disables it.
	ManifestPath string `json:"manifest,omitempty" yaml:"manifest,omitempty" mapstructure:"manifest"`
}

// DefaultExportConfig returns the configuration used when nothing is overridden.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		InputPath:    DefaultInputPath,
		OutputPrefix: DefaultOutputPrefix,
		BatchSize:    DefaultBatchSize,
		OwnerID:      DefaultOwnerID,
		StartSerial:  DefaultStartSerial,
		OutputDir:    ".",
		RenderMode:   RenderText,
		Pairing:      PairTruncate,
	}
}

// Validate reports every invalid setting in c.
func (c ExportConfig) Validate() error {
	var errs []error
	if c.InputPath == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if c.OutputPrefix == "" {
		errs = append(errs, errors.New("output prefix is required"))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize))
	}
	if c.StartSerial < 1 {
		errs = append(errs, fmt.Errorf("start serial must be at least 1, got %d", c.StartSerial))
	}
	switch c.RenderMode {
	case RenderText, RenderMarkdown:
	default:
		errs = append(errs, fmt.Errorf("unknown render mode %q: use text or markdown", c.RenderMode))
	}
	switch c.Pairing {
	case PairTruncate, PairStrict:
	default:
		errs = append(errs, fmt.Errorf("unknown pairing policy %q: use truncate or strict", c.Pairing))
	}
	return errors.Join(errs...)
}

// WorkDir returns the directory for temporary batch trees.
func (c ExportConfig) WorkDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return "."
}
