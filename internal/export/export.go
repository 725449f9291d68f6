// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes one problem as an export unit: a serial-numbered
// folder in the target judge's import layout.
//
//	0001/
//	  problem.md
//	  problem.yaml
//	  testdata/
//	    1.in  1.out  ...  config.yml
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/oj-export/internal/render"
	"github.com/pdiddy/oj-export/pkg/types"
)

const (
	statementFile = "problem.md"
	metadataFile  = "problem.yaml"
	testdataDir   = "testdata"
	configFile    = "config.yml"
)

// Builder renders problems and writes them as export units.
type Builder struct {
	ownerID int
	text    render.TextFunc
	pairing types.PairingPolicy
	log     *zap.SugaredLogger
}

// NewBuilder returns a Builder configured from cfg. A nil log discards output.
func NewBuilder(cfg types.ExportConfig, log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pairing := cfg.Pairing
	if pairing == "" {
		pairing = types.PairTruncate
	}
	return &Builder{
		ownerID: cfg.OwnerID,
		text:    render.ForMode(cfg.RenderMode),
		pairing: pairing,
		log:     log.Named("export"),
	}
}

// Build writes problem p into baseDir/<serial as 4 digits>. Existing
// directories are reused and files are overwritten.
func (b *Builder) Build(baseDir string, serial int, p types.ProblemRecord) (types.ExportUnit, error) {
	if serial < 1 {
		return types.ExportUnit{}, fmt.Errorf("serial must be positive, got %d", serial)
	}

	cases, dropped, err := types.PairTestCases(p, b.pairing)
	if err != nil {
		return types.ExportUnit{}, fmt.Errorf("problem %s: %w", p.ProblemID, err)
	}
	if dropped > 0 {
		b.log.Warnw("unpaired test files dropped",
			"problem", p.ProblemID,
			"inputs", len(p.TestInputFiles),
			"outputs", len(p.TestOutputFiles),
			"dropped", dropped,
		)
	}

	unit := types.ExportUnit{
		Serial:       serial,
		Dir:          types.SerialName(serial),
		ProblemID:    p.ProblemID,
		Title:        p.Title,
		TestCases:    len(cases),
		DroppedCases: dropped,
	}

	unitDir := filepath.Join(baseDir, unit.Dir)
	testDir := filepath.Join(unitDir, testdataDir)
	if err := os.MkdirAll(testDir, 0o755); err != nil {
		return unit, fmt.Errorf("creating %s: %w", testDir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(unitDir, statementFile), render.Statement(p, len(cases), b.text)},
		{filepath.Join(unitDir, metadataFile), render.Metadata(p, b.ownerID)},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return unit, fmt.Errorf("writing %s: %w", f.path, err)
		}
	}

	if err := WriteTestCases(testDir, cases); err != nil {
		return unit, err
	}
	configPath := filepath.Join(testDir, configFile)
	if err := os.WriteFile(configPath, []byte(render.GradingConfig(p.TimeLimit(), p.MemoryLimit)), 0o644); err != nil {
		return unit, fmt.Errorf("writing %s: %w", configPath, err)
	}

	b.log.Debugw("built export unit", "serial", unit.Dir, "problem", p.ProblemID, "cases", len(cases))
	return unit, nil
}

// WriteTestCases writes each case as <index>.in and <index>.out in dir.
// Blobs are written byte for byte; no newline normalization is applied.
func WriteTestCases(dir string, cases []types.TestCase) error {
	for _, tc := range cases {
		inPath := filepath.Join(dir, fmt.Sprintf("%d.in", tc.Index))
		if err := os.WriteFile(inPath, []byte(tc.Input), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", inPath, err)
		}
		outPath := filepath.Join(dir, fmt.Sprintf("%d.out", tc.Index))
		if err := os.WriteFile(outPath, []byte(tc.Output), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return nil
}
