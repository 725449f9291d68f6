// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive groups problems into fixed-size batches, builds each
// batch's export units in a temporary tree and compresses the tree into
// <prefix>_<batch>.zip. Serial numbers run continuously across batches.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/oj-export/internal/export"
	"github.com/pdiddy/oj-export/pkg/types"
)

// Recorder receives every unit once its archive has been written.
type Recorder interface {
	RecordUnit(ctx context.Context, unit types.ExportUnit) error
}

// Batch is a half-open range [Start, End) of problem indexes with its
// 1-based archive Index.
type Batch struct {
	Index int
	Start int
	End   int
}

// Len returns the number of problems in the batch.
func (b Batch) Len() int { return b.End - b.Start }

// Partition splits n items into consecutive batches of at most size items.
// Only the last batch may be smaller. n <= 0 yields no batches.
func Partition(n, size int) []Batch {
	if n <= 0 || size <= 0 {
		return nil
	}
	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		batches = append(batches, Batch{
			Index: len(batches) + 1,
			Start: start,
			End:   min(start+size, n),
		})
	}
	return batches
}

// BatchError reports the batch, and when known the problem, that failed.
type BatchError struct {
	Batch     int
	Serial    int
	ProblemID string
	Err       error
}

func (e *BatchError) Error() string {
	if e.Serial > 0 {
		return fmt.Sprintf("batch %d: serial %s (problem %s): %v", e.Batch, types.SerialName(e.Serial), e.ProblemID, e.Err)
	}
	return fmt.Sprintf("batch %d: %v", e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Result holds the outcome of an export run.
type Result struct {
	Archives []string
	Units    []types.ExportUnit
}

// Total returns the number of problems exported.
func (r Result) Total() int {
	return len(r.Units)
}

// Archiver runs the batch export.
type Archiver struct {
	cfg      types.ExportConfig
	builder  *export.Builder
	recorder Recorder
	log      *zap.SugaredLogger
}

// Option customizes an Archiver.
type Option func(*Archiver)

// WithRecorder records every archived unit with r.
func WithRecorder(r Recorder) Option {
	return func(a *Archiver) { a.recorder = r }
}

// New returns an Archiver for cfg. A nil log discards output.
func New(cfg types.ExportConfig, log *zap.SugaredLogger, opts ...Option) *Archiver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	a := &Archiver{
		cfg:     cfg,
		builder: export.NewBuilder(cfg, log),
		log:     log.Named("archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ArchiveName returns the file name of the 1-based batch index.
func (a *Archiver) ArchiveName(batch int) string {
	return fmt.Sprintf("%s_%d.zip", a.cfg.OutputPrefix, batch)
}

// Run exports problems batch by batch, printing one status line per
// archive to w. It stops at the first failure; archives written for
// earlier batches are left intact.
func (a *Archiver) Run(ctx context.Context, problems []types.ProblemRecord, w io.Writer) (Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return Result{}, err
	}
	for _, dir := range []string{a.outputDir(), a.cfg.WorkDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	var result Result
	for _, batch := range Partition(len(problems), a.cfg.BatchSize) {
		units, err := a.runBatch(ctx, batch, problems[batch.Start:batch.End])
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", a.ArchiveName(batch.Index), err)
			return result, err
		}
		name := a.ArchiveName(batch.Index)
		result.Archives = append(result.Archives, name)
		result.Units = append(result.Units, units...)
		fmt.Fprintf(w, "archived: %s (%d problems, %s-%s)\n",
			name, batch.Len(), units[0].Dir, units[len(units)-1].Dir)
	}

	fmt.Fprintf(w, "\nExport summary: %d problems in %d archives\n", result.Total(), len(result.Archives))
	return result, nil
}

// runBatch builds one batch in a fresh temporary tree and zips it. The
// tree is removed on every return path.
func (a *Archiver) runBatch(ctx context.Context, batch Batch, problems []types.ProblemRecord) ([]types.ExportUnit, error) {
	tmp, err := os.MkdirTemp(a.cfg.WorkDir(), fmt.Sprintf("tmp_batch_%d_", batch.Index))
	if err != nil {
		return nil, &BatchError{Batch: batch.Index, Err: fmt.Errorf("creating temporary directory: %w", err)}
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			a.log.Warnw("temporary directory not removed", "dir", tmp, "error", err)
		}
	}()

	name := a.ArchiveName(batch.Index)
	units := make([]types.ExportUnit, 0, batch.Len())
	for i, p := range problems {
		serial := a.cfg.StartSerial + batch.Start + i
		if err := ctx.Err(); err != nil {
			return nil, &BatchError{Batch: batch.Index, Serial: serial, ProblemID: p.ProblemID, Err: err}
		}
		unit, err := a.builder.Build(tmp, serial, p)
		if err != nil {
			return nil, &BatchError{Batch: batch.Index, Serial: serial, ProblemID: p.ProblemID, Err: err}
		}
		unit.Batch = batch.Index
		unit.Archive = name
		units = append(units, unit)
	}

	dest := filepath.Join(a.outputDir(), name)
	if err := WriteZip(tmp, dest); err != nil {
		return nil, &BatchError{Batch: batch.Index, Err: err}
	}
	a.log.Infow("archive written", "archive", dest, "problems", len(units))

	if a.recorder != nil {
		for _, u := range units {
			if err := a.recorder.RecordUnit(ctx, u); err != nil {
				return nil, &BatchError{Batch: batch.Index, Serial: u.Serial, ProblemID: u.ProblemID, Err: fmt.Errorf("recording manifest: %w", err)}
			}
		}
	}
	return units, nil
}

func (a *Archiver) outputDir() string {
	if a.cfg.OutputDir == "" {
		return "."
	}
	return a.cfg.OutputDir
}
