// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// ProblemRecord holds one problem as exported by the source judge.
// HTML-bearing fields are kept verbatim; they are rendered to text only
// when an export unit is built.
type ProblemRecord struct {
	// ProblemID is the source judge identifier, kept as written in the
	// input (numeric ids such as 1001 and ZeroJudge ids such as "a001").
	ProblemID string `json:"problem_id" yaml:"problem_id"`

	// Title is the display title.
	Title string `json:"title" yaml:"title"`

	// Content is the HTML problem statement.
	Content string `json:"content" yaml:"content"`

	// InputDescription is the HTML description of the input format.
	InputDescription string `json:"input_description" yaml:"input_description"`

	// OutputDescription is the HTML description of the output format.
	OutputDescription string `json:"output_description" yaml:"output_description"`

	// Hint is the HTML hint shown below the limits.
	Hint string `json:"hint" yaml:"hint"`

	// SampleInput and SampleOutput are HTML-formatted samples.
	SampleInput  string `json:"sample_input" yaml:"sample_input"`
	SampleOutput string `json:"sample_output" yaml:"sample_output"`

	// Keywords lists the tags in source order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// TimeLimits holds per-case time limits in seconds. Only the first
	// element is used. Values keep their literal JSON text.
	TimeLimits []json.Number `json:"time_limits" yaml:"time_limits"`

	// MemoryLimit is the memory limit in megabytes.
	MemoryLimit json.Number `json:"memory_limit" yaml:"memory_limit"`

	// TestInputFiles and TestOutputFiles are raw test blobs paired by index.
	TestInputFiles  []string `json:"test_input_files" yaml:"test_input_files"`
	TestOutputFiles []string `json:"test_output_files" yaml:"test_output_files"`
}

// TimeLimit returns the first time limit, or "" when none is set.
func (p ProblemRecord) TimeLimit() json.Number {
	if len(p.TimeLimits) == 0 {
		return ""
	}
	return p.TimeLimits[0]
}

// TestCase is one input/output pair, numbered from 1.
type TestCase struct {
	Index  int
	Input  string
	Output string
}

// PairingPolicy decides how unequal test input/output sequences are paired.
type PairingPolicy string

const (
	// PairTruncate pairs up to the shorter sequence and drops the rest.
	PairTruncate PairingPolicy = "truncate"

	// PairStrict rejects records whose sequences differ in length.
	PairStrict PairingPolicy = "strict"
)

// PairingError reports a length mismatch under PairStrict.
type PairingError struct {
	Inputs  int
	Outputs int
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("test input/output count mismatch: %d inputs, %d outputs", e.Inputs, e.Outputs)
}

// PairTestCases pairs the record's test blobs by index according to policy.
// It returns the pairs and the number of unmatched blobs that were dropped.
// Under PairTruncate the i-th input goes with the i-th output and trailing
// blobs of the longer sequence are dropped. Under PairStrict any mismatch
// returns a *PairingError.
func PairTestCases(p ProblemRecord, policy PairingPolicy) ([]TestCase, int, error) {
	in, out := len(p.TestInputFiles), len(p.TestOutputFiles)
	if in != out && policy == PairStrict {
		return nil, 0, &PairingError{Inputs: in, Outputs: out}
	}

	n := min(in, out)
	cases := make([]TestCase, n)
	for i := 0; i < n; i++ {
		cases[i] = TestCase{
			Index:  i + 1,
			Input:  p.TestInputFiles[i],
			Output: p.TestOutputFiles[i],
		}
	}
	return cases, max(in, out) - n, nil
}
