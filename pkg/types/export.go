// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SerialWidth is the zero-padded width of export unit folder names.
const SerialWidth = 4

// SerialName formats serial as a folder name ("0001").
func SerialName(serial int) string {
	return fmt.Sprintf("%0*d", SerialWidth, serial)
}

// ExportUnit describes one problem written in the target judge's import layout.
type ExportUnit struct {
	// Serial is the run-wide sequence number; Dir is its padded folder name.
	Serial int    `json:"serial" yaml:"serial"`
	Dir    string `json:"dir" yaml:"dir"`

	ProblemID string `json:"problem_id" yaml:"problem_id"`
	Title     string `json:"title" yaml:"title"`

	// TestCases is the number of .in/.out pairs written.
	TestCases int `json:"test_cases" yaml:"test_cases"`

	// DroppedCases counts unmatched test blobs skipped by truncating pairing.
	DroppedCases int `json:"dropped_cases,omitempty" yaml:"dropped_cases,omitempty"`

	// Batch is the 1-based archive index and Archive its file name.
	Batch   int    `json:"batch" yaml:"batch"`
	Archive string `json:"archive" yaml:"archive"`
}
