// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairTestCases(t *testing.T) {
	tests := []struct {
		name        string
		in, out     []string
		policy      PairingPolicy
		wantCases   int
		wantDropped int
		wantErr     bool
	}{
		{name: "equal lengths", in: []string{"1", "2"}, out: []string{"a", "b"}, policy: PairTruncate, wantCases: 2},
		{name: "more inputs truncates", in: []string{"1", "2", "3"}, out: []string{"a"}, policy: PairTruncate, wantCases: 1, wantDropped: 2},
		{name: "more outputs truncates", in: []string{"1"}, out: []string{"a", "b"}, policy: PairTruncate, wantCases: 1, wantDropped: 1},
		{name: "empty", policy: PairTruncate},
		{name: "strict equal", in: []string{"1"}, out: []string{"a"}, policy: PairStrict, wantCases: 1},
		{name: "strict mismatch", in: []string{"1", "2"}, out: []string{"a"}, policy: PairStrict, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProblemRecord{TestInputFiles: tt.in, TestOutputFiles: tt.out}
			cases, dropped, err := PairTestCases(p, tt.policy)
			if tt.wantErr {
				var pe *PairingError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, len(tt.in), pe.Inputs)
				assert.Equal(t, len(tt.out), pe.Outputs)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cases, tt.wantCases)
			assert.Equal(t, tt.wantDropped, dropped)
			for i, c := range cases {
				assert.Equal(t, i+1, c.Index)
				assert.Equal(t, tt.in[i], c.Input)
				assert.Equal(t, tt.out[i], c.Output)
			}
		})
	}
}

func TestTimeLimit(t *testing.T) {
	assert.Equal(t, "2", ProblemRecord{TimeLimits: []json.Number{"2", "5"}}.TimeLimit().String())
	assert.Empty(t, ProblemRecord{}.TimeLimit())
}

func TestSerialName(t *testing.T) {
	assert.Equal(t, "0001", SerialName(1))
	assert.Equal(t, "0015", SerialName(15))
	assert.Equal(t, "12345", SerialName(12345))
}

func TestExportConfigValidate(t *testing.T) {
	require.NoError(t, DefaultExportConfig().Validate())

	cfg := DefaultExportConfig()
	cfg.BatchSize = 0
	cfg.StartSerial = 0
	cfg.OutputPrefix = ""
	cfg.RenderMode = "pdf"
	cfg.Pairing = "zip"
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"batch size", "start serial", "output prefix", "render mode", "pairing policy"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestExportConfigWorkDir(t *testing.T) {
	cfg := DefaultExportConfig()
	assert.Equal(t, ".", cfg.WorkDir())
	cfg.OutputDir = "out"
	assert.Equal(t, "out", cfg.WorkDir())
	cfg.TempDir = "tmp"
	assert.Equal(t, "tmp", cfg.WorkDir())
}
