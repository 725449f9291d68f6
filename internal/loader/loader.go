// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader reads problem records exported by the source judge.
// Input is either a JSON array of problem objects or a zip archive of
// .zjson/.json files, each holding one problem object or an array.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/pdiddy/oj-export/pkg/types"
)

// zipMagic is the local file header signature that starts every zip archive.
var zipMagic = []byte("PK\x03\x04")

// LoadError reports that the input could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RecordShapeError reports a problem object that lacks a required field
// or carries one of the wrong shape.
type RecordShapeError struct {
	// Source is the file (or zip entry) the record came from.
	Source string
	// Index is the 0-based position of the record within Source.
	Index int
	Field  string
	Reason string
}

func (e *RecordShapeError) Error() string {
	return fmt.Sprintf("%s: record %d: field %q %s", e.Source, e.Index, e.Field, e.Reason)
}

// Load reads path and returns its problem records in file order.
func Load(path string) ([]types.ProblemRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if bytes.HasPrefix(data, zipMagic) {
		return loadZip(path, data)
	}
	return Parse(path, data)
}

// Parse decodes a JSON document whose top-level value is an array of
// problem objects. source names the document in errors.
func Parse(source string, data []byte) ([]types.ProblemRecord, error) {
	raws, err := parseArray(source, data)
	if err != nil {
		return nil, err
	}
	return decodeAll(source, raws, make(seenIDs))
}

func parseArray(source string, data []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &LoadError{Path: source, Err: fmt.Errorf("top-level value must be an array, got %s", typeErr.Value)}
		}
		return nil, &LoadError{Path: source, Err: err}
	}
	if raws == nil {
		return nil, &LoadError{Path: source, Err: errors.New("top-level value must be an array, got null")}
	}
	return raws, nil
}

// recordRef locates a record for duplicate reporting.
type recordRef struct {
	source string
	index  int
}

// seenIDs maps problem ids to the first record that carried them. The
// target judge rejects a second problem with the same pid.
type seenIDs map[string]recordRef

func (s seenIDs) add(source string, index int, p types.ProblemRecord) error {
	if first, ok := s[p.ProblemID]; ok {
		reason := fmt.Sprintf("duplicates record %d", first.index)
		if first.source != source {
			reason = fmt.Sprintf("duplicates record %d of %s", first.index, first.source)
		}
		return &RecordShapeError{Source: source, Index: index, Field: "problemid", Reason: reason}
	}
	s[p.ProblemID] = recordRef{source: source, index: index}
	return nil
}

func decodeAll(source string, raws []json.RawMessage, seen seenIDs) ([]types.ProblemRecord, error) {
	problems := make([]types.ProblemRecord, 0, len(raws))
	for i, raw := range raws {
		p, err := decodeProblem(source, i, raw)
		if err != nil {
			return nil, err
		}
		if err := seen.add(source, i, p); err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// loadZip decodes every .zjson/.json entry of the archive in lexical
// entry order. An entry may hold a single object or an array.
func loadZip(source string, data []byte) ([]types.ProblemRecord, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &LoadError{Path: source, Err: fmt.Errorf("reading zip: %w", err)}
	}

	var files []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(f.Name))
		if ext == ".zjson" || ext == ".json" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: source, Err: errors.New("zip contains no .zjson or .json entries")}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var problems []types.ProblemRecord
	seen := make(seenIDs)
	for _, f := range files {
		entry := source + ":" + f.Name
		body, err := readZipFile(f)
		if err != nil {
			return nil, &LoadError{Path: entry, Err: err}
		}

		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			p, err := decodeProblem(entry, 0, trimmed)
			if err != nil {
				return nil, err
			}
			if err := seen.add(entry, 0, p); err != nil {
				return nil, err
			}
			problems = append(problems, p)
			continue
		}

		raws, err := parseArray(entry, trimmed)
		if err != nil {
			return nil, err
		}
		batch, err := decodeAll(entry, raws, seen)
		if err != nil {
			return nil, err
		}
		problems = append(problems, batch...)
	}
	return problems, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
