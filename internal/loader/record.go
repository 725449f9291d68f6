// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/pdiddy/oj-export/pkg/types"
)

// wireProblem mirrors a source judge problem object. ZeroJudge exports use
// lowercase keys ("theinput", "testinfiles"); some tools emit camelCase
// ("inputDescription", "testInputFiles"). Key matching in encoding/json is
// case-insensitive, so "problemId" and "timeLimits" land on the lowercase
// tags; only the renamed keys need their own fields.
//
// Required fields are pointers or raw messages so absence is detectable.
type wireProblem struct {
	ProblemID   json.RawMessage `json:"problemid"`
	Title       *string         `json:"title"`
	Content     string          `json:"content"`
	Hint        string          `json:"hint"`
	TheInput    string          `json:"theinput"`
	TheOutput   string          `json:"theoutput"`
	SampleIn    string          `json:"sampleinput"`
	SampleOut   string          `json:"sampleoutput"`
	Keywords    json.RawMessage `json:"keywords"`
	TimeLimits  json.RawMessage `json:"timelimits"`
	MemoryLimit json.RawMessage `json:"memorylimit"`
	TestIn      *[]string       `json:"testinfiles"`
	TestOut     *[]string       `json:"testoutfiles"`

	InputDescription  string    `json:"inputDescription"`
	OutputDescription string    `json:"outputDescription"`
	TestInputFiles    *[]string `json:"testInputFiles"`
	TestOutputFiles   *[]string `json:"testOutputFiles"`
}

func decodeProblem(source string, index int, raw json.RawMessage) (types.ProblemRecord, error) {
	shapeErr := func(field, reason string) error {
		return &RecordShapeError{Source: source, Index: index, Field: field, Reason: reason}
	}

	var w wireProblem
	if err := json.Unmarshal(raw, &w); err != nil {
		return types.ProblemRecord{}, shapeErr("*", "is not a valid problem object: "+err.Error())
	}

	pid, ok := decodeProblemID(w.ProblemID)
	if !ok {
		return types.ProblemRecord{}, shapeErr("problemid", "is missing or not a string or number")
	}
	if w.Title == nil {
		return types.ProblemRecord{}, shapeErr("title", "is missing")
	}

	timeLimits, err := decodeTimeLimits(w.TimeLimits)
	if err != nil {
		return types.ProblemRecord{}, shapeErr("timelimits", err.Error())
	}
	memory, ok := decodeNumber(w.MemoryLimit)
	if !ok {
		return types.ProblemRecord{}, shapeErr("memorylimit", "is missing or not a number")
	}

	testIn := firstSlice(w.TestIn, w.TestInputFiles)
	if testIn == nil {
		return types.ProblemRecord{}, shapeErr("testinfiles", "is missing")
	}
	testOut := firstSlice(w.TestOut, w.TestOutputFiles)
	if testOut == nil {
		return types.ProblemRecord{}, shapeErr("testoutfiles", "is missing")
	}

	keywords, err := decodeKeywords(w.Keywords)
	if err != nil {
		return types.ProblemRecord{}, shapeErr("keywords", err.Error())
	}

	return types.ProblemRecord{
		ProblemID:         pid,
		Title:             *w.Title,
		Content:           w.Content,
		InputDescription:  firstNonEmpty(w.TheInput, w.InputDescription),
		OutputDescription: firstNonEmpty(w.TheOutput, w.OutputDescription),
		Hint:              w.Hint,
		SampleInput:       w.SampleIn,
		SampleOutput:      w.SampleOut,
		Keywords:          keywords,
		TimeLimits:        timeLimits,
		MemoryLimit:       memory,
		TestInputFiles:    *testIn,
		TestOutputFiles:   *testOut,
	}, nil
}

// decodeProblemID accepts a JSON string or number and returns its text.
func decodeProblemID(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func decodeNumber(raw json.RawMessage) (json.Number, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n, true
}

// decodeTimeLimits accepts an array of numbers or a bare number.
func decodeTimeLimits(raw json.RawMessage) ([]json.Number, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("is missing")
	}
	if raw[0] == '[' {
		var limits []json.Number
		if err := json.Unmarshal(raw, &limits); err != nil {
			return nil, errors.New("must be an array of numbers")
		}
		if len(limits) == 0 {
			return nil, errors.New("must not be empty")
		}
		return limits, nil
	}
	n, ok := decodeNumber(raw)
	if !ok {
		return nil, errors.New("must be a number or an array of numbers")
	}
	return []json.Number{n}, nil
}

// decodeKeywords accepts an array of strings or a string holding one.
// Any other non-empty string is taken as a single tag.
func decodeKeywords(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("must be an array of strings")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &tags); err == nil {
			return tags, nil
		}
	}
	return []string{s}, nil
}

func firstSlice(a, b *[]string) *[]string {
	if a != nil {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
