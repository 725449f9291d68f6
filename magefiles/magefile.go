//go:build mage

// Package main contains Mage build targets for oj-export developer tooling.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "oj-export"
	cmdPkg  = "./cmd/oj-export"

	sampleDir   = "sample"
	sampleInput = "a_oj_problems.json"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Sample writes a small input file to sample/ for trying the exporter.
func Sample() error {
	problems := []map[string]any{
		{
			"problemid":    "a001",
			"title":        "哈囉",
			"content":      "<p>學習所有程式語言的第一個練習題<br>請寫一個程式，可以讀入指定的字串，並且輸出指定的字串。</p>",
			"theinput":     "<p>指定的文字</p>",
			"theoutput":    "<p>輸出指定的文字</p>",
			"sampleinput":  "world",
			"sampleoutput": "hello, world",
			"hint":         "",
			"keywords":     []string{"基本輸入輸出"},
			"timelimits":   []float64{1},
			"memorylimit":  64,
			"testinfiles":  []string{"world\n", "C++\n"},
			"testoutfiles": []string{"hello, world\n", "hello, C++\n"},
		},
		{
			"problemid":    "a002",
			"title":        "簡易加法",
			"content":      "<p>請寫一個程式，讀入兩個數字，並求出它們的和。</p>",
			"theinput":     "<p>每組測試資料只有一列，含兩個整數 a, b。</p>",
			"theoutput":    "<p>輸出該兩整數的和。</p>",
			"sampleinput":  "5 10",
			"sampleoutput": "15",
			"hint":         "<p>注意整數範圍</p>",
			"keywords":     []string{"基本運算", "加法"},
			"timelimits":   []float64{1},
			"memorylimit":  64,
			"testinfiles":  []string{"5 10\n", "1 2\n", "-3 3\n"},
			"testoutfiles": []string{"15\n", "3\n", "0\n"},
		},
	}

	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleDir, err)
	}
	data, err := json.MarshalIndent(problems, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(sampleDir, sampleInput)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}

// Export builds the binary and runs it against the sample input.
func Export() error {
	mg.Deps(Build, Sample)
	bin, err := filepath.Abs(filepath.Join(binDir, binName))
	if err != nil {
		return err
	}
	return sh.RunV(bin, "export",
		"--input", filepath.Join(sampleDir, sampleInput),
		"--output-dir", sampleDir,
		"--manifest", filepath.Join(sampleDir, "manifest.db"),
	)
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (name[0] == '_' || name[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		isTest := len(path) > 8 && path[len(path)-8:] == "_test.go"
		if testOnly != isTest {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range splitLines(data) {
			if len(line) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}

// splitLines splits data by newline, returning each line with surrounding
// blanks removed.
func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, trimSpace(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, trimSpace(data[start:]))
	}
	return lines
}

// trimSpace returns a string with leading and trailing whitespace removed.
func trimSpace(b []byte) string {
	start, end := 0, len(b)
	for start < end && (b[start] == ' ' || b[start] == '\t' || b[start] == '\r') {
		start++
	}
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\r') {
		end--
	}
	return string(b[start:end])
}
