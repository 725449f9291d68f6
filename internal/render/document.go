// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/oj-export/pkg/types"
)

var numericID = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Statement formats problem.md. Section headers and boilerplate sentences
// are fixed; empty fields leave their section present but blank. count is
// the number of test pairs written for the problem.
func Statement(p types.ProblemRecord, count int, text TextFunc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)

	b.WriteString("## 題目敘述\n")
	b.WriteString(text(p.Content) + "\n\n")

	b.WriteString("## 輸入說明\n")
	b.WriteString(text(p.InputDescription) + "\n\n")

	b.WriteString("## 輸出說明\n")
	b.WriteString(text(p.OutputDescription) + "\n\n")

	b.WriteString("## 測試執行資料說明\n")
	fmt.Fprintf(&b, "本題共有 %d 筆測資。\n", count)
	b.WriteString("請依照輸入格式處理，不依賴隱性假設。\n")
	b.WriteString("可能包含邊界情況。\n\n")

	b.WriteString("### 範例輸入\n")
	b.WriteString(text(p.SampleInput) + "\n\n")

	b.WriteString("### 範例輸出\n")
	b.WriteString(text(p.SampleOutput) + "\n\n")

	b.WriteString("## 限制\n")
	fmt.Fprintf(&b, "時限：%s 秒\n", p.TimeLimit())
	fmt.Fprintf(&b, "記憶體限制：%s MB\n\n", p.MemoryLimit)

	b.WriteString("> 範例僅供格式參考，實際測資可能包含更多筆資料與邊界情況。\n\n")

	b.WriteString("## 提示\n")
	b.WriteString(text(p.Hint) + "\n")
	return b.String()
}

// Metadata formats problem.yaml. The submit and accept counters are fixed
// placeholders the target judge recomputes after import.
func Metadata(p types.ProblemRecord, ownerID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pid: %s\n", problemID(p.ProblemID))
	fmt.Fprintf(&b, "owner: %d\n", ownerID)
	fmt.Fprintf(&b, "title: %s\n", scalar(p.Title))
	fmt.Fprintf(&b, "tag: %s\n", TagList(p.Keywords))
	b.WriteString("nSubmit: 1\n")
	b.WriteString("nAccept: 1\n")
	return b.String()
}

// TagList renders tags as a YAML flow sequence without spaces, e.g.
// [dp,greedy]. A tag is double-quoted unless it reads back from the
// sequence as the same string.
func TagList(tags []string) string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		if flowSafe(tag) {
			out[i] = tag
			continue
		}
		out[i] = quoted(tag)
	}
	return "[" + strings.Join(out, ",") + "]"
}

// GradingConfig formats testdata/config.yml.
func GradingConfig(timeLimit, memoryLimit json.Number) string {
	return fmt.Sprintf("time: %ss\nmemory: %sm\n", timeLimit, memoryLimit)
}

// problemID keeps numeric ids plain so they read back as numbers, like
// the source judge's own exports.
func problemID(id string) string {
	if numericID.MatchString(id) {
		return id
	}
	return scalar(id)
}

// scalar returns s as a plain YAML scalar when that reads back as the same
// string, and double-quoted otherwise.
func scalar(s string) string {
	if s == "" || strings.ContainsAny(s, "\n\r\t") {
		return quoted(s)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte("v: "+s), &doc); err == nil {
		if back, ok := doc["v"].(string); ok && back == s {
			return s
		}
	}
	return quoted(s)
}

// flowSafe reports whether tag survives unquoted as the only element of a
// flow sequence.
func flowSafe(tag string) bool {
	if tag == "" || strings.ContainsAny(tag, ",\n\r\t") || strings.TrimSpace(tag) != tag {
		return false
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte("v: ["+tag+"]"), &doc); err != nil {
		return false
	}
	seq, ok := doc["v"].([]any)
	if !ok || len(seq) != 1 {
		return false
	}
	back, ok := seq[0].(string)
	return ok && back == tag
}

func quoted(s string) string {
	node := yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: s}
	out, err := yaml.Marshal(&node)
	if err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(string(out), "\n")
}
