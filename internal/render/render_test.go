// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/oj-export/pkg/types"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "empty", html: "", want: ""},
		{name: "whitespace only", html: "  \n\t", want: ""},
		{name: "plain text is unchanged", html: "read two integers a and b", want: "read two integers a and b"},
		{name: "plain text is trimmed", html: "  1 2\n3 4  \n", want: "1 2\n3 4"},
		{name: "paragraphs become lines", html: "<p>first</p><p>second</p>", want: "first\nsecond"},
		{name: "line breaks", html: "<p>a<br>b<br/>c</p>", want: "a\nb\nc"},
		{name: "inline elements split text nodes", html: "sum of <strong>a</strong> and b", want: "sum of \na\n and b"},
		{name: "entities decoded and nbsp trimmed", html: "<p>1 &lt;= n &amp;&amp; n &lt; 10&nbsp;</p>", want: "1 <= n && n < 10"},
		{name: "script and style skipped", html: "<style>p{}</style><p>x</p><script>alert(1)</script>", want: "x"},
		{name: "comments skipped", html: "<p>x<!-- hidden --></p>", want: "x"},
		{name: "malformed markup", html: "<p>unclosed <b>bold <i>both</p></div>tail", want: "unclosed \nbold \nboth\ntail"},
		{name: "non-ASCII", html: "<p>請寫一個程式</p>", want: "請寫一個程式"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.html))
		})
	}
}

func TestText_IdempotentOnPlainText(t *testing.T) {
	for _, s := range []string{"hello", "3 5\n8", "加法 a+b"} {
		once := Text(s)
		assert.Equal(t, strings.TrimSpace(s), once)
		assert.Equal(t, once, Text(once))
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "empty", html: "", want: ""},
		{name: "heading and paragraph", html: "<h2>Title</h2><p>Body</p>", want: "## Title\n\nBody"},
		{name: "emphasis", html: "<p><strong>bold</strong> and <em>it</em></p>", want: "**bold** and *it*"},
		{name: "inline code", html: "<p>use <code>int</code></p>", want: "use `int`"},
		{name: "pre block", html: "<pre><code>1 2\n3 4</code></pre>", want: "```\n1 2\n3 4\n```"},
		{name: "unordered list", html: "<ul><li>a</li><li>b</li></ul>", want: "- a\n- b"},
		{name: "ordered list", html: "<ol><li>a</li><li>b</li></ol>", want: "1. a\n2. b"},
		{name: "image", html: `<img src="fig.png" alt="fig">`, want: "![fig](fig.png)"},
		{name: "superscript", html: "<p>10<sup>9</sup></p>", want: "10<sup>9</sup>"},
		{name: "underline span", html: `<span style="text-decoration: underline">u</span>`, want: "<u>u</u>"},
		{name: "inline math", html: `<span class="math-inline">1 \leq n \le 10^5</span>`, want: "$1 ≤ n ≤ 10^5$"},
		{name: "unknown latex dropped", html: `<span class="math-inline">\mathrm{x}</span>`, want: "${x}$"},
		{name: "latex commands match whole names", html: `<span class="math-inline">\left( x \right) \pmod{m}</span>`, want: "$( x ) {m}$"},
		{name: "latex prefix of longer command", html: `<span class="math-inline">x \in S, y \to \infty</span>`, want: "$x ∈ S, y → ∞$"},
		{name: "unknown command sharing a prefix", html: `<span class="math-inline">\inf A, \top</span>`, want: "$A,$"},
		{name: "hr", html: "<p>a</p><hr><p>b</p>", want: "a\n\n---\n\nb"},
		{name: "blank runs collapse", html: "<p>a</p><br><br><br><p>b</p>", want: "a\n\nb"},
		{
			name: "table",
			html: "<table><tr><th>n</th><th>out</th></tr><tr><td>1</td><td></td></tr></table>",
			want: "| n | out |\n| --- | --- |\n| 1 | &nbsp; |",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown(tt.html))
		})
	}
}

func TestForMode(t *testing.T) {
	assert.Equal(t, "**b**", ForMode(types.RenderMarkdown)("<b>b</b>"))
	assert.Equal(t, "b", ForMode(types.RenderText)("<b>b</b>"))
	assert.Equal(t, "b", ForMode("")("<b>b</b>"))
}

func sampleProblem() types.ProblemRecord {
	return types.ProblemRecord{
		ProblemID:       "1001",
		Title:           "A+B",
		TimeLimits:      []json.Number{"1"},
		MemoryLimit:     "256",
		TestInputFiles:  []string{"1 2\n", "3 4\n"},
		TestOutputFiles: []string{"3\n", "7\n"},
	}
}

func TestStatement_EmptySections(t *testing.T) {
	got := Statement(sampleProblem(), 2, Text)

	want := `# A+B

## 題目敘述


## 輸入說明


## 輸出說明


## 測試執行資料說明
本題共有 2 筆測資。
請依照輸入格式處理，不依賴隱性假設。
可能包含邊界情況。

### 範例輸入


### 範例輸出


## 限制
時限：1 秒
記憶體限制：256 MB

> 範例僅供格式參考，實際測資可能包含更多筆資料與邊界情況。

## 提示

`
	assert.Equal(t, want, got)
}

func TestStatement_RenderedFields(t *testing.T) {
	p := sampleProblem()
	p.Content = "<p>Compute <b>a+b</b>.</p>"
	p.InputDescription = "<p>two integers</p>"
	p.OutputDescription = "<p>their sum</p>"
	p.SampleInput = "1 2"
	p.SampleOutput = "3"
	p.Hint = "<p>watch overflow</p>"
	p.TimeLimits = []json.Number{"1.5", "3"}

	got := Statement(p, 2, Text)
	assert.Contains(t, got, "## 題目敘述\nCompute \na+b\n.\n\n## 輸入說明")
	assert.Contains(t, got, "## 輸入說明\ntwo integers\n\n")
	assert.Contains(t, got, "## 輸出說明\ntheir sum\n\n")
	assert.Contains(t, got, "### 範例輸入\n1 2\n\n")
	assert.Contains(t, got, "### 範例輸出\n3\n\n")
	assert.Contains(t, got, "時限：1.5 秒\n")
	assert.True(t, strings.HasSuffix(got, "## 提示\nwatch overflow\n"))
}

func TestMetadata(t *testing.T) {
	p := sampleProblem()
	p.Keywords = []string{"dp", "greedy"}

	want := "pid: 1001\nowner: 3\ntitle: A+B\ntag: [dp,greedy]\nnSubmit: 1\nnAccept: 1\n"
	assert.Equal(t, want, Metadata(p, 3))
}

func TestMetadata_QuotesUnsafeScalars(t *testing.T) {
	p := sampleProblem()
	p.ProblemID = "a001"
	p.Title = "Key: value"
	got := Metadata(p, 7)
	assert.Contains(t, got, "pid: a001\n")
	assert.Contains(t, got, "owner: 7\n")
	assert.Contains(t, got, `title: "Key: value"`+"\n")
	assert.Contains(t, got, "tag: []\n")
}

func TestMetadata_NumericTitleQuotedIDPlain(t *testing.T) {
	p := sampleProblem()
	p.Title = "1.5"
	got := Metadata(p, 3)
	assert.Contains(t, got, "pid: 1001\n")
	assert.Contains(t, got, `title: "1.5"`+"\n")

	p.Title = "2048"
	assert.Contains(t, Metadata(p, 3), `title: "2048"`+"\n")
}

func TestMetadata_ReadsBackAsWritten(t *testing.T) {
	titles := []string{"A+B", "1.5", "2048", "Key: value", "- dash", "# hash", "true", "null", "?x", "中文題目"}
	tags := [][]string{
		{"dp", "greedy"},
		{"a ? b"},
		{"?x"},
		{"1", "true", "null"},
		{"a,b", "[x]", "{y}"},
		{"基本輸入輸出", " padded "},
		{"x: y", "dp:", "&anchor", "*alias", "!tag", "|", ">"},
	}

	for _, title := range titles {
		for _, tagSet := range tags {
			p := sampleProblem()
			p.ProblemID = "a001"
			p.Title = title
			p.Keywords = tagSet

			out := Metadata(p, 3)
			var doc struct {
				PID   any   `yaml:"pid"`
				Owner int   `yaml:"owner"`
				Title any   `yaml:"title"`
				Tag   []any `yaml:"tag"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(out), &doc), out)
			assert.Equal(t, "a001", doc.PID, out)
			assert.Equal(t, 3, doc.Owner, out)
			assert.Equal(t, title, doc.Title, out)
			require.Len(t, doc.Tag, len(tagSet), out)
			for i, tag := range tagSet {
				assert.Equal(t, tag, doc.Tag[i], out)
			}
		}
	}
}

func TestMetadata_NumericIDStaysNumeric(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(Metadata(sampleProblem(), 3)), &doc))
	assert.Equal(t, 1001, doc["pid"])

	p := sampleProblem()
	p.ProblemID = "007"
	require.NoError(t, yaml.Unmarshal([]byte(Metadata(p, 3)), &doc))
	assert.Equal(t, "007", doc["pid"])
}

func TestTagList(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{name: "none", tags: nil, want: "[]"},
		{name: "plain", tags: []string{"dp", "greedy"}, want: "[dp,greedy]"},
		{name: "non-ASCII", tags: []string{"基本輸入輸出"}, want: "[基本輸入輸出]"},
		{name: "comma quoted", tags: []string{"dp", "a,b"}, want: `[dp,"a,b"]`},
		{name: "brackets quoted", tags: []string{"[x]"}, want: `["[x]"]`},
		{name: "question mark indicator quoted", tags: []string{"?x"}, want: `["?x"]`},
		{name: "question mark inside quoted", tags: []string{"a ? b"}, want: `["a ? b"]`},
		{name: "number quoted", tags: []string{"1", "2.5"}, want: `["1","2.5"]`},
		{name: "boolean quoted", tags: []string{"true"}, want: `["true"]`},
		{name: "empty quoted", tags: []string{""}, want: `[""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagList(tt.tags))
		})
	}
}

func TestGradingConfig(t *testing.T) {
	assert.Equal(t, "time: 1s\nmemory: 256m\n", GradingConfig("1", "256"))
	assert.Equal(t, "time: 0.5s\nmemory: 64m\n", GradingConfig("0.5", "64"))
}
