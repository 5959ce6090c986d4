package highlight

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []Segment
	}{
		{
			name:     "空白输入",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "无标记文本",
			input:    "  We encourage reading daily ",
			expected: []Segment{{Kind: SegmentLeading, Content: "We encourage reading daily"}},
		},
		{
			name:  "括号数字标记",
			input: "(1) Read books (2) Play sports",
			expected: []Segment{
				{Kind: SegmentItem, Marker: "(1)", Content: "Read books"},
				{Kind: SegmentItem, Marker: "(2)", Content: "Play sports"},
			},
		},
		{
			name:  "前导段加点号标记",
			input: "本校重點：1. 閱讀 2. 運動",
			expected: []Segment{
				{Kind: SegmentLeading, Content: "本校重點："},
				{Kind: SegmentItem, Marker: "1.", Content: "閱讀"},
				{Kind: SegmentItem, Marker: "2.", Content: "運動"},
			},
		},
		{
			name:  "全角括号与圈号",
			input: "（1）英語教學 ② 音樂培訓",
			expected: []Segment{
				{Kind: SegmentItem, Marker: "（1）", Content: "英語教學"},
				{Kind: SegmentItem, Marker: "②", Content: "音樂培訓"},
			},
		},
		{
			name:  "结尾悬空标记被丢弃",
			input: "1) 閱讀 2)",
			expected: []Segment{
				{Kind: SegmentItem, Marker: "1)", Content: "閱讀"},
			},
		},
		{
			name:     "小数不视为标记",
			input:    "每天家課約1.5小時",
			expected: []Segment{{Kind: SegmentLeading, Content: "每天家課約1.5小時"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Split(tc.input))
		})
	}
}

func TestRenderHTML_RoundTrip(t *testing.T) {
	out := RenderHTML("  Plain text without markers  ", nil)
	assert.Equal(t, leadingOpen+"Plain text without markers"+leadingClose, out)
	assert.Equal(t, "", RenderHTML(" \n\t ", []string{"x"}))
}

func TestRenderHTML_Markers(t *testing.T) {
	out := RenderHTML("(1) Read books (2) Play sports", nil)

	expected := itemOpen + "(1) Read books" + itemClose + itemOpen + "(2) Play sports" + itemClose
	assert.Equal(t, expected, out)
	assert.NotContains(t, out, leadingOpen)
	assert.Equal(t, 2, strings.Count(out, itemOpen))
}

func TestRenderHTML_Highlight(t *testing.T) {
	out := RenderHTML("We encourage reading daily", []string{"reading"})

	assert.Equal(t, leadingOpen+"We encourage "+markOpen+"reading"+markClose+" daily"+leadingClose, out)
	assert.Equal(t, 1, strings.Count(out, markOpen))

	upper := RenderHTML("READING is fun", []string{"reading"})
	assert.Contains(t, upper, markOpen+"READING"+markClose)
}

func TestRenderHTML_HighlightKeepsStructure(t *testing.T) {
	out := RenderHTML("(1) 推動閱讀 (2) 閱讀獎勵計劃", []string{"閱讀"})

	assert.Equal(t, 2, strings.Count(out, markOpen))
	assert.True(t, strings.HasPrefix(out, itemOpen+"(1) 推動"+markOpen+"閱讀"+markClose))
	assert.Equal(t, 2, strings.Count(out, itemClose))
}

func TestRenderHTML_EscapesMetacharacters(t *testing.T) {
	out := RenderHTML("課程包括 C++ 及 <STEM> 活動 a.b", []string{"C++", "a.b", "<STEM>"})

	assert.Contains(t, out, markOpen+"C++"+markClose)
	assert.Contains(t, out, markOpen+"&lt;STEM&gt;"+markClose)
	assert.Contains(t, out, markOpen+"a.b"+markClose)
	assert.NotContains(t, out, "<STEM>")
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{"STEM", " stem ", "", "STEM教育", "閱讀"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"STEM教育", "閱讀", "STEM"}, got)
}

func TestHighlighter_LongestFirst(t *testing.T) {
	h := NewHighlighter([]string{"STEM", "STEM教育"})
	out := h.Apply("推動STEM教育", func(s string) string { return s }, func(s string) string { return "[" + s + "]" })
	assert.Equal(t, "推動[STEM教育]", out)
	assert.Equal(t, 1, h.Count("推動STEM教育"))
}

func TestRenderANSI(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	out := RenderANSI("重點：(1) 閱讀 (2) 運動", []string{"閱讀"})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "重點：", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  (1) "))
	assert.Contains(t, lines[1], "\x1b[")
	assert.Equal(t, "  (2) 運動", lines[2])
}
