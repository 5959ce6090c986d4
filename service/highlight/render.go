package highlight

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/net/html"
)

const (
	leadingOpen  = `<p style="margin:0; padding:0;">`
	leadingClose = `</p>`
	itemOpen     = `<div style="margin-left: 2em; text-indent: -2em; padding-top: 5px;">`
	itemClose    = `</div>`
	markOpen     = `<span style="background-color: yellow;">`
	markClose    = `</span>`
)

// RenderHTML 分段后生成 HTML，关键字标注在每段内部完成，不跨越段落结构
func RenderHTML(raw string, keywords []string) string {
	return NewHighlighter(keywords).RenderHTML(raw)
}

// RenderHTML 使用已编译的关键字渲染，卡片内多个字段共用同一个标注器
func (h *Highlighter) RenderHTML(raw string) string {
	segments := Split(raw)
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range segments {
		content := h.Apply(seg.Content, html.EscapeString, emphasizeHTML)
		if seg.Kind == SegmentLeading {
			b.WriteString(leadingOpen + content + leadingClose)
			continue
		}
		marker := h.Apply(seg.Marker, html.EscapeString, emphasizeHTML)
		b.WriteString(itemOpen + marker + " " + content + itemClose)
	}
	return b.String()
}

func emphasizeHTML(s string) string {
	return markOpen + html.EscapeString(s) + markClose
}

var ansiEmphasis = color.New(color.BgYellow, color.FgBlack).SprintFunc()

// RenderANSI 终端渲染，每段一行，条目以两个空格缩进
func RenderANSI(raw string, keywords []string) string {
	segments := Split(raw)
	if len(segments) == 0 {
		return ""
	}
	h := NewHighlighter(keywords)
	plain := func(s string) string { return s }
	emphasis := func(s string) string { return ansiEmphasis(s) }

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		content := h.Apply(seg.Content, plain, emphasis)
		if seg.Kind == SegmentLeading {
			lines = append(lines, content)
			continue
		}
		lines = append(lines, "  "+seg.Marker+" "+content)
	}
	return strings.Join(lines, "\n")
}
