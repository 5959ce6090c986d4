/*
 * @module service/highlight/segmenter
 * @description 自由文本分段器，按列表标记拆分为前导段与悬挂缩进段
 * @architecture 纯函数 - 正则扫描标记位置后切分
 * @documentReference DESIGN.md
 * @stateFlow 原始文本 -> 标记定位 -> 前导段 + (标记, 内容) 对
 * @rules
 *   - 空白输入返回空结果
 *   - 标记后没有内容的段直接丢弃
 *   - 小数中的 "1.5" 不视为标记
 * @dependencies regexp
 * @refs highlighter.go, render.go
 */

package highlight

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind 段落类型
type SegmentKind string

const (
	// SegmentLeading 第一个标记之前的不缩进段
	SegmentLeading SegmentKind = "leading"
	// SegmentItem 以标记开头的悬挂缩进段
	SegmentItem SegmentKind = "item"
)

// Segment 分段结果
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Marker  string      `json:"marker,omitempty"`
	Content string      `json:"content"`
}

// (1) 1. 1) （1） 全角数字以及 ①-⑩
var markerPattern = regexp.MustCompile(`[（(]?[0-9０-９]{1,2}[.)）．]|[\x{2460}-\x{2469}]`)

// Split 把文本拆分为段落
func Split(raw string) []Segment {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	markers := findMarkers(text)
	if len(markers) == 0 {
		return []Segment{{Kind: SegmentLeading, Content: text}}
	}

	segments := make([]Segment, 0, len(markers)+1)
	if leading := strings.TrimSpace(text[:markers[0][0]]); leading != "" {
		segments = append(segments, Segment{Kind: SegmentLeading, Content: leading})
	}
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		content := strings.TrimSpace(text[m[1]:end])
		if content == "" {
			continue
		}
		segments = append(segments, Segment{
			Kind:    SegmentItem,
			Marker:  text[m[0]:m[1]],
			Content: content,
		})
	}
	return segments
}

// findMarkers 返回标记位置，排除紧跟数字的 "1." 与紧贴在字母数字之后的裸数字
func findMarkers(text string) [][]int {
	all := markerPattern.FindAllStringIndex(text, -1)
	out := all[:0]
	for _, m := range all {
		if isDecimalPoint(text, m) || glued(text, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func isDecimalPoint(text string, m []int) bool {
	last, _ := utf8.DecodeLastRuneInString(text[m[0]:m[1]])
	if last != '.' && last != '．' {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[m[1]:])
	return unicode.IsDigit(next)
}

func glued(text string, m []int) bool {
	first, _ := utf8.DecodeRuneInString(text[m[0]:])
	if !unicode.IsDigit(first) || m[0] == 0 {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:m[0]])
	return prev < utf8.RuneSelf && (unicode.IsLetter(prev) || unicode.IsDigit(prev))
}
