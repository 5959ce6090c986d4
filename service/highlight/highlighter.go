package highlight

import (
	"regexp"
	"sort"
	"strings"
)

// Highlighter 关键字标注器，大小写不敏感，关键字按字面匹配
type Highlighter struct {
	keywords []string
	pattern  *regexp.Regexp
}

// NewHighlighter 编译关键字交替式，空关键字被忽略；较长的关键字优先匹配
func NewHighlighter(keywords []string) *Highlighter {
	h := &Highlighter{keywords: NormalizeKeywords(keywords)}
	if len(h.keywords) == 0 {
		return h
	}
	quoted := make([]string, len(h.keywords))
	for i, kw := range h.keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	h.pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	return h
}

// NormalizeKeywords 去除空白与大小写重复，按长度降序、字典序排列
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Keywords 已规范化的关键字
func (h *Highlighter) Keywords() []string {
	return h.keywords
}

// Apply 把文本切成普通片段与命中片段，分别交给 plain 与 emphasis 处理后拼接
func (h *Highlighter) Apply(text string, plain, emphasis func(string) string) string {
	if h == nil || h.pattern == nil {
		return plain(text)
	}
	var b strings.Builder
	last := 0
	for _, m := range h.pattern.FindAllStringIndex(text, -1) {
		b.WriteString(plain(text[last:m[0]]))
		b.WriteString(emphasis(text[m[0]:m[1]]))
		last = m[1]
	}
	b.WriteString(plain(text[last:]))
	return b.String()
}

// Count 命中次数
func (h *Highlighter) Count(text string) int {
	if h == nil || h.pattern == nil {
		return 0
	}
	return len(h.pattern.FindAllStringIndex(text, -1))
}
