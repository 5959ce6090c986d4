/*
 * @module service/facet/registry
 * @description 筛选器登记表，把 FilterState 编译为可组合的谓词列表
 * @architecture 注册表模式 - 声明式定义 + 按类型生成谓词
 * @documentReference DESIGN.md
 * @stateFlow FilterState -> 校验筛选器键 -> 按定义顺序编译 -> []Active
 * @rules
 *   - 处于默认值的筛选器不产生谓词
 *   - 谓词只读记录字段，字段缺失视为不满足
 *   - 未知筛选器与无法解析的值返回错误，不静默忽略
 * @dependencies github.com/spf13/cast
 * @refs catalogue.go, options.go, service/query
 */

package facet

import (
	"fmt"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/spf13/cast"
)

// Kind 筛选器输入类型
type Kind string

const (
	KindText         Kind = "text"
	KindMultiSelect  Kind = "multi_select"
	KindSingleSelect Kind = "single_select"
	KindMinThreshold Kind = "min_threshold"
	KindMaxThreshold Kind = "max_threshold"
	KindTriState     Kind = "tri_state"
	KindKeywordGroup Kind = "keyword_group"
)

// 谓词代价，求值器按代价升序执行
const (
	CostEquality  = 1
	CostThreshold = 1
	CostName      = 2
	CostKeyword   = 4
	CostFullText  = 5
)

// 表示"不限"的取值
var unrestrictedValues = []string{"", "不限", "任何次數", "any", "all"}

// Predicate 记录谓词
type Predicate func(*models.SchoolRecord) bool

// Option 选项
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// KeywordOption 关键字组中的一个标签及其关键字
type KeywordOption struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// Definition 一个筛选器的声明
type Definition struct {
	Key   string
	Label string
	Group string
	Kind  Kind
	Cost  int

	// 文本类筛选器读取的字段；Highlight 为真时查询串进入标注关键字
	Text      func(*models.SchoolRecord) string
	Highlight bool

	// 多选筛选器读取的字段
	Value func(*models.SchoolRecord) string

	// 阈值筛选器
	Number   func(*models.SchoolRecord) float64
	Count    func(*models.SchoolRecord) int
	Min      float64
	Max      float64
	Step     float64
	MaxLimit int

	// 三态筛选器
	Flag func(*models.SchoolRecord) models.YesNo

	// 关键字组
	KeywordOptions []KeywordOption

	// 静态选项；为空且 Dynamic 非空时按当前资料计算
	Options []Option
	Dynamic func(records []*models.SchoolRecord, state models.FilterState) []Option
}

// Active 一个已生效的筛选器
type Active struct {
	Key       string
	Kind      Kind
	Cost      int
	Keywords  []string
	Predicate Predicate
}

// Registry 筛选器登记表
type Registry struct {
	defs  []*Definition
	byKey map[string]*Definition
}

// NewRegistry 以给定定义创建登记表，重复的键会 panic
func NewRegistry(defs []*Definition) *Registry {
	r := &Registry{byKey: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if _, dup := r.byKey[d.Key]; dup {
			panic(fmt.Sprintf("facet: duplicate key %q", d.Key))
		}
		r.defs = append(r.defs, d)
		r.byKey[d.Key] = d
	}
	return r
}

// Definitions 按登记顺序返回全部定义
func (r *Registry) Definitions() []*Definition {
	return r.defs
}

// Lookup 按键查找定义
func (r *Registry) Lookup(key string) (*Definition, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Compile 把筛选状态编译为生效的筛选器列表，顺序与登记顺序一致
func (r *Registry) Compile(state models.FilterState) ([]Active, error) {
	for _, sel := range state.Selections {
		if _, ok := r.byKey[sel.Facet]; !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownFacet, sel.Facet)
		}
	}

	merged := state.Facets()
	actives := make([]Active, 0, len(merged))
	for _, d := range r.defs {
		sel, ok := merged[d.Key]
		if !ok {
			continue
		}
		active, on, err := d.compile(sel)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %v", models.ErrInvalidFacetValue, d.Key, selectionText(sel), err)
		}
		if on {
			actives = append(actives, active)
		}
	}
	return actives, nil
}

func (d *Definition) compile(sel models.Selection) (Active, bool, error) {
	active := Active{Key: d.Key, Kind: d.Kind, Cost: d.Cost}

	switch d.Kind {
	case KindText:
		q := strings.TrimSpace(sel.Value)
		if q == "" {
			return active, false, nil
		}
		needle := strings.ToLower(q)
		get := d.Text
		active.Predicate = func(rec *models.SchoolRecord) bool {
			v := get(rec)
			return v != "" && strings.Contains(strings.ToLower(v), needle)
		}
		if d.Highlight {
			active.Keywords = []string{q}
		}

	case KindMultiSelect, KindSingleSelect:
		values := selectedValues(sel)
		if len(values) == 0 {
			return active, false, nil
		}
		if d.Kind == KindSingleSelect && len(values) > 1 {
			return active, false, fmt.Errorf("single select got %d values", len(values))
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		get := d.Value
		active.Predicate = func(rec *models.SchoolRecord) bool {
			v := get(rec)
			if v == "" {
				return false
			}
			_, ok := set[v]
			return ok
		}

	case KindMinThreshold:
		if isUnrestricted(sel.Value) {
			return active, false, nil
		}
		threshold, err := cast.ToFloat64E(strings.TrimSpace(sel.Value))
		if err != nil || threshold < 0 {
			return active, false, fmt.Errorf("invalid minimum %q", sel.Value)
		}
		if threshold == 0 {
			return active, false, nil
		}
		get := d.Number
		active.Predicate = func(rec *models.SchoolRecord) bool { return get(rec) >= threshold }

	case KindMaxThreshold:
		if isUnrestricted(sel.Value) {
			return active, false, nil
		}
		limit, err := cast.ToIntE(strings.TrimSpace(sel.Value))
		if err != nil || limit < 0 {
			return active, false, fmt.Errorf("invalid maximum %q", sel.Value)
		}
		get := d.Count
		active.Predicate = func(rec *models.SchoolRecord) bool { return get(rec) <= limit }

	case KindTriState:
		if isUnrestricted(sel.Value) {
			return active, false, nil
		}
		want, ok := parseYesNo(sel.Value)
		if !ok {
			return active, false, fmt.Errorf("invalid tri-state %q", sel.Value)
		}
		get := d.Flag
		active.Predicate = func(rec *models.SchoolRecord) bool { return get(rec) == want }

	case KindKeywordGroup:
		labels := selectedValues(sel)
		if len(labels) == 0 {
			return active, false, nil
		}
		groups := make([][]string, 0, len(labels))
		for _, label := range labels {
			kws, ok := d.keywordsFor(label)
			if !ok {
				return active, false, fmt.Errorf("unknown keyword label %q", label)
			}
			lowered := make([]string, len(kws))
			for i, kw := range kws {
				lowered[i] = strings.ToLower(kw)
			}
			groups = append(groups, lowered)
			active.Keywords = append(active.Keywords, kws...)
		}
		active.Predicate = func(rec *models.SchoolRecord) bool {
			if rec.FeaturesText == "" {
				return false
			}
			text := strings.ToLower(rec.FeaturesText)
			for _, group := range groups {
				if !containsAny(text, group) {
					return false
				}
			}
			return true
		}

	default:
		return active, false, fmt.Errorf("unsupported kind %q", d.Kind)
	}
	return active, true, nil
}

func (d *Definition) keywordsFor(label string) ([]string, bool) {
	for _, opt := range d.KeywordOptions {
		if opt.Label == label {
			return opt.Keywords, true
		}
	}
	return nil, false
}

// selectedValues 合并 Value 与 Values，去除空白、哨兵值与重复
func selectedValues(sel models.Selection) []string {
	raw := append([]string{sel.Value}, sel.Values...)
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if isUnrestricted(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func isUnrestricted(v string) bool {
	v = strings.TrimSpace(v)
	for _, s := range unrestrictedValues {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func parseYesNo(v string) (models.YesNo, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "是", "yes", "true", "y":
		return models.Yes, true
	case "否", "no", "false", "n":
		return models.No, true
	}
	return "", false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func selectionText(sel models.Selection) string {
	if len(sel.Values) == 0 {
		return sel.Value
	}
	return strings.Join(append([]string{sel.Value}, sel.Values...), ",")
}
