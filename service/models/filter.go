/*
 * @module service/models/filter
 * @description 筛选状态模型，由调用方从界面控件收集后显式传入查询
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 界面选择 -> FilterState -> 筛选器登记表编译 -> 查询求值
 * @rules 只包含用户已离开默认值的筛选器；顺序不影响结果
 * @dependencies 无
 * @refs service/facet, service/query, service/session
 */

package models

// Selection 一个筛选器的取值
// 文本/单选/阈值/三态使用 Value，多选与关键字组使用 Values
type Selection struct {
	Facet  string   `json:"facet" example:"district"`
	Value  string   `json:"value,omitempty" example:"沙田區"`
	Values []string `json:"values,omitempty"`
}

// FilterState 一次查询的完整筛选状态
type FilterState struct {
	Selections []Selection `json:"selections"`
	Page       int         `json:"page,omitempty" example:"1"`
	PageSize   int         `json:"page_size,omitempty" example:"10"`
}

// Facets 以筛选器键聚合的取值，同一筛选器出现多次时合并
func (fs FilterState) Facets() map[string]Selection {
	out := make(map[string]Selection, len(fs.Selections))
	for _, s := range fs.Selections {
		prev, ok := out[s.Facet]
		if !ok {
			out[s.Facet] = s
			continue
		}
		if s.Value != "" {
			prev.Value = s.Value
		}
		prev.Values = append(prev.Values, s.Values...)
		out[s.Facet] = prev
	}
	return out
}
