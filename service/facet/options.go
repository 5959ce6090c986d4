package facet

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kingyeung625/hk-school-selector/service/models"
)

// View 筛选器目录项，Options 已按当前资料计算
type View struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Group    string          `json:"group"`
	Kind     Kind            `json:"kind"`
	Options  []Option        `json:"options,omitempty"`
	Keywords []KeywordOption `json:"keywords,omitempty"`
	Min      float64         `json:"min,omitempty"`
	Max      float64         `json:"max,omitempty"`
	Step     float64         `json:"step,omitempty"`
}

// Catalogue 生成筛选器目录，动态选项基于 records 与当前筛选状态计算
func (r *Registry) Catalogue(records []*models.SchoolRecord, state models.FilterState) []View {
	views := make([]View, 0, len(r.defs))
	for _, d := range r.defs {
		v := View{
			Key:      d.Key,
			Label:    d.Label,
			Group:    d.Group,
			Kind:     d.Kind,
			Options:  d.Options,
			Keywords: d.KeywordOptions,
			Min:      d.Min,
			Max:      d.Max,
			Step:     d.Step,
		}
		if len(v.Options) == 0 && d.Dynamic != nil {
			v.Options = d.Dynamic(records, state)
		}
		if d.Kind == KindKeywordGroup {
			v.Options = make([]Option, len(d.KeywordOptions))
			for i, kw := range d.KeywordOptions {
				v.Options[i] = Option{Value: kw.Label, Label: kw.Label}
			}
		}
		views = append(views, v)
	}
	return views
}

// DistinctValues 字段的非空去重取值，按繁体中文排序规则排列，数字按数值比较
func DistinctValues(records []*models.SchoolRecord, get func(*models.SchoolRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		v := get(rec)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(language.TraditionalChinese, collate.Numeric).SortStrings(out)
	return out
}

// NetworkOptions 校网选项：选中地区时只取这些地区内的校网，否则取全部
func NetworkOptions(records []*models.SchoolRecord, districts []string) []string {
	if len(districts) == 0 {
		return DistinctValues(records, func(r *models.SchoolRecord) string { return r.Network })
	}
	set := make(map[string]struct{}, len(districts))
	for _, d := range districts {
		set[d] = struct{}{}
	}
	return DistinctValues(records, func(r *models.SchoolRecord) string {
		if _, ok := set[r.District]; !ok {
			return ""
		}
		return r.Network
	})
}

func districtOptions(records []*models.SchoolRecord, _ models.FilterState) []Option {
	return toOptions(DistinctValues(records, func(r *models.SchoolRecord) string { return r.District }), nil)
}

func networkOptions(records []*models.SchoolRecord, state models.FilterState) []Option {
	var districts []string
	if sel, ok := state.Facets()[KeyDistrict]; ok {
		districts = selectedValues(sel)
	}
	return toOptions(NetworkOptions(records, districts), nil)
}

func categoryOptions(records []*models.SchoolRecord, _ models.FilterState) []Option {
	values := DistinctValues(records, func(r *models.SchoolRecord) string { return string(r.Category) })
	return toOptions(values, func(v string) string { return models.Category(v).Label() })
}

func toOptions(values []string, label func(string) string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		l := v
		if label != nil {
			l = label(v)
		}
		out[i] = Option{Value: v, Label: l}
	}
	return out
}
