/*
 * @module service/query/evaluator
 * @description 查询求值器，对记录集合单次遍历应用全部生效筛选器
 * @architecture 纯函数 - 谓词按代价排序后短路求值
 * @documentReference DESIGN.md
 * @stateFlow FilterState -> Registry.Compile -> 按代价排序 -> 单次遍历 -> Result
 * @rules
 *   - 所有生效谓词取逻辑与
 *   - 结果保持输入顺序，分页稳定
 *   - 没有生效筛选器时返回空结果，FilterApplied 为 false
 *   - 标注关键字只来自关键字组与全文搜索的选择，与记录内容无关
 * @dependencies service/facet, service/highlight
 * @refs service/session, api/controllers/session_controller.go
 */

package query

import (
	"sort"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/highlight"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// Result 求值结果
type Result struct {
	Records       []*models.SchoolRecord `json:"-"`
	Keywords      []string               `json:"keywords"`
	FilterApplied bool                   `json:"filter_applied"`
	ActiveFacets  []string               `json:"active_facets,omitempty"`
}

// Total 命中数
func (r Result) Total() int {
	return len(r.Records)
}

// Evaluate 对 records 应用 actives，records 不会被修改
func Evaluate(records []*models.SchoolRecord, actives []facet.Active) Result {
	if len(actives) == 0 {
		return Result{Records: []*models.SchoolRecord{}, Keywords: []string{}}
	}

	ordered := make([]facet.Active, len(actives))
	copy(ordered, actives)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Cost < ordered[j].Cost })

	result := Result{
		Records:       make([]*models.SchoolRecord, 0),
		Keywords:      Keywords(actives),
		FilterApplied: true,
		ActiveFacets:  make([]string, 0, len(actives)),
	}
	for _, a := range actives {
		result.ActiveFacets = append(result.ActiveFacets, a.Key)
	}

	for _, rec := range records {
		if matchAll(rec, ordered) {
			result.Records = append(result.Records, rec)
		}
	}
	return result
}

// Keywords 生效筛选器贡献的标注关键字并集
func Keywords(actives []facet.Active) []string {
	var all []string
	for _, a := range actives {
		all = append(all, a.Keywords...)
	}
	return highlight.NormalizeKeywords(all)
}

func matchAll(rec *models.SchoolRecord, actives []facet.Active) bool {
	if rec == nil {
		return false
	}
	for _, a := range actives {
		if !a.Predicate(rec) {
			return false
		}
	}
	return true
}

// Evaluator 绑定筛选器登记表的求值器
type Evaluator struct {
	registry *facet.Registry
}

// NewEvaluator 创建求值器，registry 为 nil 时使用默认登记表
func NewEvaluator(registry *facet.Registry) *Evaluator {
	if registry == nil {
		registry = facet.DefaultRegistry()
	}
	return &Evaluator{registry: registry}
}

// Registry 返回登记表
func (e *Evaluator) Registry() *facet.Registry {
	return e.registry
}

// Run 编译筛选状态并求值
func (e *Evaluator) Run(records []*models.SchoolRecord, state models.FilterState) (Result, error) {
	actives, err := e.registry.Compile(state)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(records, actives), nil
}
