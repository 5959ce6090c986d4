/*
 * @module service/normalizer/normalizer
 * @description 学校资料规范化器，把列名不全、类型混杂的上传表格转换为规范学校记录
 * @architecture 转换器模式 - 声明式字段表 + 通用解析函数
 * @documentReference DESIGN.md
 * @stateFlow 原始表格 -> 列存在性检查 -> 百分比尺度检测 -> 逐行转换 -> 文章/校网左连接 -> 记录集合
 * @rules
 *   - 缺少学校名称列直接失败，不返回部分结果
 *   - 其余缺列或无法解析的值按缺省值表降级，不中断整个处理
 *   - 对自身输出再次规范化结果不变
 * @dependencies github.com/spf13/cast, golang.org/x/text/unicode/norm
 * @refs service/models/fields.go, service/meta/columns.go
 */

package normalizer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"
)

// CategoryFallback 未匹配类别时的处理策略
type CategoryFallback string

const (
	// FallbackOther 未匹配的类别统一记为 other
	FallbackOther CategoryFallback = "other"
	// FallbackRaw 未匹配的类别保留原始字符串
	FallbackRaw CategoryFallback = "raw"
)

// Options 规范化选项
type Options struct {
	CategoryFallback CategoryFallback
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{CategoryFallback: FallbackOther}
}

// Normalizer 学校资料规范化器，无状态，可并发使用
type Normalizer struct {
	opts Options
}

// NewNormalizer 创建规范化器
func NewNormalizer(opts Options) *Normalizer {
	if opts.CategoryFallback == "" {
		opts.CategoryFallback = FallbackOther
	}
	return &Normalizer{opts: opts}
}

// 肯定词表，精确匹配（忽略大小写和首尾空白）
var affirmativeTokens = []string{"有", "是", "yes", "y", "have", "true"}

// 直属中学列的占位符
var feederPlaceholders = []string{"-", "--", "沒有", "没有", "無", "无", "none", "n/a", "nil", "不適用"}

type categoryRule struct {
	category models.Category
	keywords []string
}

// 类别关键字按顺序匹配，直资须排在资助之前
var categoryRules = []categoryRule{
	{category: models.CategoryPublic, keywords: []string{"官立", "government", "public"}},
	{category: models.CategoryDirectSubsidy, keywords: []string{"直資", "直接資助", "direct subsidy", "direct-subsidy"}},
	{category: models.CategoryAided, keywords: []string{"資助", "aided"}},
	{category: models.CategoryPrivate, keywords: []string{"私立", "private"}},
}

// Normalize 规范化学校资料表，articles 与 networks 可为 nil
func (n *Normalizer) Normalize(records *models.Table, articles, networks *models.Table) (*models.Collection, error) {
	if records == nil || len(records.Headers) == 0 {
		return nil, models.ErrEmptyTable
	}
	nameCol, ok := records.Column(meta.ColSchoolName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingRequiredColumn, meta.ColSchoolName)
	}

	coll := &models.Collection{
		Source:   records.Name,
		LoadedAt: time.Now(),
		Columns:  append([]string(nil), records.Headers...),
	}
	stats := &coll.Stats
	stats.MissingColumns = missingColumns(records)

	scales := make(map[string]float64, len(models.PercentFields))
	for _, f := range models.PercentFields {
		col, ok := records.Column(f.Column)
		if !ok {
			continue
		}
		scales[f.Key] = detectScale(records, col)
		if scales[f.Key] != 1 {
			stats.RescaledColumns = append(stats.RescaledColumns, col)
		}
	}

	for _, row := range records.Rows {
		stats.Rows++
		name := cleanCell(row[nameCol])
		if name == "" {
			stats.SkippedRows++
			continue
		}
		rec := &models.SchoolRecord{
			Name:   name,
			Fields: make(map[string]string, len(records.Headers)),
		}
		for _, h := range records.Headers {
			rec.Fields[h] = cleanCell(row[h])
		}

		if v, ok := records.Value(row, meta.ColDistrict); ok {
			rec.District = cleanCell(v)
		}
		if v, ok := records.Value(row, meta.ColNetwork); ok {
			rec.Network = cleanCell(v)
		}
		if col, ok := records.FirstColumn(meta.ColCategory, meta.ColFinanceType); ok {
			rec.CategoryRaw = cleanCell(row[col])
			rec.Category = n.NormalizeCategory(rec.CategoryRaw)
		}

		for _, f := range models.PercentFields {
			col, ok := records.Column(f.Column)
			if !ok {
				f.Set(rec, 0)
				continue
			}
			v, bare, parsed := parsePercent(row[col])
			if !parsed && cleanCell(row[col]) != "" {
				stats.UnparseableValues++
			}
			if bare {
				v *= scales[f.Key]
			}
			f.Set(rec, roundPercent(v))
		}

		for _, f := range models.CountFields {
			v, ok := records.Value(row, f.Column)
			if !ok {
				continue
			}
			count, parsed := ParseCount(v)
			if !parsed && cleanCell(v) != "" {
				stats.UnparseableValues++
			}
			f.Set(rec, count)
		}

		for _, f := range models.ExamCountFields {
			v, ok := records.Value(row, f.Column)
			if !ok {
				f.Set(rec, 0)
				continue
			}
			count, parsed := ParseCount(v)
			if !parsed && cleanCell(v) != "" {
				stats.UnparseableValues++
			}
			if count == nil || *count < 0 {
				f.Set(rec, 0)
				continue
			}
			f.Set(rec, *count)
		}

		for _, f := range models.FlagFields {
			f.Set(rec, evaluateFlag(records, row, f.Sources))
		}

		rec.HasFeederSchool = hasFeederSchool(records, row)
		rec.FeaturesText = joinColumns(records, row, meta.FeatureTextColumns)
		rec.FullTextSearch = joinColumns(records, row, records.Headers)

		coll.Records = append(coll.Records, rec)
	}

	if networks != nil {
		stats.NetworksJoined = joinNetworks(coll.Records, networks)
	}
	if articles != nil {
		stats.ArticlesJoined = joinArticles(coll.Records, articles)
	}
	return coll, nil
}

// NormalizeCategory 按关键字顺序归类，未匹配按回退策略处理
func (n *Normalizer) NormalizeCategory(raw string) models.Category {
	s := strings.ToLower(cleanCell(raw))
	if s == "" {
		return ""
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.category
			}
		}
	}
	if n.opts.CategoryFallback == FallbackRaw {
		return models.Category(cleanCell(raw))
	}
	return models.CategoryOther
}

// IsAffirmative 判断是/否来源值是否为肯定，要求精确匹配
func IsAffirmative(v string) bool {
	s := cleanCell(v)
	if s == "" {
		return false
	}
	for _, tok := range affirmativeTokens {
		if strings.EqualFold(s, tok) {
			return true
		}
	}
	return false
}

// IsPlaceholder 判断是否为空值占位符
func IsPlaceholder(v string) bool {
	s := cleanCell(v)
	if s == "" {
		return true
	}
	for _, p := range feederPlaceholders {
		if strings.EqualFold(s, p) {
			return true
		}
	}
	return false
}

// ParseCount 解析整数，小数部分直接舍去，空值或无法解析返回 nil
func ParseCount(v string) (*int, bool) {
	s := strings.ReplaceAll(cleanCell(v), ",", "")
	if s == "" {
		return nil, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	n := int(math.Trunc(f))
	return &n, true
}

// parsePercent 解析百分比单元格；bare 表示原值不带百分号，需要参与尺度换算
func parsePercent(v string) (value float64, bare bool, parsed bool) {
	s := cleanCell(v)
	if s == "" {
		return 0, false, false
	}
	bare = true
	if strings.HasSuffix(s, "%") {
		bare = false
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	return f, bare, true
}

// detectScale 列内不带百分号的值最大在 (0,1] 时视为小数比例，返回 100
func detectScale(t *models.Table, col string) float64 {
	maxBare := 0.0
	for _, row := range t.Rows {
		v, bare, ok := parsePercent(row[col])
		if ok && bare && v > maxBare {
			maxBare = v
		}
	}
	if maxBare > 0 && maxBare <= 1 {
		return 100
	}
	return 1
}

func roundPercent(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return math.Round(v*10) / 10
}

// evaluateFlag 第一个存在的来源列决定结果，后续来源不再参与
func evaluateFlag(t *models.Table, row map[string]string, sources []models.FlagSource) models.YesNo {
	for _, src := range sources {
		v, ok := t.Value(row, src.Column)
		if !ok {
			continue
		}
		if len(src.Keywords) == 0 {
			return models.YesNoOf(IsAffirmative(v))
		}
		s := cleanCell(v)
		for _, kw := range src.Keywords {
			if strings.Contains(s, kw) {
				return models.Yes
			}
		}
		return models.No
	}
	return models.No
}

func hasFeederSchool(t *models.Table, row map[string]string) bool {
	for _, col := range meta.FeederColumns {
		v, ok := t.Value(row, col)
		if ok && !IsPlaceholder(v) {
			return true
		}
	}
	return false
}

func joinColumns(t *models.Table, row map[string]string, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		v, ok := t.Value(row, col)
		if !ok {
			continue
		}
		if v = cleanCell(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func missingColumns(t *models.Table) []string {
	expected := []string{meta.ColDistrict, meta.ColNetwork}
	for _, f := range models.PercentFields {
		expected = append(expected, f.Column)
	}
	for _, f := range models.CountFields {
		expected = append(expected, f.Column)
	}
	for _, f := range models.ExamCountFields {
		expected = append(expected, f.Column)
	}
	var missing []string
	for _, col := range expected {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// cleanCell NFKC 规范化并去除首尾空白，全角数字与百分号由此转为半角
func cleanCell(v string) string {
	return strings.TrimSpace(norm.NFKC.String(v))
}
