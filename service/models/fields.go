/*
 * @module service/models/fields
 * @description 学校记录字段的声明式访问表，规范化器与筛选器共用
 * @architecture 数据模型层 - 配置表 + 通用访问器
 * @documentReference DESIGN.md
 * @stateFlow 无状态
 * @rules 每个字段登记来源列、缺省值策略与读写函数，禁止在业务代码中按列名临时取值
 * @dependencies service/meta
 * @refs service/normalizer, service/facet
 */

package models

import "github.com/kingyeung625/hk-school-selector/service/meta"

// PercentField 百分比字段，缺失时为 0.0
type PercentField struct {
	Key    string
	Column string
	Label  string
	Get    func(*SchoolRecord) float64
	Set    func(*SchoolRecord, float64)
}

// CountField 可空人数字段，缺失时为 nil
type CountField struct {
	Key    string
	Column string
	Label  string
	Get    func(*SchoolRecord) *int
	Set    func(*SchoolRecord, *int)
}

// ExamCountField 测考次数字段，缺失时为 0
type ExamCountField struct {
	Key    string
	Column string
	Label  string
	Get    func(*SchoolRecord) int
	Set    func(*SchoolRecord, int)
}

// FlagSource 是/否标记的一种取值方式
// Keywords 为空时按肯定词精确匹配；否则在描述列中做子串匹配
type FlagSource struct {
	Column   string
	Keywords []string
}

// FlagField 是/否标记字段，缺失时为"否"
type FlagField struct {
	Key     string
	Label   string
	Sources []FlagSource
	Get     func(*SchoolRecord) YesNo
	Set     func(*SchoolRecord, YesNo)
}

// PercentFields 七个师资百分比字段
var PercentFields = []PercentField{
	{Key: "teacher_training_pct", Column: meta.ColTeacherTrainingPct, Label: "師資培訓比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.TeacherTrainingPct }, Set: func(r *SchoolRecord, v float64) { r.TeacherTrainingPct = v }},
	{Key: "bachelor_pct", Column: meta.ColBachelorPct, Label: "學士學歷比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.BachelorPct }, Set: func(r *SchoolRecord, v float64) { r.BachelorPct = v }},
	{Key: "postgraduate_pct", Column: meta.ColPostgraduatePct, Label: "碩士或以上學歷比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.PostgraduatePct }, Set: func(r *SchoolRecord, v float64) { r.PostgraduatePct = v }},
	{Key: "special_education_pct", Column: meta.ColSpecialEducationPct, Label: "特殊教育培訓比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.SpecialEducationPct }, Set: func(r *SchoolRecord, v float64) { r.SpecialEducationPct = v }},
	{Key: "experience_0_4_pct", Column: meta.ColExperience0To4Pct, Label: "0-4年資比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.Experience0To4Pct }, Set: func(r *SchoolRecord, v float64) { r.Experience0To4Pct = v }},
	{Key: "experience_5_9_pct", Column: meta.ColExperience5To9Pct, Label: "5-9年資比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.Experience5To9Pct }, Set: func(r *SchoolRecord, v float64) { r.Experience5To9Pct = v }},
	{Key: "experience_10_plus_pct", Column: meta.ColExperience10PlusPct, Label: "10年以上年資比例 (%)",
		Get: func(r *SchoolRecord) float64 { return r.Experience10PlusPct }, Set: func(r *SchoolRecord, v float64) { r.Experience10PlusPct = v }},
}

// CountFields 教师人数字段
var CountFields = []CountField{
	{Key: "approved_teachers", Column: meta.ColApprovedTeachers, Label: "核准編制教師職位",
		Get: func(r *SchoolRecord) *int { return r.ApprovedTeachers }, Set: func(r *SchoolRecord, v *int) { r.ApprovedTeachers = v }},
	{Key: "total_teachers", Column: meta.ColTotalTeachers, Label: "全校教師總人數",
		Get: func(r *SchoolRecord) *int { return r.TotalTeachers }, Set: func(r *SchoolRecord, v *int) { r.TotalTeachers = v }},
}

// ExamCountFields 测验考试次数字段
var ExamCountFields = []ExamCountField{
	{Key: "p1_tests", Column: meta.ColP1Tests, Label: "小一全年最多測驗次數",
		Get: func(r *SchoolRecord) int { return r.P1Tests }, Set: func(r *SchoolRecord, v int) { r.P1Tests = v }},
	{Key: "p1_exams", Column: meta.ColP1Exams, Label: "小一全年最多考試次數",
		Get: func(r *SchoolRecord) int { return r.P1Exams }, Set: func(r *SchoolRecord, v int) { r.P1Exams = v }},
	{Key: "p2_6_tests", Column: meta.ColP2To6Tests, Label: "二至六年級最多測驗次數",
		Get: func(r *SchoolRecord) int { return r.P2To6Tests }, Set: func(r *SchoolRecord, v int) { r.P2To6Tests = v }},
	{Key: "p2_6_exams", Column: meta.ColP2To6Exams, Label: "二至六年級最多考試次數",
		Get: func(r *SchoolRecord) int { return r.P2To6Exams }, Set: func(r *SchoolRecord, v int) { r.P2To6Exams = v }},
}

// FlagFields 是/否标记字段，Sources 按顺序取第一个存在的列
var FlagFields = []FlagField{
	{Key: "p1_alternative_assessment", Label: "小一上學期以多元化評估代替測考",
		Sources: []FlagSource{{Column: meta.ColP1AlternativeAssessment}},
		Get:     func(r *SchoolRecord) YesNo { return r.P1AlternativeAssessment }, Set: func(r *SchoolRecord, v YesNo) { r.P1AlternativeAssessment = v }},
	{Key: "avoid_holiday_exams", Label: "避免長假後測考",
		Sources: []FlagSource{
			{Column: meta.ColAvoidHolidayExams},
			{Column: meta.ColAssessmentPolicy, Keywords: []string{"長假期後", "避免緊接在長假期"}},
		},
		Get: func(r *SchoolRecord) YesNo { return r.AvoidHolidayExams }, Set: func(r *SchoolRecord, v YesNo) { r.AvoidHolidayExams = v }},
	{Key: "afternoon_tutorial", Label: "設下午導修時段",
		Sources: []FlagSource{
			{Column: meta.ColAfternoonTutorial},
			{Column: meta.ColHomeworkPolicy, Keywords: []string{"導修"}},
		},
		Get: func(r *SchoolRecord) YesNo { return r.AfternoonTutorial }, Set: func(r *SchoolRecord, v YesNo) { r.AfternoonTutorial = v }},
	{Key: "has_pta", Label: "設家長教師會",
		Sources: []FlagSource{{Column: meta.ColPTA}},
		Get:     func(r *SchoolRecord) YesNo { return r.HasPTA }, Set: func(r *SchoolRecord, v YesNo) { r.HasPTA = v }},
	{Key: "has_school_bus", Label: "設校車服務",
		Sources: []FlagSource{{Column: meta.ColSchoolBus}, {Column: meta.ColNannyBus}},
		Get:     func(r *SchoolRecord) YesNo { return r.HasSchoolBus }, Set: func(r *SchoolRecord, v YesNo) { r.HasSchoolBus = v }},
}
