/*
 * @module service/models/school
 * @description 规范化后的学校记录模型及记录集合
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 规范化器生成 -> 会话内只读 -> 新上传时整体替换
 * @rules 百分比字段在[0,100]且保留一位小数；测考次数>=0；是/否标记永不为空
 * @dependencies 无
 * @refs service/normalizer, service/query, service/card
 */

package models

import "time"

// Category 学校类别
type Category string

const (
	CategoryPublic        Category = "public"
	CategoryDirectSubsidy Category = "direct_subsidy"
	CategoryAided         Category = "aided"
	CategoryPrivate       Category = "private"
	CategoryOther         Category = "other"
)

// Label 类别显示名
func (c Category) Label() string {
	switch c {
	case CategoryPublic:
		return "官立"
	case CategoryDirectSubsidy:
		return "直資"
	case CategoryAided:
		return "資助"
	case CategoryPrivate:
		return "私立"
	case CategoryOther:
		return "其他"
	}
	return string(c)
}

// YesNo 二值标记
type YesNo string

const (
	Yes YesNo = "是"
	No  YesNo = "否"
)

// YesNoOf 布尔值转标记
func YesNoOf(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

// Article 相关文章
type Article struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// SchoolRecord 一所学校的规范化记录
type SchoolRecord struct {
	Name        string   `json:"name"`
	District    string   `json:"district,omitempty"`
	Network     string   `json:"network,omitempty"`
	Category    Category `json:"category,omitempty"`
	CategoryRaw string   `json:"category_raw,omitempty"`

	TeacherTrainingPct  float64 `json:"teacher_training_pct"`
	BachelorPct         float64 `json:"bachelor_pct"`
	PostgraduatePct     float64 `json:"postgraduate_pct"`
	SpecialEducationPct float64 `json:"special_education_pct"`
	Experience0To4Pct   float64 `json:"experience_0_4_pct"`
	Experience5To9Pct   float64 `json:"experience_5_9_pct"`
	Experience10PlusPct float64 `json:"experience_10_plus_pct"`

	ApprovedTeachers *int `json:"approved_teachers"`
	TotalTeachers    *int `json:"total_teachers"`

	P1Tests    int `json:"p1_tests"`
	P1Exams    int `json:"p1_exams"`
	P2To6Tests int `json:"p2_6_tests"`
	P2To6Exams int `json:"p2_6_exams"`

	P1AlternativeAssessment YesNo `json:"p1_alternative_assessment"`
	AvoidHolidayExams       YesNo `json:"avoid_holiday_exams"`
	AfternoonTutorial       YesNo `json:"afternoon_tutorial"`
	HasPTA                  YesNo `json:"has_pta"`
	HasSchoolBus            YesNo `json:"has_school_bus"`
	HasFeederSchool         bool  `json:"has_feeder_school"`

	FeaturesText   string `json:"-"`
	FullTextSearch string `json:"-"`

	Articles []Article         `json:"articles,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Field 读取原始列，列缺失返回空串
func (r *SchoolRecord) Field(column string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	if v, ok := r.Fields[column]; ok {
		return v
	}
	want := CanonicalColumn(column)
	for k, v := range r.Fields {
		if CanonicalColumn(k) == want {
			return v
		}
	}
	return ""
}

// NormalizeStats 规范化过程统计
type NormalizeStats struct {
	Rows              int      `json:"rows"`
	SkippedRows       int      `json:"skipped_rows"`
	MissingColumns    []string `json:"missing_columns,omitempty"`
	RescaledColumns   []string `json:"rescaled_columns,omitempty"`
	UnparseableValues int      `json:"unparseable_values"`
	ArticlesJoined    int      `json:"articles_joined"`
	NetworksJoined    int      `json:"networks_joined"`
}

// Collection 一次上传得到的全部记录
type Collection struct {
	Version  string          `json:"version"`
	Source   string          `json:"source,omitempty"`
	LoadedAt time.Time       `json:"loaded_at"`
	Columns  []string        `json:"columns"`
	Records  []*SchoolRecord `json:"-"`
	Stats    NormalizeStats  `json:"stats"`
}

// Len 记录数
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}
