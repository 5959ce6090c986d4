/*
 * @module service/card/card
 * @description 学校卡片展示模型，把规范记录整理为设施、师资、图表数据、课业安排与办学特色
 * @architecture 展示层 - 纯函数组装
 * @documentReference DESIGN.md
 * @stateFlow SchoolRecord + 标注器 -> Card
 * @rules
 *   - 未知的教师人数显示为 N/A，差额只在两个人数都已知时计算
 *   - 饼图数据总和为 0 时 HasData 为 false
 *   - 空值与 "-" 不显示
 * @dependencies service/highlight
 * @refs api/controllers/session_controller.go
 */

package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/highlight"
	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// NotAvailable 缺失值的显示文本
const NotAvailable = "N/A"

// LabeledText 带标题的文本
type LabeledText struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// FeatureSection 办学特色段落，HTML 已分段并标注关键字
type FeatureSection struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Facilities 学校设施
type Facilities struct {
	Line   string        `json:"line"`
	Counts []LabeledText `json:"counts"`
	Others []LabeledText `json:"others,omitempty"`
}

// Staffing 师资团队概览
type Staffing struct {
	Approved  *int   `json:"approved"`
	Total     *int   `json:"total"`
	Delta     *int   `json:"delta,omitempty"`
	DeltaText string `json:"delta_text,omitempty"`
}

// Pie 饼图数据
type Pie struct {
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"`
	HasData bool      `json:"has_data"`
}

// Card 一所学校的展示卡片
type Card struct {
	Name       string           `json:"name"`
	District   string           `json:"district"`
	Network    string           `json:"network,omitempty"`
	Category   string           `json:"category,omitempty"`
	Facilities Facilities       `json:"facilities"`
	Staffing   Staffing         `json:"staffing"`
	Education  Pie              `json:"education"`
	Experience Pie              `json:"experience"`
	Homework   []LabeledText    `json:"homework"`
	Features   []FeatureSection `json:"features"`
	Articles   []models.Article `json:"articles,omitempty"`
}

var facilityCountColumns = []LabeledText{
	{Title: "課室", Value: meta.ColClassrooms},
	{Title: "禮堂", Value: meta.ColHalls},
	{Title: "操場", Value: meta.ColPlaygrounds},
	{Title: "圖書館", Value: meta.ColLibraries},
}

var otherFacilityColumns = []LabeledText{
	{Title: "特別室", Value: meta.ColSpecialRooms},
	{Title: "SEN 支援設施", Value: meta.ColSENFacilities},
	{Title: "其他設施", Value: meta.ColOtherFacilities},
}

// 卡片中展示的办学特色列及显示标题
var featureSections = []LabeledText{
	{Title: "學校關注事項", Value: meta.ColSchoolFocus},
	{Title: "學習和教學策略", Value: meta.ColLearningStrategies},
	{Title: "課程更新重點", Value: meta.ColCurriculumRenewal},
	{Title: "共通能力培養", Value: meta.ColGenericSkills},
	{Title: "價值觀培養", Value: meta.ColValuesCultivation},
	{Title: "照顧學生多樣性", Value: meta.ColLearnerDiversity},
	{Title: "融合教育模式", Value: meta.ColIntegratedEducation},
	{Title: "非華語學生支援", Value: meta.ColNonChineseSupport},
	{Title: "課程剪裁調適", Value: meta.ColCurriculumTailoring},
	{Title: "家校合作", Value: meta.ColHomeSchoolCooperation},
	{Title: "校風", Value: meta.ColSchoolEthos},
	{Title: "學校發展計劃", Value: meta.ColDevelopmentPlan},
	{Title: "教師專業發展", Value: meta.ColTeacherDevelopment},
	{Title: "其他未來發展", Value: meta.ColOtherDevelopment},
}

// Build 组装卡片，h 为 nil 时不标注关键字
func Build(rec *models.SchoolRecord, h *highlight.Highlighter) Card {
	if h == nil {
		h = highlight.NewHighlighter(nil)
	}
	c := Card{
		Name:       rec.Name,
		District:   orNA(rec.District),
		Network:    rec.Network,
		Facilities: buildFacilities(rec),
		Staffing:   buildStaffing(rec),
		Education: buildPie(
			[]string{"學士", "碩士或以上"},
			[]float64{rec.BachelorPct, rec.PostgraduatePct},
		),
		Experience: buildPie(
			[]string{"0-4年", "5-9年", "10年以上"},
			[]float64{rec.Experience0To4Pct, rec.Experience5To9Pct, rec.Experience10PlusPct},
		),
		Homework: buildHomework(rec),
		Articles: append([]models.Article(nil), rec.Articles...),
	}
	if rec.Category != "" {
		c.Category = rec.Category.Label()
	}
	for _, s := range featureSections {
		v := rec.Field(s.Value)
		if isBlank(v) {
			continue
		}
		c.Features = append(c.Features, FeatureSection{Title: s.Title, HTML: h.RenderHTML(v)})
	}
	return c
}

// BuildAll 按顺序组装多张卡片，共用同一组关键字
func BuildAll(records []*models.SchoolRecord, keywords []string) []Card {
	h := highlight.NewHighlighter(keywords)
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, Build(rec, h))
	}
	return cards
}

// ArticleURLs 卡片中全部文章链接，去重并保持顺序
func ArticleURLs(cards []Card) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, c := range cards {
		for _, a := range c.Articles {
			if _, ok := seen[a.URL]; ok {
				continue
			}
			seen[a.URL] = struct{}{}
			urls = append(urls, a.URL)
		}
	}
	return urls
}

// AttachThumbnails 按链接回填文章缩略图，找不到的保持为空
func AttachThumbnails(cards []Card, images map[string]string) {
	for i := range cards {
		for j := range cards[i].Articles {
			if img, ok := images[cards[i].Articles[j].URL]; ok {
				cards[i].Articles[j].ImageURL = img
			}
		}
	}
}

func buildFacilities(rec *models.SchoolRecord) Facilities {
	f := Facilities{Counts: make([]LabeledText, 0, len(facilityCountColumns))}
	parts := make([]string, 0, len(facilityCountColumns))
	for _, col := range facilityCountColumns {
		v := orNA(rec.Field(col.Value))
		f.Counts = append(f.Counts, LabeledText{Title: col.Title, Value: v})
		parts = append(parts, col.Title+": "+v)
	}
	f.Line = strings.Join(parts, " | ")

	for _, col := range otherFacilityColumns {
		v := rec.Field(col.Value)
		if isBlank(v) {
			continue
		}
		f.Others = append(f.Others, LabeledText{Title: col.Title, Value: v})
	}
	return f
}

func buildStaffing(rec *models.SchoolRecord) Staffing {
	s := Staffing{Approved: rec.ApprovedTeachers, Total: rec.TotalTeachers}
	if s.Approved == nil || s.Total == nil {
		return s
	}
	delta := *s.Total - *s.Approved
	s.Delta = &delta
	if delta >= 0 {
		s.DeltaText = "+" + strconv.Itoa(delta)
	} else {
		s.DeltaText = strconv.Itoa(delta)
	}
	return s
}

func buildPie(labels []string, values []float64) Pie {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Pie{Labels: labels, Values: values, HasData: sum > 0}
}

func buildHomework(rec *models.SchoolRecord) []LabeledText {
	diverse := rec.Field(meta.ColDiverseAssessment)
	if strings.TrimSpace(diverse) == "" {
		diverse = "未提供"
	}
	return []LabeledText{
		{Title: "小一測驗/考試次數", Value: fmt.Sprintf("%d / %d", rec.P1Tests, rec.P1Exams)},
		{Title: "高年級測驗/考試次數", Value: fmt.Sprintf("%d / %d", rec.P2To6Tests, rec.P2To6Exams)},
		{Title: "小一免試評估", Value: string(rec.P1AlternativeAssessment)},
		{Title: "多元學習評估", Value: diverse},
		{Title: "避免長假後測考", Value: string(rec.AvoidHolidayExams)},
		{Title: "下午導修時段", Value: string(rec.AfternoonTutorial)},
		{Title: "家長教師會", Value: string(rec.HasPTA)},
		{Title: "校車服務", Value: string(rec.HasSchoolBus)},
	}
}

// StaffingText 师资概览的单行文本，终端输出使用
func StaffingText(s Staffing) string {
	approved, total := NotAvailable, NotAvailable
	if s.Approved != nil {
		approved = strconv.Itoa(*s.Approved) + " 人"
	}
	if s.Total != nil {
		total = strconv.Itoa(*s.Total) + " 人"
	}
	line := "核准編制教師職位: " + approved + " | 全校教師總人數: " + total
	if s.DeltaText != "" {
		line += " (" + s.DeltaText + ")"
	}
	return line
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

func isBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "-"
}
