package facet

import (
	"strconv"

	"github.com/kingyeung625/hk-school-selector/service/models"
)

// 筛选器分组
const (
	GroupBasic    = "按學校名稱搜尋"
	GroupLocation = "按地區及校網搜尋"
	GroupFeature  = "按辦學特色搜尋"
	GroupStaffing = "按師資條件搜尋"
	GroupHomework = "按課業安排搜尋"
	GroupOther    = "其他條件"
)

// 筛选器键
const (
	KeyName            = "name"
	KeyFullText        = "fulltext"
	KeyDistrict        = "district"
	KeyNetwork         = "network"
	KeyCategory        = "category"
	KeyFeatureTeaching = "feature_teaching"
	KeyFeatureValues   = "feature_values"
	KeyFeatureSupport  = "feature_support"
	KeyHasFeeder       = "has_feeder_school"
)

// MaxKeyPrefix 测考次数上限筛选器键前缀，如 max_p1_tests
const MaxKeyPrefix = "max_"

// 办学特色关键字组
var (
	teachingKeywords = []KeywordOption{
		{Label: "自主學習及探究", Keywords: []string{"自主學習", "探究"}},
		{Label: "STEAM", Keywords: []string{"STEAM", "創客"}},
		{Label: "電子學習", Keywords: []string{"電子學習", "e-learning"}},
		{Label: "閱讀", Keywords: []string{"閱讀"}},
		{Label: "資優教育", Keywords: []string{"資優"}},
		{Label: "專題研習", Keywords: []string{"專題研習"}},
		{Label: "跨課程學習", Keywords: []string{"跨課程"}},
		{Label: "兩文三語", Keywords: []string{"兩文三語"}},
		{Label: "英文教育", Keywords: []string{"英文"}},
		{Label: "家校合作", Keywords: []string{"家校合作"}},
		{Label: "境外交流", Keywords: []string{"境外交流"}},
		{Label: "藝術", Keywords: []string{"藝術"}},
		{Label: "體育", Keywords: []string{"體育"}},
	}
	valuesKeywords = []KeywordOption{
		{Label: "中華文化教育", Keywords: []string{"中華文化"}},
		{Label: "正向、價值觀、生命教育", Keywords: []string{"正向", "價值觀", "生命教育"}},
		{Label: "國民教育、國安教育", Keywords: []string{"國民", "國安"}},
		{Label: "服務教育", Keywords: []string{"服務"}},
		{Label: "關愛及精神健康", Keywords: []string{"關愛", "健康"}},
	}
	supportKeywords = []KeywordOption{
		{Label: "全人發展", Keywords: []string{"全人發展", "多元發展"}},
		{Label: "生涯規劃、啟發潛能", Keywords: []string{"生涯規劃", "潛能"}},
		{Label: "拔尖補底、照顧差異", Keywords: []string{"拔尖補底", "個別差異"}},
		{Label: "融合教育", Keywords: []string{"融合教育"}},
	}
)

var triStateOptions = []Option{
	{Value: "不限", Label: "不限"},
	{Value: string(models.Yes), Label: string(models.Yes)},
	{Value: string(models.No), Label: string(models.No)},
}

// 小一考试次数上限选项只到 3 次
var examCountLimits = map[string]int{
	"p1_tests":   4,
	"p1_exams":   3,
	"p2_6_tests": 4,
	"p2_6_exams": 4,
}

// 不属于课业安排的是/否标记
var otherFlags = map[string]bool{"has_pta": true, "has_school_bus": true}

// DefaultDefinitions 全部筛选器定义，顺序即界面顺序
func DefaultDefinitions() []*Definition {
	defs := []*Definition{
		{
			Key: KeyName, Label: "學校名稱關鍵字", Group: GroupBasic, Kind: KindText, Cost: CostName,
			Text: func(r *models.SchoolRecord) string { return r.Name },
		},
		{
			Key: KeyFullText, Label: "全文搜尋", Group: GroupBasic, Kind: KindText, Cost: CostFullText,
			Text:      func(r *models.SchoolRecord) string { return r.FullTextSearch },
			Highlight: true,
		},
		{
			Key: KeyDistrict, Label: "地區", Group: GroupLocation, Kind: KindMultiSelect, Cost: CostEquality,
			Value:   func(r *models.SchoolRecord) string { return r.District },
			Dynamic: districtOptions,
		},
		{
			Key: KeyNetwork, Label: "校網", Group: GroupLocation, Kind: KindMultiSelect, Cost: CostEquality,
			Value:   func(r *models.SchoolRecord) string { return r.Network },
			Dynamic: networkOptions,
		},
		{
			Key: KeyCategory, Label: "學校類別", Group: GroupLocation, Kind: KindMultiSelect, Cost: CostEquality,
			Value:   func(r *models.SchoolRecord) string { return string(r.Category) },
			Dynamic: categoryOptions,
		},
		{
			Key: KeyFeatureTeaching, Label: "教學模式與重點", Group: GroupFeature, Kind: KindKeywordGroup, Cost: CostKeyword,
			KeywordOptions: teachingKeywords,
		},
		{
			Key: KeyFeatureValues, Label: "價值觀與品德", Group: GroupFeature, Kind: KindKeywordGroup, Cost: CostKeyword,
			KeywordOptions: valuesKeywords,
		},
		{
			Key: KeyFeatureSupport, Label: "學生支援與發展", Group: GroupFeature, Kind: KindKeywordGroup, Cost: CostKeyword,
			KeywordOptions: supportKeywords,
		},
	}

	for _, f := range models.PercentFields {
		defs = append(defs, &Definition{
			Key: f.Key, Label: f.Label, Group: GroupStaffing, Kind: KindMinThreshold, Cost: CostThreshold,
			Number: f.Get, Min: 0, Max: 100, Step: 5,
		})
	}

	for _, f := range models.ExamCountFields {
		limit := examCountLimits[f.Key]
		options := []Option{{Value: "任何次數", Label: "任何次數"}}
		for i := 0; i <= limit; i++ {
			options = append(options, Option{Value: strconv.Itoa(i), Label: strconv.Itoa(i)})
		}
		defs = append(defs, &Definition{
			Key: MaxKeyPrefix + f.Key, Label: f.Label, Group: GroupHomework, Kind: KindMaxThreshold, Cost: CostThreshold,
			Count: f.Get, MaxLimit: limit, Options: options,
		})
	}

	for _, f := range models.FlagFields {
		group := GroupHomework
		if otherFlags[f.Key] {
			group = GroupOther
		}
		defs = append(defs, &Definition{
			Key: f.Key, Label: f.Label + "？", Group: group, Kind: KindTriState, Cost: CostEquality,
			Flag: f.Get, Options: triStateOptions,
		})
	}

	defs = append(defs, &Definition{
		Key: KeyHasFeeder, Label: "設一條龍、直屬或聯繫中學？", Group: GroupOther, Kind: KindTriState, Cost: CostEquality,
		Flag:    func(r *models.SchoolRecord) models.YesNo { return models.YesNoOf(r.HasFeederSchool) },
		Options: triStateOptions,
	})
	return defs
}

// DefaultRegistry 默认筛选器登记表
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultDefinitions())
}
