/*
 * @module service/normalizer/normalizer_test
 * @description 学校资料规范化器单元测试
 * @architecture 测试层 - 纯函数测试，无外部依赖
 * @documentReference DESIGN.md
 * @stateFlow 样例表格 -> 规范化 -> 字段断言
 * @rules 覆盖缺省值表、尺度检测、连接与幂等性
 * @dependencies testing, testify
 * @refs normalizer.go, join.go, denormalize.go
 */

package normalizer

import (
	"errors"
	"math"
	"testing"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeSample(t *testing.T) *models.Collection {
	t.Helper()
	coll, err := NewNormalizer(DefaultOptions()).Normalize(testutil.SampleSchoolTable(), testutil.SampleArticlesTable(), nil)
	require.NoError(t, err)
	require.Equal(t, 4, coll.Len())
	return coll
}

func findRecord(coll *models.Collection, name string) *models.SchoolRecord {
	for _, r := range coll.Records {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func TestNormalize_SampleTable(t *testing.T) {
	coll := normalizeSample(t)

	public := findRecord(coll, "沙田官立小學")
	require.NotNil(t, public)
	assert.Equal(t, models.CategoryPublic, public.Category)
	assert.Equal(t, "沙田區", public.District)
	assert.Equal(t, "91", public.Network)
	assert.Equal(t, 95.0, public.TeacherTrainingPct)
	require.NotNil(t, public.ApprovedTeachers)
	assert.Equal(t, 50, *public.ApprovedTeachers)
	assert.Equal(t, models.Yes, public.P1AlternativeAssessment)
	assert.Equal(t, models.No, public.AfternoonTutorial)
	assert.Equal(t, models.Yes, public.HasPTA)
	assert.False(t, public.HasFeederSchool)
	assert.Contains(t, public.FeaturesText, "推動STEM教育")
	assert.Contains(t, public.FullTextSearch, "沙田官立小學")

	dss := findRecord(coll, "聖保羅直資小學")
	require.NotNil(t, dss)
	assert.Equal(t, models.CategoryDirectSubsidy, dss.Category)
	assert.Equal(t, 100.0, dss.TeacherTrainingPct)
	assert.Equal(t, 65.6, dss.PostgraduatePct)
	assert.Nil(t, dss.ApprovedTeachers)
	require.NotNil(t, dss.TotalTeachers)
	assert.Equal(t, 40, *dss.TotalTeachers)
	assert.Equal(t, 1, dss.P1Exams)
	assert.Equal(t, 3, dss.P2To6Tests)
	assert.Equal(t, models.Yes, dss.HasSchoolBus)
	assert.True(t, dss.HasFeederSchool)

	aided := findRecord(coll, "天主教資助小學")
	require.NotNil(t, aided)
	assert.Equal(t, models.CategoryAided, aided.Category)
	assert.Equal(t, 88.5, aided.TeacherTrainingPct)
	assert.Equal(t, models.Yes, aided.AfternoonTutorial)
	assert.Equal(t, models.No, aided.HasSchoolBus)

	private := findRecord(coll, "國際私立學校")
	require.NotNil(t, private)
	assert.Equal(t, models.CategoryPrivate, private.Category)
	assert.Equal(t, 0.0, private.BachelorPct)
	assert.Nil(t, private.ApprovedTeachers)
	assert.Nil(t, private.TotalTeachers)
	assert.Equal(t, 0, private.P1Tests, "負數測驗次數應歸零")
	assert.Equal(t, models.No, private.HasPTA)

	assert.Equal(t, 4, coll.Stats.Rows)
	assert.Equal(t, 2, coll.Stats.UnparseableValues)

	fractional := testutil.NewSchoolTable(testutil.NewSchoolRow("小數小學",
		testutil.WithField(meta.ColTotalTeachers, "40.7"),
		testutil.WithField(meta.ColP2To6Tests, "3.7")))
	fc, err := NewNormalizer(DefaultOptions()).Normalize(fractional, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, fc.Records[0].TotalTeachers)
	assert.Equal(t, 40, *fc.Records[0].TotalTeachers, "小數人數捨去小數部分")
	assert.Equal(t, 3, fc.Records[0].P2To6Tests)
	assert.Empty(t, coll.Stats.RescaledColumns)
}

func TestNormalize_PercentagesInRange(t *testing.T) {
	table := testutil.NewSchoolTable(
		testutil.NewSchoolRow("甲", testutil.WithField(meta.ColBachelorPct, "120")),
		testutil.NewSchoolRow("乙", testutil.WithField(meta.ColBachelorPct, "-5")),
		testutil.NewSchoolRow("丙", testutil.WithField(meta.ColBachelorPct, "33.333")),
		testutil.NewSchoolRow("丁", testutil.WithField(meta.ColBachelorPct, "９５．５％")),
		testutil.NewSchoolRow("戊", testutil.WithField(meta.ColBachelorPct, "abc")),
	)
	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)

	expected := map[string]float64{"甲": 100, "乙": 0, "丙": 33.3, "丁": 95.5, "戊": 0}
	for _, r := range coll.Records {
		assert.Equal(t, expected[r.Name], r.BachelorPct, r.Name)
		for _, f := range models.PercentFields {
			v := f.Get(r)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
			assert.InDelta(t, math.Round(v*10), v*10, 1e-9, "%s 應保留一位小數", f.Key)
		}
	}
}

func TestNormalize_FractionScaleDetection(t *testing.T) {
	table := testutil.NewSchoolTable(
		testutil.NewSchoolRow("甲", testutil.WithField(meta.ColExperience0To4Pct, "0.125")),
		testutil.NewSchoolRow("乙", testutil.WithField(meta.ColExperience0To4Pct, "0.5")),
		testutil.NewSchoolRow("丙", testutil.WithField(meta.ColExperience0To4Pct, "0.8%")),
	)
	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 12.5, findRecord(coll, "甲").Experience0To4Pct)
	assert.Equal(t, 50.0, findRecord(coll, "乙").Experience0To4Pct)
	assert.Equal(t, 0.8, findRecord(coll, "丙").Experience0To4Pct, "帶百分號的值不參與換算")
	assert.Equal(t, []string{meta.ColExperience0To4Pct}, coll.Stats.RescaledColumns)
}

func TestNormalize_MixedPercentColumns(t *testing.T) {
	table := testutil.NewSchoolTable(
		testutil.NewSchoolRow("甲",
			testutil.WithField(meta.ColBachelorPct, "0.9"),
			testutil.WithField(meta.ColExperience0To4Pct, "0.5%")),
		testutil.NewSchoolRow("乙",
			testutil.WithField(meta.ColBachelorPct, "85%"),
			testutil.WithField(meta.ColExperience0To4Pct, "0.8%")),
	)
	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)

	// 只按不帶百分號的值判斷比例，帶百分號的值原樣保留
	assert.Equal(t, 90.0, findRecord(coll, "甲").BachelorPct)
	assert.Equal(t, 85.0, findRecord(coll, "乙").BachelorPct)
	assert.Equal(t, 0.5, findRecord(coll, "甲").Experience0To4Pct)
	assert.Equal(t, 0.8, findRecord(coll, "乙").Experience0To4Pct)
	assert.Equal(t, []string{meta.ColBachelorPct}, coll.Stats.RescaledColumns)
}

func TestParseCount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected *int
	}{
		{name: "整数", input: "40", expected: intPtr(40)},
		{name: "小数舍去", input: "3.7", expected: intPtr(3)},
		{name: "千分位", input: "1,200", expected: intPtr(1200)},
		{name: "负数", input: "-1.5", expected: intPtr(-1)},
		{name: "空值", input: "  ", expected: nil},
		{name: "无法解析", input: "N/A", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseCount(tc.input)
			assert.Equal(t, tc.expected != nil, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestNormalize_MissingRequiredColumn(t *testing.T) {
	table := models.NewTable("bad", []string{meta.ColDistrict})
	table.AppendRow([]string{"沙田區"})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	assert.Nil(t, coll)
	assert.True(t, errors.Is(err, models.ErrMissingRequiredColumn))

	_, err = NewNormalizer(DefaultOptions()).Normalize(nil, nil, nil)
	assert.True(t, errors.Is(err, models.ErrEmptyTable))
}

func TestNormalize_MissingOptionalColumns(t *testing.T) {
	table := models.NewTable("minimal", []string{meta.ColSchoolName})
	table.AppendRow([]string{"簡單小學"})
	table.AppendRow([]string{"  "})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())
	assert.Equal(t, 1, coll.Stats.SkippedRows)

	r := coll.Records[0]
	assert.Equal(t, "", r.District)
	assert.Equal(t, models.Category(""), r.Category)
	assert.Nil(t, r.ApprovedTeachers)
	assert.Nil(t, r.TotalTeachers)
	assert.Equal(t, 0, r.P2To6Exams)
	assert.Equal(t, 0.0, r.TeacherTrainingPct)
	for _, f := range models.FlagFields {
		assert.Equal(t, models.No, f.Get(r), f.Key)
	}
	assert.False(t, r.HasFeederSchool)
	assert.Contains(t, coll.Stats.MissingColumns, meta.ColDistrict)
}

func TestNormalize_HeaderVariants(t *testing.T) {
	table := models.NewTable("variants", []string{" 學校名稱 ", "已接受師資培訓（佔全校教師人數％）"})
	table.AppendRow([]string{"全形小學", "80"})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())
	assert.Equal(t, 80.0, coll.Records[0].TeacherTrainingPct)
}

func TestNormalize_FlagFromPolicyText(t *testing.T) {
	table := models.NewTable("policy", []string{meta.ColSchoolName, meta.ColHomeworkPolicy, meta.ColAssessmentPolicy})
	table.AppendRow([]string{"導修小學", "下午設導修課，學生在校完成家課", "避免緊接在長假期後安排測考"})
	table.AppendRow([]string{"普通小學", "每天家課適量", ""})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Yes, findRecord(coll, "導修小學").AfternoonTutorial)
	assert.Equal(t, models.Yes, findRecord(coll, "導修小學").AvoidHolidayExams)
	assert.Equal(t, models.No, findRecord(coll, "普通小學").AfternoonTutorial)
	assert.Equal(t, models.No, findRecord(coll, "普通小學").AvoidHolidayExams)
}

func TestNormalize_FlagSourceFallback(t *testing.T) {
	table := models.NewTable("bus", []string{meta.ColSchoolName, meta.ColNannyBus})
	table.AppendRow([]string{"保姆車小學", "有"})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Yes, coll.Records[0].HasSchoolBus, "校車列缺失時以保姆車列判定")
}

func TestIsPlaceholder(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "空字符串", input: "", expected: true},
		{name: "横线", input: "-", expected: true},
		{name: "沒有", input: "沒有", expected: true},
		{name: "無", input: "無", expected: true},
		{name: "英文none大小写", input: "None", expected: true},
		{name: "N/A", input: " N/A ", expected: true},
		{name: "真实校名", input: "聖保羅書院", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsPlaceholder(tc.input))
		})
	}
}

func TestHasFeederSchool_AllPlaceholders(t *testing.T) {
	table := testutil.NewSchoolTable(testutil.NewSchoolRow("無直屬小學",
		testutil.WithField(meta.ColThroughTrainSchool, "-"),
		testutil.WithField(meta.ColFeederSchool, ""),
		testutil.WithField(meta.ColLinkedSchool, "沒有"),
	))
	coll, err := NewNormalizer(DefaultOptions()).Normalize(table, nil, nil)
	require.NoError(t, err)
	assert.False(t, coll.Records[0].HasFeederSchool)
}

func TestIsAffirmative(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "有", input: "有", expected: true},
		{name: "是", input: "是", expected: true},
		{name: "英文yes", input: "YES", expected: true},
		{name: "前后空白", input: " 有 ", expected: true},
		{name: "沒有不算包含有", input: "沒有", expected: false},
		{name: "否", input: "否", expected: false},
		{name: "横线", input: "-", expected: false},
		{name: "空字符串", input: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAffirmative(tc.input))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	testCases := []struct {
		name     string
		fallback CategoryFallback
		input    string
		expected models.Category
	}{
		{name: "官立", fallback: FallbackOther, input: "官立", expected: models.CategoryPublic},
		{name: "直接資助優先於資助", fallback: FallbackOther, input: "直接資助", expected: models.CategoryDirectSubsidy},
		{name: "直資", fallback: FallbackOther, input: "直資", expected: models.CategoryDirectSubsidy},
		{name: "資助", fallback: FallbackOther, input: "資助", expected: models.CategoryAided},
		{name: "英文大小写", fallback: FallbackOther, input: "Government", expected: models.CategoryPublic},
		{name: "私立", fallback: FallbackOther, input: "私立", expected: models.CategoryPrivate},
		{name: "未匹配记为其他", fallback: FallbackOther, input: "英基", expected: models.CategoryOther},
		{name: "未匹配保留原值", fallback: FallbackRaw, input: "英基", expected: models.Category("英基")},
		{name: "空值", fallback: FallbackOther, input: "  ", expected: models.Category("")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNormalizer(Options{CategoryFallback: tc.fallback})
			assert.Equal(t, tc.expected, n.NormalizeCategory(tc.input))
		})
	}
}

func TestNormalize_ArticleJoin(t *testing.T) {
	coll := normalizeSample(t)

	public := findRecord(coll, "沙田官立小學")
	require.Len(t, public.Articles, 2)
	assert.Equal(t, "校長專訪", public.Articles[0].Title)
	assert.Equal(t, "https://example.com/a2", public.Articles[1].URL)
	assert.Empty(t, findRecord(coll, "國際私立學校").Articles)
	assert.Equal(t, 2, coll.Stats.ArticlesJoined)
}

func TestNormalize_NetworkJoin(t *testing.T) {
	networks := models.NewTable("networks", []string{meta.ColSchoolName, meta.ColDistrict, meta.ColNetwork})
	networks.AppendRow([]string{"國際私立學校", "九龍城區", "34"})
	networks.AppendRow([]string{"沙田官立小學", "", ""})
	networks.AppendRow([]string{"不存在小學", "離島區", "99"})

	coll, err := NewNormalizer(DefaultOptions()).Normalize(testutil.SampleSchoolTable(), nil, networks)
	require.NoError(t, err)

	assert.Equal(t, 4, coll.Len(), "左連接不應丟失任何記錄")
	assert.Equal(t, "34", findRecord(coll, "國際私立學校").Network)
	assert.Equal(t, "91", findRecord(coll, "沙田官立小學").Network, "空值不覆蓋原有校網")
	assert.Equal(t, "12", findRecord(coll, "聖保羅直資小學").Network)
	assert.Equal(t, 2, coll.Stats.NetworksJoined)
}

// projection 去除依赖表头排列的派生字段，只比较规范字段
func projection(r *models.SchoolRecord) models.SchoolRecord {
	p := *r
	p.Fields = nil
	p.FullTextSearch = ""
	return p
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, fallback := range []CategoryFallback{FallbackOther, FallbackRaw} {
		t.Run(string(fallback), func(t *testing.T) {
			n := NewNormalizer(Options{CategoryFallback: fallback})
			first, err := n.Normalize(testutil.SampleSchoolTable(), testutil.SampleArticlesTable(), nil)
			require.NoError(t, err)

			records, articles := Denormalize(first)
			second, err := n.Normalize(records, articles, nil)
			require.NoError(t, err)

			require.Equal(t, first.Len(), second.Len())
			for i := range first.Records {
				assert.Equal(t, projection(first.Records[i]), projection(second.Records[i]), first.Records[i].Name)
			}
		})
	}
}
