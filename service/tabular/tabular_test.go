package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/normalizer"
	"github.com/kingyeung625/hk-school-selector/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const smallCSV = "學校名稱,地區,校網\n甲小學,沙田區,91\n乙小學,大埔區,84\n"

func encode(t *testing.T, tr transform.Transformer, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(tr, []byte(s))
	require.NoError(t, err)
	return out
}

func TestLoad_CSVEncodings(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "UTF-8", data: []byte(smallCSV)},
		{name: "UTF-8 BOM", data: append([]byte{0xEF, 0xBB, 0xBF}, smallCSV...)},
		{name: "UTF-16 LE BOM", data: encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), smallCSV)},
		{name: "UTF-16 BE BOM", data: encode(t, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder(), smallCSV)},
		{name: "Big5", data: encode(t, traditionalchinese.Big5.NewEncoder(), smallCSV)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wb, err := Load("schools.csv", bytes.NewReader(tc.data))
			require.NoError(t, err)
			require.Len(t, wb.Sheets, 1)

			table := wb.Sheets[0]
			assert.Equal(t, "schools", table.Name)
			assert.Equal(t, []string{"學校名稱", "地區", "校網"}, table.Headers)
			require.Equal(t, 2, table.Len())
			v, ok := table.Value(table.Rows[0], meta.ColSchoolName)
			assert.True(t, ok)
			assert.Equal(t, "甲小學", v)
		})
	}
}

func TestLoad_HeaderDetection(t *testing.T) {
	data := "\n,,,\n學校名稱 , 地區,,地區\n甲小學,沙田區,x,大埔區\n,,,\n乙小學\n"
	wb, err := Load("raw.csv", strings.NewReader(data))
	require.NoError(t, err)

	table := wb.Sheets[0]
	assert.Equal(t, []string{"學校名稱", "地區", "欄3", "地區_2"}, table.Headers)
	require.Equal(t, 2, table.Len(), "空白行忽略")
	assert.Equal(t, "大埔區", table.Rows[0]["地區_2"])
	assert.Equal(t, "", table.Rows[1]["地區"], "不足的单元格补空")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("schools.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)

	_, err = Load("empty.csv", strings.NewReader("\n , \n"))
	assert.ErrorIs(t, err, models.ErrEmptyTable)

	_, err = Load("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	networks := models.NewTable("networks", []string{meta.ColSchoolName, meta.ColDistrict, meta.ColNetwork})
	networks.AppendRow([]string{"沙田官立小學", "沙田區", "91"})

	testCases := []struct {
		name         string
		sheets       []*models.Table
		wantRecords  string
		wantArticles bool
		wantNetworks bool
		wantErr      error
	}{
		{
			name:         "文章表在前",
			sheets:       []*models.Table{testutil.SampleArticlesTable(), testutil.SampleSchoolTable()},
			wantRecords:  "schools",
			wantArticles: true,
		},
		{
			name:         "三表齐全",
			sheets:       []*models.Table{networks, testutil.SampleSchoolTable(), testutil.SampleArticlesTable()},
			wantRecords:  "schools",
			wantArticles: true,
			wantNetworks: true,
		},
		{
			name:        "只有名称地区校网三列的单表",
			sheets:      []*models.Table{networks},
			wantRecords: "networks",
		},
		{
			name:        "含文章列的单表",
			sheets:      []*models.Table{testutil.SampleArticlesTable()},
			wantRecords: "articles",
		},
		{
			name:         "校网表与文章表并存时校网表作为资料表",
			sheets:       []*models.Table{testutil.SampleArticlesTable(), networks},
			wantRecords:  "networks",
			wantArticles: true,
		},
		{
			name:    "没有学校资料表",
			sheets:  []*models.Table{models.NewTable("misc", []string{"備註"})},
			wantErr: models.ErrMissingRequiredColumn,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := (&Workbook{Sheets: tc.sheets}).Resolve()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRecords, ds.Records.Name)
			assert.Equal(t, tc.wantArticles, ds.Articles != nil)
			assert.Equal(t, tc.wantNetworks, ds.Networks != nil)
		})
	}
}

func TestLoadDataset_MinimalCSV(t *testing.T) {
	csv := "學校名稱,地區,校網\n甲小學,沙田區,91\n乙小學,大埔區,84\n"

	ds, err := LoadDataset(Source{Filename: "schools.csv", Reader: strings.NewReader(csv)}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, ds.Records)
	assert.Nil(t, ds.Networks)
	assert.Nil(t, ds.Articles)
	assert.Equal(t, 2, ds.Records.Len())

	coll, err := normalizer.NewNormalizer(normalizer.DefaultOptions()).Normalize(ds.Records, ds.Articles, ds.Networks)
	require.NoError(t, err)
	require.Equal(t, 2, coll.Len())
	assert.Equal(t, "甲小學", coll.Records[0].Name)
	assert.Equal(t, "91", coll.Records[0].Network)
}

func TestLoadDataset_SeparateFiles(t *testing.T) {
	main := Source{Filename: "schools.csv", Reader: strings.NewReader(testutil.TableCSV(testutil.SampleSchoolTable()))}
	articles := &Source{Filename: "articles.csv", Reader: strings.NewReader(testutil.TableCSV(testutil.SampleArticlesTable()))}

	ds, err := LoadDataset(main, articles, nil)
	require.NoError(t, err)
	require.NotNil(t, ds.Articles)
	assert.Nil(t, ds.Networks)
	assert.Equal(t, 4, ds.Records.Len())
	assert.Equal(t, 4, ds.Articles.Len())

	_, err = LoadDataset(main, &Source{Filename: "articles.doc", Reader: strings.NewReader("")}, nil)
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestExportCollection_RoundTrip(t *testing.T) {
	n := normalizer.NewNormalizer(normalizer.DefaultOptions())
	coll, err := n.Normalize(testutil.SampleSchoolTable(), testutil.SampleArticlesTable(), nil)
	require.NoError(t, err)

	data, err := ExportCollection(coll, nil)
	require.NoError(t, err)

	wb, err := Load("export.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	_, ok := wb.Sheet(RecordsSheetName)
	assert.True(t, ok)
	_, ok = wb.Sheet(ArticlesSheetName)
	assert.True(t, ok)

	ds, err := wb.Resolve()
	require.NoError(t, err)
	again, err := n.Normalize(ds.Records, ds.Articles, ds.Networks)
	require.NoError(t, err)

	require.Equal(t, coll.Len(), again.Len())
	for i, rec := range coll.Records {
		got := again.Records[i]
		assert.Equal(t, rec.Name, got.Name)
		assert.Equal(t, rec.Category, got.Category)
		assert.Equal(t, rec.TeacherTrainingPct, got.TeacherTrainingPct)
		assert.Equal(t, rec.PostgraduatePct, got.PostgraduatePct)
		assert.Equal(t, rec.TotalTeachers, got.TotalTeachers)
		assert.Equal(t, rec.HasSchoolBus, got.HasSchoolBus)
		assert.Equal(t, rec.HasFeederSchool, got.HasFeederSchool)
		assert.Equal(t, rec.Articles, got.Articles)
	}
	assert.Empty(t, again.Stats.RescaledColumns)
}

func TestExportCollection_Subset(t *testing.T) {
	coll, err := normalizer.NewNormalizer(normalizer.DefaultOptions()).Normalize(testutil.SampleSchoolTable(), nil, nil)
	require.NoError(t, err)

	data, err := ExportCollection(coll, coll.Records[1:2])
	require.NoError(t, err)

	wb, err := Load("subset.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1, "没有文章时只有一个工作表")
	assert.Equal(t, 1, wb.Sheets[0].Len())
	v, _ := wb.Sheets[0].Value(wb.Sheets[0].Rows[0], meta.ColSchoolName)
	assert.Equal(t, "聖保羅直資小學", v)
}

func TestExportXLSX_Empty(t *testing.T) {
	_, err := ExportXLSX(nil)
	assert.ErrorIs(t, err, models.ErrEmptyTable)
}
