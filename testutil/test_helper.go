/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference DESIGN.md
 * @stateFlow 测试数据创建 -> 测试执行 -> 结果断言
 * @rules 提供可重用的测试工具，样例数据覆盖全部规范字段与典型脏数据
 * @dependencies testify, httptest
 * @refs service/models, service/meta
 */

package testutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SchoolHeaders 样例学校表的表头
var SchoolHeaders = []string{
	meta.ColSchoolName, meta.ColDistrict, meta.ColNetwork, meta.ColCategory,
	meta.ColTeacherTrainingPct, meta.ColBachelorPct, meta.ColPostgraduatePct, meta.ColSpecialEducationPct,
	meta.ColExperience0To4Pct, meta.ColExperience5To9Pct, meta.ColExperience10PlusPct,
	meta.ColApprovedTeachers, meta.ColTotalTeachers,
	meta.ColP1Tests, meta.ColP1Exams, meta.ColP2To6Tests, meta.ColP2To6Exams,
	meta.ColP1AlternativeAssessment, meta.ColAvoidHolidayExams, meta.ColAfternoonTutorial,
	meta.ColPTA, meta.ColSchoolBus, meta.ColNannyBus,
	meta.ColThroughTrainSchool, meta.ColFeederSchool, meta.ColLinkedSchool,
	meta.ColSchoolFocus, meta.ColLearningStrategies, meta.ColHomeworkPolicy,
	meta.ColClassrooms, meta.ColHalls, meta.ColPlaygrounds, meta.ColLibraries, meta.ColOtherFacilities,
}

// SchoolOption 样例学校选项函数类型
type SchoolOption func(map[string]string)

// WithField 覆盖任意列
func WithField(column, value string) SchoolOption {
	return func(row map[string]string) {
		row[column] = value
	}
}

// NewSchoolRow 创建一行完整的样例学校资料
func NewSchoolRow(name string, opts ...SchoolOption) map[string]string {
	row := map[string]string{
		meta.ColSchoolName:              name,
		meta.ColDistrict:                "沙田區",
		meta.ColNetwork:                 "91",
		meta.ColCategory:                "資助",
		meta.ColTeacherTrainingPct:      "95",
		meta.ColBachelorPct:             "60",
		meta.ColPostgraduatePct:         "40",
		meta.ColSpecialEducationPct:     "30",
		meta.ColExperience0To4Pct:       "10",
		meta.ColExperience5To9Pct:       "20",
		meta.ColExperience10PlusPct:     "70",
		meta.ColApprovedTeachers:        "50",
		meta.ColTotalTeachers:           "48",
		meta.ColP1Tests:                 "0",
		meta.ColP1Exams:                 "0",
		meta.ColP2To6Tests:              "2",
		meta.ColP2To6Exams:              "2",
		meta.ColP1AlternativeAssessment: "是",
		meta.ColAvoidHolidayExams:       "是",
		meta.ColAfternoonTutorial:       "否",
		meta.ColPTA:                     "有",
		meta.ColSchoolBus:               "有",
		meta.ColNannyBus:                "-",
		meta.ColThroughTrainSchool:      "-",
		meta.ColFeederSchool:            "沒有",
		meta.ColLinkedSchool:            "",
		meta.ColSchoolFocus:             "(1) 推動STEM教育 (2) 培養閱讀習慣",
		meta.ColLearningStrategies:      "電子學習及自主學習",
		meta.ColHomeworkPolicy:          "每天家課不多於一小時",
		meta.ColClassrooms:              "24",
		meta.ColHalls:                   "1",
		meta.ColPlaygrounds:             "2",
		meta.ColLibraries:               "1",
		meta.ColOtherFacilities:         "-",
	}
	for _, opt := range opts {
		opt(row)
	}
	return row
}

// NewSchoolTable 以给定行创建学校表，表头固定为 SchoolHeaders
func NewSchoolTable(rows ...map[string]string) *models.Table {
	t := models.NewTable("schools", SchoolHeaders)
	for _, row := range rows {
		t.AppendRecord(row)
	}
	return t
}

// SampleSchoolTable 四所学校的样例表，覆盖直资、资助、官立、私立与常见脏数据
func SampleSchoolTable() *models.Table {
	return NewSchoolTable(
		NewSchoolRow("沙田官立小學",
			WithField(meta.ColCategory, "官立"),
		),
		NewSchoolRow("聖保羅直資小學",
			WithField(meta.ColDistrict, "灣仔區"),
			WithField(meta.ColNetwork, "12"),
			WithField(meta.ColCategory, "直資"),
			WithField(meta.ColTeacherTrainingPct, "100%"),
			WithField(meta.ColPostgraduatePct, "65.56"),
			WithField(meta.ColApprovedTeachers, ""),
			WithField(meta.ColTotalTeachers, "40"),
			WithField(meta.ColP1Tests, "1"),
			WithField(meta.ColP1Exams, "1"),
			WithField(meta.ColP2To6Tests, "3"),
			WithField(meta.ColP2To6Exams, "3"),
			WithField(meta.ColP1AlternativeAssessment, "否"),
			WithField(meta.ColAvoidHolidayExams, "否"),
			WithField(meta.ColSchoolBus, "Yes"),
			WithField(meta.ColFeederSchool, "聖保羅書院"),
			WithField(meta.ColSchoolFocus, "① 英語教學 ② 音樂培訓"),
		),
		NewSchoolRow("天主教資助小學",
			WithField(meta.ColTeacherTrainingPct, "88.5%"),
			WithField(meta.ColAfternoonTutorial, "是"),
			WithField(meta.ColSchoolBus, "沒有"),
			WithField(meta.ColSchoolFocus, "推動正向教育，培養品德"),
		),
		NewSchoolRow("國際私立學校",
			WithField(meta.ColDistrict, "九龍城區"),
			WithField(meta.ColNetwork, "41"),
			WithField(meta.ColCategory, "私立"),
			WithField(meta.ColBachelorPct, "-"),
			WithField(meta.ColApprovedTeachers, "N/A"),
			WithField(meta.ColTotalTeachers, ""),
			WithField(meta.ColP1Tests, "-1"),
			WithField(meta.ColPTA, "沒有"),
			WithField(meta.ColSchoolBus, "沒有"),
			WithField(meta.ColSchoolFocus, "IB課程"),
			WithField(meta.ColClassrooms, ""),
		),
	)
}

// SampleArticlesTable 样例文章表，含一行缺链接与一行未知学校
func SampleArticlesTable() *models.Table {
	t := models.NewTable("articles", []string{meta.ColSchoolName, meta.ColArticleTitle, meta.ColArticleURL})
	t.AppendRow([]string{"沙田官立小學", "校長專訪", "https://example.com/a1"})
	t.AppendRow([]string{"沙田官立小學", "STEM 日", "https://example.com/a2"})
	t.AppendRow([]string{"沙田官立小學", "缺連結", ""})
	t.AppendRow([]string{"不存在小學", "無關文章", "https://example.com/x"})
	return t
}

// TableCSV 把表格按表头顺序写成 CSV 文本
func TableCSV(t *models.Table) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(t.Headers)
	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			cells[i] = row[h]
		}
		_ = w.Write(cells)
	}
	w.Flush()
	return buf.String()
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// CreateMultipartRequest 创建文件上传请求，files 为 字段名 -> (文件名, 内容)
func (h *HTTPTestHelper) CreateMultipartRequest(url string, files map[string][2]string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(file[1])); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// Envelope 统一响应结构的测试侧镜像
type Envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// DecodeEnvelope 解析统一响应并断言 HTTP 状态码，data 非 nil 时继续解析 Data
func (h *HTTPTestHelper) DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, data interface{}) Envelope {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, w.Body.String())

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
