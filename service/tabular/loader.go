/*
 * @module service/tabular/loader
 * @description 上传文件解析，支持 CSV 与 XLSX，输出以列名索引的内存表格
 * @architecture 数据接入层
 * @documentReference DESIGN.md
 * @stateFlow 文件字节 -> 编码识别 -> 行列 -> 表头识别 -> models.Table
 * @rules
 *   - CSV 支持 UTF-8（含 BOM）、UTF-16（含 BOM），非法 UTF-8 时按 Big5 解码
 *   - 表头为第一行非空行，空表头与重复表头自动改名
 *   - 完全空白的数据行忽略
 * @dependencies github.com/xuri/excelize/v2, golang.org/x/text
 * @refs service/normalizer, service/models/table.go
 */

package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Workbook 一个上传文件解析出的全部工作表
type Workbook struct {
	Filename string
	Sheets   []*models.Table
}

// Sheet 按名称查找工作表
func (w *Workbook) Sheet(name string) (*models.Table, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Load 按扩展名解析文件
func Load(filename string, r io.Reader) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}
		table, err := loadCSV(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), data)
		if err != nil {
			return nil, err
		}
		return &Workbook{Filename: filename, Sheets: []*models.Table{table}}, nil
	case ".xlsx", ".xlsm":
		return loadXLSX(filename, r)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
	}
}

func loadCSV(name string, data []byte) (*models.Table, error) {
	text, encoding, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("解析CSV文件", "name", name, "encoding", encoding, "bytes", len(data))

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %w", err)
	}
	return buildTable(name, rows)
}

// decodeText 识别文本编码并转换为 UTF-8
func decodeText(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:]), "utf-8-bom", nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", "", fmt.Errorf("UTF-16解码失败: %w", err)
		}
		return string(out), "utf-16", nil
	case utf8.Valid(data):
		return string(data), "utf-8", nil
	}
	out, _, err := transform.Bytes(traditionalchinese.Big5.NewDecoder(), data)
	if err != nil {
		return "", "", fmt.Errorf("Big5解码失败: %w", err)
	}
	return string(out), "big5", nil
}

func loadXLSX(filename string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开Excel文件失败: %w", err)
	}
	defer f.Close()

	wb := &Workbook{Filename: filename}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
		}
		table, err := buildTable(sheet, rows)
		if err != nil {
			slog.Debug("跳过空工作表", "sheet", sheet)
			continue
		}
		wb.Sheets = append(wb.Sheets, table)
	}
	if len(wb.Sheets) == 0 {
		return nil, models.ErrEmptyTable
	}
	return wb, nil
}

// buildTable 以第一行非空行为表头组装表格
func buildTable(name string, rows [][]string) (*models.Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, models.ErrEmptyTable
	}

	headers := uniqueHeaders(rows[headerIdx])
	table := models.NewTable(name, headers)
	for _, row := range rows[headerIdx+1:] {
		if blankRow(row) {
			continue
		}
		table.AppendRow(row)
	}
	return table, nil
}

// uniqueHeaders 清理表头，空表头命名为「欄N」，重复表头追加序号
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(norm.NFKC.String(h))
		if h == "" {
			h = "欄" + strconv.Itoa(i+1)
		}
		name := h
		for n := 2; taken[models.CanonicalColumn(name)]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		taken[models.CanonicalColumn(name)] = true
		headers[i] = name
	}
	return headers
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
