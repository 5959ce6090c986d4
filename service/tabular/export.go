/*
 * @module service/tabular/export
 * @description 把筛选结果导出为 Excel 文件，可再次上传载入
 * @architecture 数据接入层
 * @documentReference DESIGN.md
 * @stateFlow 记录集合 -> Denormalize -> 表格 -> xlsx 字节
 * @rules 表头加粗并冻结首行；文章表无数据时不输出
 * @dependencies github.com/xuri/excelize/v2
 * @refs api/controllers/session_controller.go, cmd/schoolctl
 */

package tabular

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/normalizer"

	"github.com/xuri/excelize/v2"
)

const (
	RecordsSheetName  = "學校資料"
	ArticlesSheetName = "相關文章"

	// Excel 工作表名称长度上限
	maxSheetNameLen = 31
)

// ExportCollection 导出集合中的指定记录，records 为 nil 时导出全部
func ExportCollection(coll *models.Collection, records []*models.SchoolRecord) ([]byte, error) {
	subset := *coll
	if records != nil {
		subset.Records = records
	}
	recTable, artTable := normalizer.Denormalize(&subset)
	recTable.Name = RecordsSheetName
	artTable.Name = ArticlesSheetName
	if artTable.Len() == 0 {
		return ExportXLSX(recTable)
	}
	return ExportXLSX(recTable, artTable)
}

// ExportXLSX 每个表格写为一个工作表
func ExportXLSX(tables ...*models.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	written := 0
	for i, t := range tables {
		if t == nil {
			continue
		}
		name := sheetName(t.Name, i)
		if written == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("创建工作表失败: %w", err)
		}
		if err := writeSheet(f, name, t, headerStyle); err != nil {
			return nil, err
		}
		written++
	}
	if written == 0 {
		return nil, models.ErrEmptyTable
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("写入Excel失败: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, t *models.Table, headerStyle int) error {
	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("坐标转换失败: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("写入表头 %s 失败: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("设置表头样式失败: %w", err)
		}
		if err := f.SetColWidth(sheet, colName(col+1), colName(col+1), columnWidth(header)); err != nil {
			return fmt.Errorf("设置列宽失败: %w", err)
		}
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(t.Headers))
		for c, h := range t.Headers {
			values[c] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("坐标转换失败: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("写入第 %d 行失败: %w", r+2, err)
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("冻结表头失败: %w", err)
	}
	return nil
}

func sheetName(name string, idx int) string {
	if name == "" {
		return "Sheet" + strconv.Itoa(idx+1)
	}
	if utf8.RuneCountInString(name) > maxSheetNameLen {
		return string([]rune(name)[:maxSheetNameLen])
	}
	return name
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

// columnWidth 中文表头按双倍宽度估算
func columnWidth(header string) float64 {
	w := 0
	for _, r := range header {
		if r > 0x2E80 {
			w += 2
		} else {
			w++
		}
	}
	switch {
	case w < 10:
		return 12
	case w > 40:
		return 40
	}
	return float64(w + 2)
}
