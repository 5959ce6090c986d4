/*
 * @module service/models/table
 * @description 内存表格模型，上传文件解析后交给规范化器的统一输入
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 文件解析 -> Table -> 规范化器
 * @rules 列名统一经过 CanonicalColumn 规范化，读取缺失列不报错
 * @dependencies golang.org/x/text/unicode/norm
 * @refs service/tabular, service/normalizer
 */

package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Table 以列名索引的内存表格
type Table struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`

	index map[string]string
}

// NewTable 创建表格，表头按 CanonicalColumn 规范化
func NewTable(name string, headers []string) *Table {
	t := &Table{Name: name}
	for _, h := range headers {
		t.addHeader(h)
	}
	return t
}

func (t *Table) addHeader(h string) string {
	if t.index == nil {
		t.index = make(map[string]string)
	}
	key := CanonicalColumn(h)
	if existing, ok := t.index[key]; ok {
		return existing
	}
	t.index[key] = h
	t.Headers = append(t.Headers, h)
	return h
}

// AppendRow 按表头顺序追加一行，多余单元格丢弃，不足补空
func (t *Table) AppendRow(cells []string) {
	row := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = ""
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendRecord 追加以列名为键的一行，未知列自动加入表头
func (t *Table) AppendRecord(record map[string]string) {
	row := make(map[string]string, len(record))
	for k, v := range record {
		row[t.addHeader(k)] = v
	}
	t.Rows = append(t.Rows, row)
}

// Column 返回实际表头名，列不存在时 ok 为 false
func (t *Table) Column(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.index == nil {
		t.index = make(map[string]string, len(t.Headers))
		for _, h := range t.Headers {
			t.index[CanonicalColumn(h)] = h
		}
	}
	h, ok := t.index[CanonicalColumn(name)]
	return h, ok
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// FirstColumn 返回第一个存在的候选列
func (t *Table) FirstColumn(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if h, ok := t.Column(c); ok {
			return h, true
		}
	}
	return "", false
}

// Value 读取单元格，列缺失时 ok 为 false
func (t *Table) Value(row map[string]string, column string) (string, bool) {
	h, ok := t.Column(column)
	if !ok {
		return "", false
	}
	return row[h], true
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// CanonicalColumn 列名比较用的规范形式：NFKC、小写、折叠空白
func CanonicalColumn(name string) string {
	s := strings.ToLower(norm.NFKC.String(name))
	return strings.Join(strings.Fields(s), " ")
}
