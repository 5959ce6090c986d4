package normalizer

import (
	"strconv"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// Denormalize 把记录集合还原为表格，用于导出与再次载入
// 规范字段覆盖原始列，百分比带百分号输出，再次规范化时不会重复换算
func Denormalize(coll *models.Collection) (records *models.Table, articles *models.Table) {
	headers := append([]string(nil), coll.Columns...)
	records = models.NewTable(coll.Source, headers)
	articles = models.NewTable("articles", []string{meta.ColSchoolName, meta.ColArticleTitle, meta.ColArticleURL})

	for _, rec := range coll.Records {
		row := make(map[string]string, len(rec.Fields)+24)
		for k, v := range rec.Fields {
			row[k] = v
		}
		set := func(column, value string) {
			if h, ok := records.Column(column); ok {
				row[h] = value
				return
			}
			row[column] = value
		}
		set(meta.ColSchoolName, rec.Name)
		set(meta.ColDistrict, rec.District)
		set(meta.ColNetwork, rec.Network)
		if rec.CategoryRaw != "" {
			if col, ok := records.FirstColumn(meta.ColCategory, meta.ColFinanceType); ok {
				row[col] = rec.CategoryRaw
			} else {
				row[meta.ColCategory] = rec.CategoryRaw
			}
		}
		for _, f := range models.PercentFields {
			set(f.Column, strconv.FormatFloat(f.Get(rec), 'f', 1, 64)+"%")
		}
		for _, f := range models.CountFields {
			if v := f.Get(rec); v != nil {
				set(f.Column, strconv.Itoa(*v))
			} else {
				set(f.Column, "")
			}
		}
		for _, f := range models.ExamCountFields {
			set(f.Column, strconv.Itoa(f.Get(rec)))
		}
		for _, f := range models.FlagFields {
			set(f.Sources[0].Column, string(f.Get(rec)))
		}
		records.AppendRecord(row)

		for _, a := range rec.Articles {
			articles.AppendRecord(map[string]string{
				meta.ColSchoolName:   rec.Name,
				meta.ColArticleTitle: a.Title,
				meta.ColArticleURL:   a.URL,
			})
		}
	}
	return records, articles
}
