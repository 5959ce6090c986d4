package normalizer

import (
	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// joinNetworks 按学校名称左连接校网表，匹配且非空时覆盖地区与校网，返回匹配数
func joinNetworks(records []*models.SchoolRecord, networks *models.Table) int {
	nameCol, ok := networks.Column(meta.ColSchoolName)
	if !ok {
		return 0
	}
	type location struct{ district, network string }
	lookup := make(map[string]location, networks.Len())
	for _, row := range networks.Rows {
		name := cleanCell(row[nameCol])
		if name == "" {
			continue
		}
		if _, dup := lookup[name]; dup {
			continue
		}
		var loc location
		if v, ok := networks.Value(row, meta.ColDistrict); ok {
			loc.district = cleanCell(v)
		}
		if v, ok := networks.Value(row, meta.ColNetwork); ok {
			loc.network = cleanCell(v)
		}
		lookup[name] = loc
	}

	joined := 0
	for _, rec := range records {
		loc, ok := lookup[rec.Name]
		if !ok {
			continue
		}
		joined++
		if loc.district != "" {
			rec.District = loc.district
		}
		if loc.network != "" {
			rec.Network = loc.network
		}
	}
	return joined
}

// joinArticles 按学校名称精确匹配挂接文章，标题或链接为空的行丢弃，返回挂接篇数
func joinArticles(records []*models.SchoolRecord, articles *models.Table) int {
	nameCol, ok := articles.Column(meta.ColSchoolName)
	if !ok {
		return 0
	}
	titleCol, ok := articles.FirstColumn(meta.ArticleTitleAliases...)
	if !ok {
		return 0
	}
	urlCol, ok := articles.FirstColumn(meta.ArticleURLAliases...)
	if !ok {
		return 0
	}

	grouped := make(map[string][]models.Article)
	for _, row := range articles.Rows {
		name := cleanCell(row[nameCol])
		title := cleanCell(row[titleCol])
		url := cleanCell(row[urlCol])
		if name == "" || title == "" || url == "" {
			continue
		}
		grouped[name] = append(grouped[name], models.Article{Title: title, URL: url})
	}

	joined := 0
	for _, rec := range records {
		list := grouped[rec.Name]
		if len(list) == 0 {
			continue
		}
		rec.Articles = append([]models.Article(nil), list...)
		joined += len(list)
	}
	return joined
}
