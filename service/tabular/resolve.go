package tabular

import (
	"fmt"
	"io"

	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
)

// Dataset 规范化器的三个输入表，文章与校网表可为空
type Dataset struct {
	Records  *models.Table
	Articles *models.Table
	Networks *models.Table
}

// Source 一个待解析的上传文件
type Source struct {
	Filename string
	Reader   io.Reader
}

// Resolve 识别工作簿中各工作表的用途
// 先识别文章表与校网表，学校资料表为其余工作表中第一个含学校名称列的；
// 其余工作表都不含学校名称列时，退回使用校网表或文章表
func (w *Workbook) Resolve() (Dataset, error) {
	var ds Dataset
	var rest []*models.Table
	for _, s := range w.Sheets {
		switch {
		case ds.Articles == nil && isArticleSheet(s):
			ds.Articles = s
		case ds.Networks == nil && isNetworkSheet(s):
			ds.Networks = s
		default:
			rest = append(rest, s)
		}
	}
	for _, s := range rest {
		if s.HasColumn(meta.ColSchoolName) {
			ds.Records = s
			break
		}
	}
	if ds.Records == nil {
		// 没有其他含学校名称列的工作表时，被识别为文章或校网的工作表就是学校资料表
		switch {
		case ds.Networks != nil:
			ds.Records, ds.Networks = ds.Networks, nil
		case ds.Articles != nil:
			ds.Records, ds.Articles = ds.Articles, nil
		default:
			return Dataset{}, fmt.Errorf("%w: %s", models.ErrMissingRequiredColumn, meta.ColSchoolName)
		}
	}
	return ds, nil
}

// LoadDataset 解析主文件与可选的文章、校网文件
// 单独提供的文件优先于主文件中识别出的同类工作表
func LoadDataset(main Source, articles, networks *Source) (Dataset, error) {
	wb, err := Load(main.Filename, main.Reader)
	if err != nil {
		return Dataset{}, err
	}
	ds, err := wb.Resolve()
	if err != nil {
		return Dataset{}, err
	}
	if articles != nil {
		t, err := loadFirstSheet(*articles)
		if err != nil {
			return Dataset{}, fmt.Errorf("文章文件: %w", err)
		}
		ds.Articles = t
	}
	if networks != nil {
		t, err := loadFirstSheet(*networks)
		if err != nil {
			return Dataset{}, fmt.Errorf("校网文件: %w", err)
		}
		ds.Networks = t
	}
	return ds, nil
}

func loadFirstSheet(src Source) (*models.Table, error) {
	wb, err := Load(src.Filename, src.Reader)
	if err != nil {
		return nil, err
	}
	return wb.Sheets[0], nil
}

func isArticleSheet(t *models.Table) bool {
	if !t.HasColumn(meta.ColSchoolName) {
		return false
	}
	_, hasTitle := t.FirstColumn(meta.ArticleTitleAliases...)
	_, hasURL := t.FirstColumn(meta.ArticleURLAliases...)
	return hasTitle && hasURL
}

// isNetworkSheet 只有学校名称、地区、校网三列的工作表
func isNetworkSheet(t *models.Table) bool {
	allowed := map[string]bool{
		models.CanonicalColumn(meta.ColSchoolName): true,
		models.CanonicalColumn(meta.ColDistrict):   true,
		models.CanonicalColumn(meta.ColNetwork):    true,
	}
	if !t.HasColumn(meta.ColSchoolName) || !t.HasColumn(meta.ColNetwork) {
		return false
	}
	for _, h := range t.Headers {
		if !allowed[models.CanonicalColumn(h)] {
			return false
		}
	}
	return true
}
