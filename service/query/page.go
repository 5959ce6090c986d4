package query

import "github.com/kingyeung625/hk-school-selector/service/models"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page 结果分页
type Page struct {
	Records    []*models.SchoolRecord `json:"-"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"total_pages"`
}

// Paginate 按页切分，页码从 1 开始，超出范围返回空页
func Paginate(records []*models.SchoolRecord, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(records)
	p := Page{
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
		Records:    []*models.SchoolRecord{},
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := start + size
	if end > total {
		end = total
	}
	p.Records = records[start:end]
	return p
}
