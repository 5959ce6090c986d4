package models

import "errors"

var (
	// ErrMissingRequiredColumn 缺少学校名称等必需列
	ErrMissingRequiredColumn = errors.New("缺少必需列")
	// ErrEmptyTable 表格无表头或无数据
	ErrEmptyTable = errors.New("表格为空")
	// ErrUnsupportedFormat 不支持的文件格式
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	// ErrUnknownFacet 未登记的筛选器
	ErrUnknownFacet = errors.New("未知的筛选器")
	// ErrInvalidFacetValue 筛选值无法解析
	ErrInvalidFacetValue = errors.New("筛选值无效")
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("会话不存在或已过期")
	// ErrNoDataset 会话尚未载入资料
	ErrNoDataset = errors.New("尚未上传学校资料")
)
