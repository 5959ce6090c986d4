/*
 * @module api/controllers/session_controller
 * @description 会话控制器，提供会话创建、资料上传、筛选器目录、查询与导出接口
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow 创建会话 -> 上传资料 -> 获取筛选器 -> 查询/导出
 * @rules
 *   - 未选择任何筛选条件时查询返回空结果并提示
 *   - 缩略图抓取失败不影响查询结果
 *   - 上传失败时会话资料保持不变
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/session, service/card, service/thumbnail
 */

package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/card"
	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/query"
	"github.com/kingyeung625/hk-school-selector/service/session"
	"github.com/kingyeung625/hk-school-selector/service/tabular"
	"github.com/kingyeung625/hk-school-selector/service/thumbnail"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

const (
	defaultUploadMaxBytes = 32 << 20
	thumbnailBudget       = 8 * time.Second
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SessionController 会话控制器
type SessionController struct {
	store          *session.Store
	registry       *facet.Registry
	fetcher        *thumbnail.Fetcher
	uploadMaxBytes int64
}

// NewSessionController 创建会话控制器，fetcher 为 nil 时不抓取缩略图
func NewSessionController(store *session.Store, registry *facet.Registry, fetcher *thumbnail.Fetcher, uploadMaxBytes int64) *SessionController {
	if registry == nil {
		registry = store.Evaluator().Registry()
	}
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = defaultUploadMaxBytes
	}
	return &SessionController{
		store:          store,
		registry:       registry,
		fetcher:        fetcher,
		uploadMaxBytes: uploadMaxBytes,
	}
}

// SearchResponse 查询响应
type SearchResponse struct {
	FilterApplied bool        `json:"filter_applied"`
	Keywords      []string    `json:"keywords"`
	ActiveFacets  []string    `json:"active_facets,omitempty"`
	Page          query.Page  `json:"page"`
	Cards         []card.Card `json:"cards"`
}

// CreateSession 创建会话
// @Summary 创建会话
// @Description 创建新的浏览会话，配置了预载资料时会话直接可用
// @Tags 会话
// @Produce json
// @Success 201 {object} APIResponse{data=session.Summary}
// @Router /sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := c.store.Create()
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SuccessResponse("创建成功", sess.Summary()))
}

// GetSession 查询会话概要
// @Summary 查询会话
// @Description 返回会话资料集的版本、记录数与规范化统计
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=session.Summary}
// @Failure 404 {object} APIResponse
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := c.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "查询会话失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", sess.Summary()))
}

// DeleteSession 删除会话
// @Summary 删除会话
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse
// @Router /sessions/{id} [delete]
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	c.store.Delete(chi.URLParam(r, "id"))
	render.JSON(w, r, SuccessResponse("删除成功", nil))
}

// Upload 上传学校资料
// @Summary 上传学校资料
// @Description 上传 CSV 或 XLSX 文件替换会话资料集，可另附文章与校网文件
// @Tags 会话
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "会话ID"
// @Param file formData file true "学校资料文件"
// @Param articles formData file false "文章文件"
// @Param networks formData file false "校网文件"
// @Success 200 {object} APIResponse{data=session.Summary}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 415 {object} APIResponse
// @Router /sessions/{id}/upload [post]
func (c *SessionController) Upload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := c.store.Get(id)
	if err != nil {
		writeError(w, r, "上传失败", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.uploadMaxBytes)
	if err := r.ParseMultipartForm(c.uploadMaxBytes); err != nil {
		badRequest(w, r, "上传文件解析失败", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	main, closeMain, err := formSource(r, "file")
	if err != nil {
		badRequest(w, r, "缺少学校资料文件", err)
		return
	}
	defer closeMain()

	articles, closeArticles, err := optionalSource(r, "articles")
	if err != nil {
		badRequest(w, r, "文章文件读取失败", err)
		return
	}
	defer closeArticles()

	networks, closeNetworks, err := optionalSource(r, "networks")
	if err != nil {
		badRequest(w, r, "校网文件读取失败", err)
		return
	}
	defer closeNetworks()

	if _, err := c.store.Upload(id, *main, articles, networks); err != nil {
		writeError(w, r, "载入学校资料失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("上传成功", sess.Summary()))
}

// Facets 筛选器目录
// @Summary 筛选器目录
// @Description 返回全部筛选器及其选项，校网选项随 district 参数联动
// @Tags 查询
// @Produce json
// @Param id path string true "会话ID"
// @Param district query []string false "已选地区" collectionFormat(multi)
// @Success 200 {object} APIResponse{data=[]facet.View}
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/facets [get]
func (c *SessionController) Facets(w http.ResponseWriter, r *http.Request) {
	sess, err := c.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "获取筛选器失败", err)
		return
	}
	var records []*models.SchoolRecord
	if coll := sess.Dataset(); coll != nil {
		records = coll.Records
	}

	var state models.FilterState
	if districts := r.URL.Query()[facet.KeyDistrict]; len(districts) > 0 {
		state.Selections = append(state.Selections, models.Selection{Facet: facet.KeyDistrict, Values: districts})
	}
	render.JSON(w, r, SuccessResponse("查询成功", c.registry.Catalogue(records, state)))
}

// Search 查询学校
// @Summary 查询学校
// @Description 按筛选状态查询，返回分页的学校卡片与需标注的关键字
// @Tags 查询
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param thumbnails query bool false "是否抓取文章缩略图，默认 true"
// @Param request body models.FilterState true "筛选状态"
// @Success 200 {object} APIResponse{data=SearchResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /sessions/{id}/search [post]
func (c *SessionController) Search(w http.ResponseWriter, r *http.Request) {
	var state models.FilterState
	if err := render.DecodeJSON(r.Body, &state); err != nil {
		badRequest(w, r, "请求参数格式错误", err)
		return
	}

	_, result, err := c.store.Search(chi.URLParam(r, "id"), state)
	if err != nil {
		writeError(w, r, "查询失败", err)
		return
	}

	page := query.Paginate(result.Records, state.Page, state.PageSize)
	cards := card.BuildAll(page.Records, result.Keywords)
	if c.fetcher != nil && cast.ToBool(queryDefault(r, "thumbnails", "true")) {
		ctx, cancel := context.WithTimeout(r.Context(), thumbnailBudget)
		card.AttachThumbnails(cards, c.fetcher.FetchAll(ctx, card.ArticleURLs(cards)))
		cancel()
	}

	msg := "查询成功"
	if !result.FilterApplied {
		msg = "请至少选择一个筛选条件"
	}
	render.JSON(w, r, SuccessResponse(msg, SearchResponse{
		FilterApplied: result.FilterApplied,
		Keywords:      result.Keywords,
		ActiveFacets:  result.ActiveFacets,
		Page:          page,
		Cards:         cards,
	}))
}

// Export 导出查询结果
// @Summary 导出查询结果
// @Description 按筛选状态导出 Excel，未选择筛选条件时导出全部资料
// @Tags 查询
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "会话ID"
// @Param request body models.FilterState true "筛选状态"
// @Success 200 {file} file
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /sessions/{id}/export [post]
func (c *SessionController) Export(w http.ResponseWriter, r *http.Request) {
	var state models.FilterState
	if err := render.DecodeJSON(r.Body, &state); err != nil {
		badRequest(w, r, "请求参数格式错误", err)
		return
	}

	coll, result, err := c.store.Search(chi.URLParam(r, "id"), state)
	if err != nil {
		writeError(w, r, "导出失败", err)
		return
	}
	var records []*models.SchoolRecord
	if result.FilterApplied {
		records = result.Records
	}

	data, err := tabular.ExportCollection(coll, records)
	if err != nil {
		writeError(w, r, "生成Excel失败", err)
		return
	}

	filename := fmt.Sprintf("schools-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", cast.ToString(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// formSource 读取必填的上传文件
func formSource(r *http.Request, field string) (*tabular.Source, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, func() {}, err
	}
	return sourceOf(file, header), func() { file.Close() }, nil
}

// optionalSource 读取可选的上传文件，未提供时返回 nil
func optionalSource(r *http.Request, field string) (*tabular.Source, func(), error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, func() {}, nil
	}
	return formSource(r, field)
}

func sourceOf(file multipart.File, header *multipart.FileHeader) *tabular.Source {
	return &tabular.Source{Filename: header.Filename, Reader: file}
}

func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}
