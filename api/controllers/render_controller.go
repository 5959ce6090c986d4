package controllers

import (
	"net/http"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/highlight"
	"github.com/kingyeung625/hk-school-selector/service/thumbnail"

	"github.com/go-chi/render"
)

// RenderController 文本分段与关键字标注
type RenderController struct{}

// NewRenderController 创建控制器
func NewRenderController() *RenderController {
	return &RenderController{}
}

// RenderRequest 标注请求
type RenderRequest struct {
	Text     string   `json:"text" example:"(1) 推動STEM教育 (2) 培養閱讀習慣"`
	Keywords []string `json:"keywords" example:"閱讀"`
}

// RenderResult 标注结果
type RenderResult struct {
	HTML     string              `json:"html"`
	Segments []highlight.Segment `json:"segments"`
	Keywords []string            `json:"keywords"`
	Matches  int                 `json:"matches"`
}

// Render 分段并标注文本
// @Summary 文本分段与标注
// @Description 按项目编号分段，并以黄色背景标注关键字
// @Tags 工具
// @Accept json
// @Produce json
// @Param request body RenderRequest true "标注请求"
// @Success 200 {object} APIResponse{data=RenderResult}
// @Failure 400 {object} APIResponse
// @Router /render [post]
func (c *RenderController) Render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "请求参数格式错误", err)
		return
	}

	h := highlight.NewHighlighter(req.Keywords)
	segments := highlight.Split(req.Text)
	if segments == nil {
		segments = []highlight.Segment{}
	}
	render.JSON(w, r, SuccessResponse("处理成功", RenderResult{
		HTML:     h.RenderHTML(req.Text),
		Segments: segments,
		Keywords: h.Keywords(),
		Matches:  h.Count(req.Text),
	}))
}

// ThumbnailController 文章缩略图
type ThumbnailController struct {
	fetcher *thumbnail.Fetcher
}

// NewThumbnailController 创建控制器
func NewThumbnailController(fetcher *thumbnail.Fetcher) *ThumbnailController {
	return &ThumbnailController{fetcher: fetcher}
}

// ThumbnailResult 缩略图结果，找不到时 image_url 为空
type ThumbnailResult struct {
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// GetThumbnail 查询文章缩略图
// @Summary 文章缩略图
// @Description 读取文章页面的 og:image，失败时返回空链接而不是错误
// @Tags 工具
// @Produce json
// @Param url query string true "文章链接"
// @Success 200 {object} APIResponse{data=ThumbnailResult}
// @Failure 400 {object} APIResponse
// @Router /thumbnails [get]
func (c *ThumbnailController) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	u := strings.TrimSpace(r.URL.Query().Get("url"))
	if u == "" {
		badRequest(w, r, "缺少url参数", nil)
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", ThumbnailResult{URL: u, ImageURL: c.fetcher.Fetch(r.Context(), u)}))
}
