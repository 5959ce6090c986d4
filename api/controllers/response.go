package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/go-chi/render"
)

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(msg string, data interface{}) APIResponse {
	return APIResponse{Status: 0, Msg: msg, Data: data}
}

// ErrorResponse 错误响应，status 为 HTTP 状态码
func ErrorResponse(status int, msg string, err error) APIResponse {
	resp := APIResponse{Status: status, Msg: msg}
	if err != nil {
		resp.Data = map[string]string{"error": err.Error()}
	}
	return resp
}

// statusOf 业务错误对应的 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoDataset):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrMissingRequiredColumn),
		errors.Is(err, models.ErrEmptyTable),
		errors.Is(err, models.ErrUnknownFacet),
		errors.Is(err, models.ErrInvalidFacetValue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError 按错误类型输出响应
func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error(msg, "path", r.URL.Path, "error", err)
	} else {
		slog.Debug(msg, "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse(status, msg+": "+err.Error(), err))
}

// badRequest 请求参数错误
func badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse(http.StatusBadRequest, msg, err))
}
