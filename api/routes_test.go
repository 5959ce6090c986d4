package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, Dependencies{
		Store:    session.NewStore(session.Options{}),
		Registry: facet.DefaultRegistry(),
	})

	testCases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "健康检查", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "就绪检查", method: http.MethodGet, path: "/ready", status: http.StatusOK},
		{name: "创建会话", method: http.MethodPost, path: "/sessions", status: http.StatusCreated},
		{name: "会话不存在", method: http.MethodGet, path: "/sessions/missing", status: http.StatusNotFound},
		{name: "未配置缩略图抓取", method: http.MethodGet, path: "/thumbnails?url=https://example.com", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}
