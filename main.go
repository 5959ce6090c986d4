package main

import (
	"log"
	"net/http"

	"github.com/kingyeung625/hk-school-selector/api"
	_ "github.com/kingyeung625/hk-school-selector/docs"
	"github.com/kingyeung625/hk-school-selector/service"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title 香港小學選校服務 API
// @version 1.0
// @description 上传学校资料、按条件筛选并导出结果的选校服务
// @BasePath /
func main() {
	cfg := service.GlobalConfig
	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if cfg.BaseContext != "" {
		mux.Route(cfg.BaseContext, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	defer service.Shutdown()

	s := daprd.NewServiceWithMux(":"+cfg.ListenPort, mux)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}
}
