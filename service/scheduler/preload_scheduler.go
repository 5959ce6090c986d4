/*
 * @module service/scheduler/preload_scheduler
 * @description 预载资料集的定时重载，文件更新后新建的会话自动使用新资料
 * @architecture 运维支撑层 - 定时任务
 * @documentReference DESIGN.md
 * @stateFlow cron 触发 -> 读取预载文件 -> 规范化 -> 替换预载资料集
 * @rules
 *   - 重载失败保留上一次成功载入的资料集
 *   - 上一次重载未结束时跳过本次触发
 *   - cron 表达式支持可选的秒字段
 * @dependencies github.com/robfig/cron/v3
 * @refs service/session/store.go, service/init.go
 */

package scheduler

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/robfig/cron/v3"
)

// Reloader 可从文件重载预载资料集的对象
type Reloader interface {
	LoadPreloadFile(path string) (*models.Collection, error)
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// PreloadScheduler 预载资料集重载调度器
type PreloadScheduler struct {
	reloader Reloader
	path     string
	spec     string

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

// NewPreloadScheduler 创建调度器
func NewPreloadScheduler(reloader Reloader, path, spec string) *PreloadScheduler {
	return &PreloadScheduler{reloader: reloader, path: path, spec: spec}
}

// ValidateSpec 校验 cron 表达式
func ValidateSpec(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("无效的cron表达式 %q: %w", spec, err)
	}
	return nil
}

// Start 启动定时重载，未配置路径或表达式时不启动
func (s *PreloadScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("调度器已经启动")
	}
	if s.path == "" || s.spec == "" {
		slog.Info("未配置预载资料重载，跳过调度器启动")
		return nil
	}
	if err := ValidateSpec(s.spec); err != nil {
		return err
	}

	s.cron = cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("添加重载任务失败: %w", err)
	}
	s.cron.Start()
	s.started = true
	slog.Info("预载资料重载调度器已启动", "path", s.path, "spec", s.spec)
	return nil
}

// RunOnce 立即执行一次重载
func (s *PreloadScheduler) RunOnce() error {
	coll, err := s.reloader.LoadPreloadFile(s.path)
	if err != nil {
		slog.Error("重载预载资料失败", "path", s.path, "error", err)
		return err
	}
	slog.Info("重载预载资料完成", "path", s.path, "records", coll.Len())
	return nil
}

// Stop 停止调度器并等待正在执行的任务结束
func (s *PreloadScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
	slog.Info("预载资料重载调度器已停止")
}

// Running 是否已启动
func (s *PreloadScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
