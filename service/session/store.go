/*
 * @module service/session/store
 * @description 会话与资料集生命周期管理，每个会话持有一个不可变的记录集合
 * @architecture 服务层 - 进程内状态
 * @documentReference DESIGN.md
 * @stateFlow 创建会话(预载资料) -> 上传替换资料集 -> 查询(结果缓存) -> 闲置过期
 * @rules
 *   - 上传成功时整体替换资料集并生成新版本号，失败时会话保持不变
 *   - 会话闲置超过 TTL 后过期，每次访问重新计时
 *   - 查询结果以 (资料集版本, 筛选状态哈希) 为键缓存
 * @dependencies github.com/patrickmn/go-cache, github.com/google/uuid
 * @refs api/controllers/session_controller.go, service/scheduler
 */

package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/monitoring"
	"github.com/kingyeung625/hk-school-selector/service/normalizer"
	"github.com/kingyeung625/hk-school-selector/service/query"
	"github.com/kingyeung625/hk-school-selector/service/tabular"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultSessionTTL = 2 * time.Hour
	DefaultResultTTL  = 10 * time.Minute
)

// Session 一个浏览会话
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	dataset atomic.Pointer[models.Collection]
}

// Dataset 当前资料集，未载入时为 nil
func (s *Session) Dataset() *models.Collection {
	return s.dataset.Load()
}

// Summary 会话概要
type Summary struct {
	ID         string                 `json:"id"`
	CreatedAt  time.Time              `json:"created_at"`
	HasDataset bool                   `json:"has_dataset"`
	Version    string                 `json:"version,omitempty"`
	Source     string                 `json:"source,omitempty"`
	LoadedAt   *time.Time             `json:"loaded_at,omitempty"`
	Records    int                    `json:"records"`
	Columns    int                    `json:"columns"`
	Stats      *models.NormalizeStats `json:"stats,omitempty"`
}

// Summary 生成会话概要
func (s *Session) Summary() Summary {
	sum := Summary{ID: s.ID, CreatedAt: s.CreatedAt}
	coll := s.Dataset()
	if coll == nil {
		return sum
	}
	loadedAt := coll.LoadedAt
	stats := coll.Stats
	sum.HasDataset = true
	sum.Version = coll.Version
	sum.Source = coll.Source
	sum.LoadedAt = &loadedAt
	sum.Records = coll.Len()
	sum.Columns = len(coll.Columns)
	sum.Stats = &stats
	return sum
}

// Options 会话存储选项
type Options struct {
	SessionTTL time.Duration
	ResultTTL  time.Duration
	Normalizer *normalizer.Normalizer
	Evaluator  *query.Evaluator
}

// Store 会话存储
type Store struct {
	sessions   *cache.Cache
	results    *cache.Cache
	normalizer *normalizer.Normalizer
	evaluator  *query.Evaluator
	preload    atomic.Pointer[models.Collection]
}

// NewStore 创建会话存储
func NewStore(opts Options) *Store {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	if opts.Normalizer == nil {
		opts.Normalizer = normalizer.NewNormalizer(normalizer.DefaultOptions())
	}
	if opts.Evaluator == nil {
		opts.Evaluator = query.NewEvaluator(nil)
	}

	s := &Store{
		sessions:   cache.New(opts.SessionTTL, opts.SessionTTL/2),
		results:    cache.New(opts.ResultTTL, opts.ResultTTL),
		normalizer: opts.Normalizer,
		evaluator:  opts.Evaluator,
	}
	s.sessions.OnEvicted(func(id string, _ interface{}) {
		slog.Debug("会话已移除", "session_id", id)
		monitoring.ActiveSessions.Set(float64(s.sessions.ItemCount()))
	})
	return s
}

// Evaluator 查询求值器
func (s *Store) Evaluator() *query.Evaluator {
	return s.evaluator
}

// Create 创建会话，配置了预载资料时直接可用
func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	if coll := s.preload.Load(); coll != nil {
		sess.dataset.Store(coll)
	}
	s.sessions.Set(sess.ID, sess, cache.DefaultExpiration)
	monitoring.ActiveSessions.Set(float64(s.sessions.ItemCount()))
	slog.Info("创建会话", "session_id", sess.ID, "preloaded", sess.Dataset() != nil)
	return sess
}

// Get 获取会话并重新计算闲置时间
func (s *Store) Get(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	sess := v.(*Session)
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete 删除会话
func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}

// Count 未过期的会话数
func (s *Store) Count() int {
	return s.sessions.ItemCount()
}

// Build 规范化并生成带新版本号的资料集
func (s *Store) Build(ds tabular.Dataset) (*models.Collection, error) {
	coll, err := s.normalizer.Normalize(ds.Records, ds.Articles, ds.Networks)
	if err != nil {
		return nil, err
	}
	coll.Version = uuid.NewString()
	return coll, nil
}

// Upload 解析上传文件并替换会话资料集，任何一步失败时会话保持不变
func (s *Store) Upload(id string, main tabular.Source, articles, networks *tabular.Source) (*models.Collection, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	ds, err := tabular.LoadDataset(main, articles, networks)
	if err != nil {
		monitoring.RecordDatasetLoad("upload", 0, err)
		return nil, err
	}
	coll, err := s.Build(ds)
	monitoring.RecordDatasetLoad("upload", coll.Len(), err)
	if err != nil {
		return nil, err
	}
	sess.dataset.Store(coll)
	slog.Info("会话资料已替换",
		"session_id", id,
		"version", coll.Version,
		"records", coll.Len(),
		"skipped_rows", coll.Stats.SkippedRows,
		"missing_columns", len(coll.Stats.MissingColumns))
	return coll, nil
}

// Replace 直接替换会话资料集
func (s *Store) Replace(id string, coll *models.Collection) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.dataset.Store(coll)
	return nil
}

// SetPreload 设置新会话的预载资料集，已有会话不受影响
func (s *Store) SetPreload(coll *models.Collection) {
	s.preload.Store(coll)
}

// Preloaded 当前预载资料集
func (s *Store) Preloaded() *models.Collection {
	return s.preload.Load()
}

// LoadPreloadFile 从文件载入预载资料集
func (s *Store) LoadPreloadFile(path string) (*models.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开预载文件失败: %w", err)
	}
	defer f.Close()

	ds, err := tabular.LoadDataset(tabular.Source{Filename: filepath.Base(path), Reader: f}, nil, nil)
	if err != nil {
		monitoring.RecordDatasetLoad("preload", 0, err)
		return nil, err
	}
	coll, err := s.Build(ds)
	monitoring.RecordDatasetLoad("preload", coll.Len(), err)
	if err != nil {
		return nil, err
	}
	s.SetPreload(coll)
	slog.Info("预载资料集已更新", "path", path, "version", coll.Version, "records", coll.Len())
	return coll, nil
}

// Search 在会话资料集上执行查询
func (s *Store) Search(id string, state models.FilterState) (*models.Collection, query.Result, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, query.Result{}, err
	}
	coll := sess.Dataset()
	if coll == nil {
		return nil, query.Result{}, models.ErrNoDataset
	}
	result, err := s.Evaluate(coll, state)
	return coll, result, err
}

// Evaluate 带缓存的查询求值，分页参数不影响缓存键
func (s *Store) Evaluate(coll *models.Collection, state models.FilterState) (query.Result, error) {
	key := ResultKey(coll.Version, state)
	if v, ok := s.results.Get(key); ok {
		monitoring.QueryCache.WithLabelValues("hit").Inc()
		return v.(query.Result), nil
	}
	monitoring.QueryCache.WithLabelValues("miss").Inc()

	start := time.Now()
	result, err := s.evaluator.Run(coll.Records, state)
	monitoring.ObserveQuery(start)
	if err != nil {
		return query.Result{}, err
	}
	if coll.Version != "" {
		s.results.Set(key, result, cache.DefaultExpiration)
	}
	return result, nil
}
