package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/internal/session"
	"tipjar-core/pkg/cache"
	"tipjar-core/pkg/logger"
	"tipjar-core/pkg/monitor"
	"tipjar-core/pkg/utils/lock"
)

const (
	lockKey = "analytics:refresh"
	lockTTL = 25 * time.Second

	cacheKeyPrefix = "analytics:snapshot:"
	cacheTTL       = 2 * time.Minute
)

// Refresher 周期性重算统计快照。
// 触发时机: 启动、成功打赏 (Trigger)、固定周期定时器。
// 并发的刷新不做协调，后写覆盖先写 (快照整体替换，无部分更新)。
type Refresher struct {
	sessions *session.Manager
	adapter  ledger.Adapter
	cache    cache.Cache          // 可为 nil
	lock     lock.DistributedLock // 可为 nil (单实例)
	window   int
	interval time.Duration

	cron *cron.Cron

	mu       sync.RWMutex
	snapshot model.AnalyticsSnapshot
}

func NewRefresher(sessions *session.Manager, adapter ledger.Adapter, c cache.Cache, l lock.DistributedLock, window int, interval time.Duration) *Refresher {
	return &Refresher{
		sessions: sessions,
		adapter:  adapter,
		cache:    c,
		lock:     l,
		window:   window,
		interval: interval,
		snapshot: model.AnalyticsSnapshot{},
	}
}

// Start 立即刷一次，然后挂周期任务。多实例部署靠分布式锁保证只刷一份。
func (r *Refresher) Start(ctx context.Context) {
	r.Trigger(ctx)

	r.cron = cron.New()
	spec := "@every " + r.interval.String()
	_, err := r.cron.AddFunc(spec, func() {
		if r.lock != nil {
			ok, err := r.lock.Acquire(ctx, lockKey, lockTTL)
			if err != nil || !ok {
				return
			}
			defer r.lock.Release(ctx, lockKey)
		}
		r.Trigger(ctx)
	})
	if err != nil {
		logger.Error("schedule analytics refresh failed", zap.Error(err))
		return
	}
	r.cron.Start()
	logger.Info("analytics refresher started", zap.String("every", r.interval.String()))
}

// Stop 取消周期任务
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Trigger 手动触发一次刷新 (成功打赏后调用)。
// 读失败静默降级: 保留上一次快照，只记日志。
func (r *Refresher) Trigger(ctx context.Context) {
	sess := r.sessions.Session()
	if !sess.Connected() {
		return
	}
	account := sess.AccountID

	start := time.Now()
	records, err := r.adapter.FetchRecentTransfers(ctx, account, r.window)
	if err != nil {
		logger.Warn("analytics window fetch failed", zap.Error(err))
		return
	}

	caseInsensitive := r.adapter.Name() == "evm"
	snapshot := Compute(account, caseInsensitive, records, time.Now().UTC())

	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKeyPrefix+account, snapshot, cacheTTL); err != nil {
			logger.Warn("cache analytics snapshot failed", zap.Error(err))
		}
	}
	if monitor.Business != nil {
		monitor.Business.AnalyticsRefreshTime.WithLabelValues(r.adapter.Name()).Observe(time.Since(start).Seconds())
	}
}

// Snapshot 最近一次成功计算的快照；从未算出过时返回零值快照
func (r *Refresher) Snapshot() model.AnalyticsSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
