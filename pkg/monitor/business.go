package monitor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	WalletConnectTotal    *prometheus.CounterVec
	WalletConnectFailed   *prometheus.CounterVec
	TipSubmittedTotal     *prometheus.CounterVec
	TipRejectedTotal      *prometheus.CounterVec
	TipAmountTotal        *prometheus.CounterVec
	AnalyticsRefreshTime  *prometheus.HistogramVec
	TipLinkGeneratedTotal prometheus.Counter
}

// Global Metrics Instance
var Business *BusinessMetrics

var businessOnce sync.Once

// InitBusinessMetrics 初始化业务指标，可重复调用
func InitBusinessMetrics() {
	businessOnce.Do(initBusinessMetrics)
}

func initBusinessMetrics() {
	Business = &BusinessMetrics{
		WalletConnectTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_wallet_connect_total",
			Help: "The total number of successful wallet connections",
		}, []string{"kind"}),
		WalletConnectFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_wallet_connect_failed_total",
			Help: "The total number of failed wallet connection attempts",
		}, []string{"kind"}),
		TipSubmittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_tip_submitted_total",
			Help: "The total number of submitted tips",
		}, []string{"ledger", "asset"}),
		TipRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_tip_rejected_total",
			Help: "The total number of tips rejected before or during submission",
		}, []string{"ledger", "reason"}),
		TipAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tipjar_tip_amount_total",
			Help: "The total display-unit value of submitted tips",
		}, []string{"ledger", "asset"}),
		AnalyticsRefreshTime: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tipjar_analytics_refresh_duration_seconds",
			Help:    "Duration of analytics window refreshes",
			Buckets: prometheus.DefBuckets,
		}, []string{"ledger"}),
		TipLinkGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tipjar_tip_link_generated_total",
			Help: "The total number of generated tip links",
		}),
	}
}
