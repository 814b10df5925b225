package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind 资产类型: 原生币或稳定币
type AssetKind string

const (
	AssetNative AssetKind = "native"
	AssetStable AssetKind = "stable"
)

// TransferRecord 一笔历史转账的只读投影，完全来自外部索引 API。
// 每次刷新整体重新拉取，不做增量合并。
type TransferRecord struct {
	TransferID string          `json:"transfer_id"` // Hedera: 0.0.x@sec.nano / EVM: tx hash
	Timestamp  time.Time       `json:"timestamp"`
	Sender     string          `json:"sender"`
	Recipient  string          `json:"recipient"`
	Amount     decimal.Decimal `json:"amount"` // 展示单位，恒为正
	Asset      AssetKind       `json:"asset"`
	Symbol     string          `json:"symbol"` // HBAR / ETH / USDC
	Success    bool            `json:"success"`
	Memo       string          `json:"memo,omitempty"`
}

// TransferReceipt 提交转账的结果。
// 签名被拒和网络失败都走 Success=false + ErrorMessage，绝不向上抛异常。
type TransferReceipt struct {
	Success      bool   `json:"success"`
	TransferID   string `json:"transfer_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// AnalyticsSnapshot 从一个交易窗口整体重算出来的统计快照
type AnalyticsSnapshot struct {
	TotalTips int `json:"total_tips"`
	// TotalValue 按资产符号分别累计，不同资产的金额绝不相加
	TotalValue    map[string]decimal.Decimal `json:"total_value"`
	UniqueTippers int                        `json:"unique_tippers"`
	RecentTips    int                        `json:"recent_tips"` // 最近 24 小时
	ComputedAt    time.Time                  `json:"computed_at"`
}
