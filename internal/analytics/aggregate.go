package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tipjar-core/internal/model"
)

// recentWindow "最近打赏" 的时间窗口
const recentWindow = 24 * time.Hour

// Compute 对一个新拉取的交易窗口整体重算统计，纯函数。
// 只统计成功的、打给 account 的正额转账；
// 不同资产的金额分别累计，绝不跨资产相加。
// caseInsensitive 对应地址大小写不敏感的账本 (EVM hex 地址)。
func Compute(account string, caseInsensitive bool, records []model.TransferRecord, now time.Time) model.AnalyticsSnapshot {
	norm := func(s string) string {
		if caseInsensitive {
			return strings.ToLower(s)
		}
		return s
	}

	me := norm(account)
	cutoff := now.Add(-recentWindow)

	snapshot := model.AnalyticsSnapshot{
		TotalValue: make(map[string]decimal.Decimal),
		ComputedAt: now,
	}
	tippers := make(map[string]struct{})

	for _, rec := range records {
		if !rec.Success || norm(rec.Recipient) != me || !rec.Amount.IsPositive() {
			continue
		}

		snapshot.TotalTips++
		snapshot.TotalValue[rec.Symbol] = snapshot.TotalValue[rec.Symbol].Add(rec.Amount)
		tippers[norm(rec.Sender)] = struct{}{}
		if rec.Timestamp.After(cutoff) {
			snapshot.RecentTips++
		}
	}

	snapshot.UniqueTippers = len(tippers)
	return snapshot
}
