package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/internal/session"
	"tipjar-core/pkg/cache"
)

func rec(recipient, sender, symbol, amount string, age time.Duration, success bool, now time.Time) model.TransferRecord {
	return model.TransferRecord{
		Recipient: recipient,
		Sender:    sender,
		Symbol:    symbol,
		Amount:    decimal.RequireFromString(amount),
		Timestamp: now.Add(-age),
		Success:   success,
	}
}

func TestComputeBasics(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []model.TransferRecord{
		rec("0.0.100", "0.0.200", "HBAR", "5", time.Hour, true, now),
		rec("0.0.100", "0.0.300", "HBAR", "2.5", 2*time.Hour, true, now),
		rec("0.0.100", "0.0.200", "HBAR", "1", 48*time.Hour, true, now),
		// 失败的不计
		rec("0.0.100", "0.0.400", "HBAR", "9", time.Hour, false, now),
		// 打给别人的不计
		rec("0.0.999", "0.0.200", "HBAR", "7", time.Hour, true, now),
	}

	got := Compute("0.0.100", false, records, now)
	assert.Equal(t, 3, got.TotalTips)
	assert.True(t, got.TotalValue["HBAR"].Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, 2, got.UniqueTippers)
	assert.Equal(t, 2, got.RecentTips, "only transfers inside the trailing 24h count")
}

func TestComputeRecentWindowBoundary(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []model.TransferRecord{
		rec("0.0.100", "0.0.200", "HBAR", "1", time.Hour, true, now),
		rec("0.0.100", "0.0.300", "HBAR", "1", 30*time.Hour, true, now),
	}

	got := Compute("0.0.100", false, records, now)
	assert.Equal(t, 2, got.TotalTips)
	assert.Equal(t, 1, got.RecentTips)
}

func TestComputeNeverSumsAcrossAssets(t *testing.T) {
	now := time.Now().UTC()
	addr := "0xA1b2C3d4E5f6A1b2C3d4E5f6A1b2C3d4E5f6A1b2"
	records := []model.TransferRecord{
		rec(addr, "0xF1", "ETH", "1.5", time.Hour, true, now),
		rec(addr, "0xF2", "USDC", "25", time.Hour, true, now),
	}

	got := Compute(addr, true, records, now)
	assert.Equal(t, 2, got.TotalTips)
	assert.True(t, got.TotalValue["ETH"].Equal(decimal.RequireFromString("1.5")))
	assert.True(t, got.TotalValue["USDC"].Equal(decimal.NewFromInt(25)))
	assert.Len(t, got.TotalValue, 2)
}

func TestComputeCaseInsensitiveTippers(t *testing.T) {
	now := time.Now().UTC()
	records := []model.TransferRecord{
		rec("0xAAAA000000000000000000000000000000000001", "0xBBBB000000000000000000000000000000000002", "ETH", "1", time.Hour, true, now),
		rec("0xaaaa000000000000000000000000000000000001", "0xbbbb000000000000000000000000000000000002", "ETH", "1", time.Hour, true, now),
	}

	got := Compute("0xAaAa000000000000000000000000000000000001", true, records, now)
	assert.Equal(t, 2, got.TotalTips, "recipient match must ignore hex casing")
	assert.Equal(t, 1, got.UniqueTippers, "same tipper in different casing counts once")
}

func TestComputeEmptyWindow(t *testing.T) {
	got := Compute("0.0.100", false, nil, time.Now().UTC())
	assert.Zero(t, got.TotalTips)
	assert.Zero(t, got.UniqueTippers)
	assert.Zero(t, got.RecentTips)
	assert.Empty(t, got.TotalValue)
}

// windowAdapter 返回固定窗口的网关替身
type windowAdapter struct {
	records []model.TransferRecord
	err     error
	calls   int
}

func (w *windowAdapter) Name() string                     { return "hedera" }
func (w *windowAdapter) NativeSymbol() string             { return "HBAR" }
func (w *windowAdapter) ValidateAddress(string) bool      { return true }
func (w *windowAdapter) MaxTipAmount() decimal.Decimal    { return decimal.Zero }
func (w *windowAdapter) ExplorerURL(id string) string     { return id }
func (w *windowAdapter) FetchBalance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (w *windowAdapter) FetchRecentTransfers(ctx context.Context, account string, limit int) ([]model.TransferRecord, error) {
	w.calls++
	return w.records, w.err
}

func (w *windowAdapter) SubmitTransfer(ctx context.Context, t ledger.Transfer) model.TransferReceipt {
	return model.TransferReceipt{}
}

type autoConnector struct{ id string }

func (a *autoConnector) Kind() session.WalletKind             { return "hedera-pairing" }
func (a *autoConnector) Native() bool                         { return true }
func (a *autoConnector) Available(ctx context.Context) bool   { return true }
func (a *autoConnector) Disconnect(ctx context.Context) error { return nil }
func (a *autoConnector) Resume(ctx context.Context) (*session.Account, error) { return nil, nil }
func (a *autoConnector) Connect(ctx context.Context, onPairing func(string)) (*session.Account, error) {
	return &session.Account{ID: a.id}, nil
}

func TestRefresherTrigger(t *testing.T) {
	now := time.Now().UTC()
	adapter := &windowAdapter{records: []model.TransferRecord{
		rec("0.0.100", "0.0.200", "HBAR", "3", time.Hour, true, now),
	}}
	m := session.NewManager(&autoConnector{id: "0.0.100"})
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	r := NewRefresher(m, adapter, nil, nil, 100, 30*time.Second)
	r.Trigger(context.Background())

	got := r.Snapshot()
	assert.Equal(t, 1, got.TotalTips)
	assert.True(t, got.TotalValue["HBAR"].Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 1, adapter.calls)
}

func TestRefresherWritesSnapshotToCache(t *testing.T) {
	now := time.Now().UTC()
	adapter := &windowAdapter{records: []model.TransferRecord{
		rec("0.0.100", "0.0.200", "HBAR", "3", time.Hour, true, now),
	}}
	m := session.NewManager(&autoConnector{id: "0.0.100"})
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	r := NewRefresher(m, adapter, c, nil, 100, 30*time.Second)
	r.Trigger(context.Background())

	var cached model.AnalyticsSnapshot
	require.NoError(t, c.Get(context.Background(), cacheKeyPrefix+"0.0.100", &cached))
	assert.Equal(t, 1, cached.TotalTips)
}

func TestRefresherSkipsWhenDisconnected(t *testing.T) {
	adapter := &windowAdapter{}
	r := NewRefresher(session.NewManager(), adapter, nil, nil, 100, 30*time.Second)
	r.Trigger(context.Background())

	assert.Equal(t, 0, adapter.calls, "no fetch without a connected session")
	assert.Zero(t, r.Snapshot().TotalTips)
}

func TestRefresherDegradesSilentlyOnFetchError(t *testing.T) {
	now := time.Now().UTC()
	adapter := &windowAdapter{records: []model.TransferRecord{
		rec("0.0.100", "0.0.200", "HBAR", "3", time.Hour, true, now),
	}}
	m := session.NewManager(&autoConnector{id: "0.0.100"})
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	r := NewRefresher(m, adapter, nil, nil, 100, 30*time.Second)
	r.Trigger(context.Background())
	require.Equal(t, 1, r.Snapshot().TotalTips)

	// 后续拉取失败时保留上一次快照
	adapter.err = assert.AnError
	r.Trigger(context.Background())
	assert.Equal(t, 1, r.Snapshot().TotalTips)
}
