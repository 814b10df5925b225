package hedera

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
)

const mirrorTransactionsBody = `{
  "transactions": [
    {
      "transaction_id": "0.0.100-1700000100-000000001",
      "consensus_timestamp": "1700000100.000000001",
      "result": "SUCCESS",
      "name": "CRYPTOTRANSFER",
      "memo_base64": "dGhhbmtzIQ==",
      "transfers": [
        {"account": "0.0.3", "amount": 80000},
        {"account": "0.0.98", "amount": 120000},
        {"account": "0.0.100", "amount": -550200000},
        {"account": "0.0.200", "amount": 550000000}
      ]
    },
    {
      "transaction_id": "0.0.100-1700000050-000000002",
      "consensus_timestamp": "1700000050.000000002",
      "result": "INSUFFICIENT_PAYER_BALANCE",
      "name": "CRYPTOTRANSFER",
      "memo_base64": "",
      "transfers": [
        {"account": "0.0.100", "amount": -100},
        {"account": "0.0.3", "amount": 100}
      ]
    }
  ]
}`

func newMirrorServer(t *testing.T, handler http.HandlerFunc) *MirrorClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMirrorClient(srv.URL)
}

func TestFetchRecentTransfersProjection(t *testing.T) {
	mirror := newMirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transactions", r.URL.Path)
		assert.Equal(t, "0.0.200", r.URL.Query().Get("account.id"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		w.Write([]byte(mirrorTransactionsBody))
	})
	a := NewAdapter(mirror, nil, "https://hashscan.io/testnet")

	records, err := a.FetchRecentTransfers(context.Background(), "0.0.200", 25)
	require.NoError(t, err)
	// 失败的那笔被过滤掉
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "0.0.100", rec.Sender, "sender is the largest debit")
	assert.Equal(t, "0.0.200", rec.Recipient, "fee accounts must not win over the payee")
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("5.5")))
	assert.Equal(t, model.AssetNative, rec.Asset)
	assert.Equal(t, "HBAR", rec.Symbol)
	assert.Equal(t, "thanks!", rec.Memo)
	assert.Equal(t, time.Unix(1700000100, 1).UTC(), rec.Timestamp)
}

func TestFetchRecentTransfersHardError(t *testing.T) {
	mirror := newMirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	a := NewAdapter(mirror, nil, "")

	records, err := a.FetchRecentTransfers(context.Background(), "0.0.200", 25)
	assert.Error(t, err)
	assert.Empty(t, records)
}

func TestFetchBalance(t *testing.T) {
	mirror := newMirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/balances", r.URL.Path)
		w.Write([]byte(`{"balances":[{"account":"0.0.200","balance":123456789}]}`))
	})
	a := NewAdapter(mirror, nil, "")

	bal, err := a.FetchBalance(context.Background(), "0.0.200")
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("1.23456789")))
}

func TestFetchBalanceSoftFailsToZero(t *testing.T) {
	mirror := newMirrorServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	a := NewAdapter(mirror, nil, "")

	bal, err := a.FetchBalance(context.Background(), "0.0.200")
	assert.Error(t, err)
	assert.True(t, bal.IsZero())
}

type fakeSubmitter struct {
	txID     string
	err      error
	lastTiny int64
	lastMemo string
}

func (f *fakeSubmitter) SubmitTransfer(ctx context.Context, from, to string, tinybars int64, memo string) (string, error) {
	f.lastTiny = tinybars
	f.lastMemo = memo
	return f.txID, f.err
}

func TestSubmitTransfer(t *testing.T) {
	sub := &fakeSubmitter{txID: "0.0.100@1700000000.123"}
	a := NewAdapter(nil, sub, "https://hashscan.io/testnet")

	receipt := a.SubmitTransfer(context.Background(), ledger.Transfer{
		Sender:    "0.0.100",
		Recipient: "0.0.200",
		Amount:    decimal.RequireFromString("1.000000015"),
		Asset:     model.AssetNative,
		Memo:      "coffee",
	})
	assert.True(t, receipt.Success)
	assert.Equal(t, "0.0.100@1700000000.123", receipt.TransferID)
	// 展示单位到 tinybar 向下取整
	assert.Equal(t, int64(100000001), sub.lastTiny)
	assert.Equal(t, "coffee", sub.lastMemo)
}

func TestSubmitTransferRejectionFoldedIntoReceipt(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("User rejected transaction or signing failed")}
	a := NewAdapter(nil, sub, "")

	receipt := a.SubmitTransfer(context.Background(), ledger.Transfer{
		Sender: "0.0.100", Recipient: "0.0.200", Amount: decimal.NewFromInt(1),
	})
	assert.False(t, receipt.Success)
	assert.Equal(t, "User rejected transaction or signing failed", receipt.ErrorMessage)
}

func TestMaxTipAmountCeiling(t *testing.T) {
	a := NewAdapter(nil, nil, "")
	assert.True(t, a.MaxTipAmount().Equal(decimal.NewFromInt(100)))
}

func TestExplorerURL(t *testing.T) {
	a := NewAdapter(nil, nil, "https://hashscan.io/testnet/")
	assert.Equal(t,
		"https://hashscan.io/testnet/transaction/0.0.1-2-3",
		a.ExplorerURL("0.0.1-2-3"))
}
