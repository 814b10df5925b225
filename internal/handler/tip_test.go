package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/internal/session"
	"tipjar-core/internal/tip"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/hbar"
	"tipjar-core/pkg/validator"
)

type stubAdapter struct {
	submitCalls int
}

func (s *stubAdapter) Name() string                      { return "hedera" }
func (s *stubAdapter) NativeSymbol() string              { return "HBAR" }
func (s *stubAdapter) ValidateAddress(addr string) bool  { return hbar.IsValidAccountID(addr) }
func (s *stubAdapter) MaxTipAmount() decimal.Decimal     { return decimal.NewFromInt(100) }
func (s *stubAdapter) ExplorerURL(id string) string      { return "https://hashscan.io/testnet/transaction/" + id }
func (s *stubAdapter) FetchBalance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubAdapter) FetchRecentTransfers(context.Context, string, int) ([]model.TransferRecord, error) {
	return nil, nil
}

func (s *stubAdapter) SubmitTransfer(ctx context.Context, t ledger.Transfer) model.TransferReceipt {
	s.submitCalls++
	return model.TransferReceipt{Success: true, TransferID: "0.0.100@1.2"}
}

type stubConnector struct{}

func (stubConnector) Kind() session.WalletKind                   { return "hedera-pairing" }
func (stubConnector) Native() bool                               { return true }
func (stubConnector) Available(ctx context.Context) bool         { return true }
func (stubConnector) Disconnect(ctx context.Context) error       { return nil }
func (stubConnector) Resume(ctx context.Context) (*session.Account, error) { return nil, nil }
func (stubConnector) Connect(ctx context.Context, onPairing func(string)) (*session.Account, error) {
	return &session.Account{ID: "0.0.100"}, nil
}

func newTipRouter(t *testing.T, adapter *stubAdapter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Init()

	m := session.NewManager(stubConnector{})
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	flow := tip.NewFlow(m, adapter, nil, nil)
	r := gin.New()
	r.POST("/api/v1/tips", NewTipHandler(flow).Submit)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitTipEndpoint(t *testing.T) {
	adapter := &stubAdapter{}
	r := newTipRouter(t, adapter)

	w := postJSON(r, "/api/v1/tips", `{"recipient":"0.0.200","amount":"5","memo":"thanks"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errno.OK.Code, resp.Code)
	assert.Equal(t, 1, adapter.submitCalls)
}

func TestSubmitTipMemoBoundAtInputLayer(t *testing.T) {
	adapter := &stubAdapter{}
	r := newTipRouter(t, adapter)

	longMemo := strings.Repeat("a", tip.MaxMemoLength+1)
	w := postJSON(r, "/api/v1/tips", `{"recipient":"0.0.200","amount":"5","memo":"`+longMemo+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// 超长 memo 在绑定层被拦下，流程层一次都不会被调用
	assert.Equal(t, errno.ErrBind.Code, resp.Code)
	assert.Equal(t, 0, adapter.submitCalls)
}

func TestSubmitTipValidationErrorCode(t *testing.T) {
	adapter := &stubAdapter{}
	r := newTipRouter(t, adapter)

	w := postJSON(r, "/api/v1/tips", `{"recipient":"0.0.200","amount":"150"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errno.ErrAmountTooLarge.Code, resp.Code)
	assert.Equal(t, 0, adapter.submitCalls)
}
