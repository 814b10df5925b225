package hedera

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MirrorClient Hedera 镜像节点 REST 只读客户端。
// 镜像节点本身是外部系统，这里只做最薄的取数和解包。
type MirrorClient struct {
	baseURL string
	client  *http.Client
}

func NewMirrorClient(baseURL string) *MirrorClient {
	return &MirrorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// mirrorTransfer 单个账户维度的金额变动 (tinybar, 有符号)
type mirrorTransfer struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// mirrorTransaction 镜像节点返回的一笔交易
type mirrorTransaction struct {
	TransactionID      string           `json:"transaction_id"`
	ConsensusTimestamp string           `json:"consensus_timestamp"` // "sec.nanos"
	Result             string           `json:"result"`
	Name               string           `json:"name"`
	MemoBase64         string           `json:"memo_base64"`
	Transfers          []mirrorTransfer `json:"transfers"`
}

type mirrorTransactionsResponse struct {
	Transactions []mirrorTransaction `json:"transactions"`
}

type mirrorBalancesResponse struct {
	Balances []struct {
		Account string `json:"account"`
		Balance int64  `json:"balance"`
	} `json:"balances"`
}

func (c *MirrorClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror node returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListTransactions 按共识时间倒序拉取账户相关交易
func (c *MirrorClient) ListTransactions(ctx context.Context, accountID string, limit int) ([]mirrorTransaction, error) {
	q := url.Values{}
	q.Set("account.id", accountID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "desc")

	var out mirrorTransactionsResponse
	if err := c.get(ctx, "/api/v1/transactions", q, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// AccountBalance 查询账户余额 (tinybar)
func (c *MirrorClient) AccountBalance(ctx context.Context, accountID string) (int64, error) {
	q := url.Values{}
	q.Set("account.id", accountID)

	var out mirrorBalancesResponse
	if err := c.get(ctx, "/api/v1/balances", q, &out); err != nil {
		return 0, err
	}
	for _, b := range out.Balances {
		if b.Account == accountID {
			return b.Balance, nil
		}
	}
	return 0, nil
}

// parseConsensusTimestamp "1700000000.000000001" -> time.Time
func parseConsensusTimestamp(ts string) (time.Time, error) {
	sec, nano := ts, "0"
	if i := strings.IndexByte(ts, '.'); i >= 0 {
		sec, nano = ts[:i], ts[i+1:]
	}
	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	n, err := strconv.ParseInt(nano, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(s, n).UTC(), nil
}

func decodeMemo(memoBase64 string) string {
	if memoBase64 == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(memoBase64)
	if err != nil {
		return ""
	}
	return string(raw)
}
