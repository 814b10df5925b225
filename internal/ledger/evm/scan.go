package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ScanClient 区块浏览器 (BaseScan 形状) 账户 API 客户端。
// status != "1" 且 message == "No transactions found" 是空结果，不是错误。
type ScanClient struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewScanClient(apiURL, apiKey string) *ScanClient {
	return &ScanClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// ScanTx 浏览器 API 返回的一条交易 (txlist 与 tokentx 共用一个形状)
type ScanTx struct {
	Hash            string `json:"hash"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"` // unix 秒
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"` // 最小单位十进制字符串
	ContractAddress string `json:"contractAddress,omitempty"`
	TokenName       string `json:"tokenName,omitempty"`
	TokenSymbol     string `json:"tokenSymbol,omitempty"`
	TokenDecimal    string `json:"tokenDecimal,omitempty"`
	IsError         string `json:"isError"`
	TxReceiptStatus string `json:"txreceipt_status"`
}

type scanListResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *ScanClient) get(ctx context.Context, params url.Values) (*scanListResponse, error) {
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scan api returned status %d", resp.StatusCode)
	}
	var out scanListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ScanClient) listAction(ctx context.Context, action, address string, limit int) ([]ScanTx, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", action)
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(limit))
	params.Set("sort", "desc")

	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		// "No transactions found" 走这里，返回空列表
		return nil, nil
	}
	var txs []ScanTx
	if err := json.Unmarshal(resp.Result, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// TxList 原生币转账列表 (时间倒序)
func (c *ScanClient) TxList(ctx context.Context, address string, limit int) ([]ScanTx, error) {
	return c.listAction(ctx, "txlist", address, limit)
}

// TokenTx ERC-20 转账列表 (时间倒序)
func (c *ScanClient) TokenTx(ctx context.Context, address string, limit int) ([]ScanTx, error) {
	return c.listAction(ctx, "tokentx", address, limit)
}

// Balance 原生币余额 (wei, 十进制字符串)
func (c *ScanClient) Balance(ctx context.Context, address string) (string, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")

	resp, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}
	if resp.Status != "1" {
		return "", fmt.Errorf("scan api error: %s", resp.Message)
	}
	var wei string
	if err := json.Unmarshal(resp.Result, &wei); err != nil {
		return "", err
	}
	return wei, nil
}
