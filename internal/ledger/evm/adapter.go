package evm

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sort"
	"strconv"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/pkg/crypto_util"
)

// KeyProvider 提交路径的签名密钥来源 (本地密钥连接器实现)
type KeyProvider interface {
	ActiveKey() (*ecdsa.PrivateKey, error)
}

// erc20TransferSelector transfer(address,uint256) 的 4 字节选择器
var erc20TransferSelector = crypto_util.Keccak256([]byte("transfer(address,uint256)"))[:4]

// Adapter EVM 账本网关: 浏览器 API 读，RPC + 本地密钥写。
// 本账本没有单笔打赏上限。
type Adapter struct {
	scan        *ScanClient
	keys        KeyProvider
	rpcURL      string
	chainID     *big.Int
	usdc        common.Address
	explorerURL string

	// dial 可替换，测试替身用
	dial func(ctx context.Context, rawurl string) (*ethclient.Client, error)
}

func NewAdapter(scan *ScanClient, keys KeyProvider, rpcURL string, chainID int64, usdcContract, explorerURL string) *Adapter {
	return &Adapter{
		scan:        scan,
		keys:        keys,
		rpcURL:      rpcURL,
		chainID:     big.NewInt(chainID),
		usdc:        common.HexToAddress(usdcContract),
		explorerURL: explorerURL,
		dial:        ethclient.DialContext,
	}
}

func (a *Adapter) Name() string         { return "evm" }
func (a *Adapter) NativeSymbol() string { return "ETH" }

func (a *Adapter) ValidateAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

// MaxTipAmount 零值: 无上限
func (a *Adapter) MaxTipAmount() decimal.Decimal {
	return decimal.Zero
}

// FetchBalance 软失败: 浏览器 API 出错时按零余额处理
func (a *Adapter) FetchBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	wei, err := a.scan.Balance(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	base, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return decimal.Zero, nil
	}
	return FromBaseUnits(base, EthDecimals), nil
}

// FetchRecentTransfers 合并原生转账和 token 转账，时间倒序，只留成功的
func (a *Adapter) FetchRecentTransfers(ctx context.Context, account string, limit int) ([]model.TransferRecord, error) {
	ethTxs, err := a.scan.TxList(ctx, account, limit)
	if err != nil {
		return []model.TransferRecord{}, err
	}
	tokenTxs, err := a.scan.TokenTx(ctx, account, limit)
	if err != nil {
		return []model.TransferRecord{}, err
	}

	all := append(ethTxs, tokenTxs...)
	sort.Slice(all, func(i, j int) bool {
		ti, _ := strconv.ParseInt(all[i].TimeStamp, 10, 64)
		tj, _ := strconv.ParseInt(all[j].TimeStamp, 10, 64)
		return ti > tj
	})

	records := make([]model.TransferRecord, 0, len(all))
	for _, tx := range all {
		// tokentx 不带 txreceipt_status, 只看 isError
		if tx.IsError != "0" && tx.IsError != "" {
			continue
		}
		if tx.TxReceiptStatus == "0" {
			continue
		}
		rec, ok := projectScanTx(tx)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func projectScanTx(tx ScanTx) (model.TransferRecord, bool) {
	sec, err := strconv.ParseInt(tx.TimeStamp, 10, 64)
	if err != nil {
		return model.TransferRecord{}, false
	}
	base, ok := new(big.Int).SetString(tx.Value, 10)
	if !ok {
		return model.TransferRecord{}, false
	}

	rec := model.TransferRecord{
		TransferID: tx.Hash,
		Timestamp:  time.Unix(sec, 0).UTC(),
		Sender:     tx.From,
		Recipient:  tx.To,
		Success:    true,
	}
	if tx.TokenSymbol != "" {
		decimals := int64(USDCDecimals)
		if d, err := strconv.ParseInt(tx.TokenDecimal, 10, 32); err == nil {
			decimals = d
		}
		rec.Asset = model.AssetStable
		rec.Symbol = tx.TokenSymbol
		rec.Amount = FromBaseUnits(base, int32(decimals))
	} else {
		rec.Asset = model.AssetNative
		rec.Symbol = "ETH"
		rec.Amount = FromBaseUnits(base, EthDecimals)
	}
	return rec, true
}

// SubmitTransfer 经 RPC 提交原生或 ERC-20 转账。
// 签名密钥来自当前连接器；任何失败折叠进 receipt。
func (a *Adapter) SubmitTransfer(ctx context.Context, t ledger.Transfer) model.TransferReceipt {
	if a.keys == nil {
		return model.TransferReceipt{ErrorMessage: "no signing key attached"}
	}
	priv, err := a.keys.ActiveKey()
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}

	client, err := a.dial(ctx, a.rpcURL)
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}
	defer client.Close()

	from := crypto.PubkeyToAddress(priv.PublicKey)
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}

	var tx *types.Transaction
	if t.Asset == model.AssetStable {
		data := erc20TransferData(common.HexToAddress(t.Recipient), ToBaseUnits(t.Amount, USDCDecimals))
		gasLimit, err := client.EstimateGas(ctx, buildCallMsg(from, a.usdc, nil, data))
		if err != nil {
			return model.TransferReceipt{ErrorMessage: err.Error()}
		}
		tx = types.NewTransaction(nonce, a.usdc, big.NewInt(0), gasLimit, gasPrice, data)
	} else {
		// 原生转账固定 21000 gas；本账本不支持链上备注
		tx = types.NewTransaction(nonce, common.HexToAddress(t.Recipient),
			ToBaseUnits(t.Amount, EthDecimals), 21000, gasPrice, nil)
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(a.chainID), priv)
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}
	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}
	return model.TransferReceipt{Success: true, TransferID: signedTx.Hash().Hex()}
}

func buildCallMsg(from, to common.Address, value *big.Int, data []byte) ethereum.CallMsg {
	return ethereum.CallMsg{From: from, To: &to, Value: value, Data: data}
}

// erc20TransferData 选择器 + 左补零的收款地址和金额
func erc20TransferData(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+32+32)
	data = append(data, erc20TransferSelector...)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}

func (a *Adapter) ExplorerURL(transferID string) string {
	return a.explorerURL + "/tx/" + transferID
}
