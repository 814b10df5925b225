package hedera

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/pkg/hbar"
)

// Submitter 本账本的签名提交通道，由配对连接器提供
type Submitter interface {
	SubmitTransfer(ctx context.Context, from, to string, tinybars int64, memo string) (string, error)
}

// maxTipHbar 单笔打赏上限 (HBAR)
var maxTipHbar = decimal.NewFromInt(100)

// Adapter Hedera 账本网关: 镜像节点读，配对钱包写
type Adapter struct {
	mirror      *MirrorClient
	submitter   Submitter
	explorerURL string
}

func NewAdapter(mirror *MirrorClient, submitter Submitter, explorerURL string) *Adapter {
	return &Adapter{
		mirror:      mirror,
		submitter:   submitter,
		explorerURL: strings.TrimRight(explorerURL, "/"),
	}
}

func (a *Adapter) Name() string         { return "hedera" }
func (a *Adapter) NativeSymbol() string { return "HBAR" }

func (a *Adapter) ValidateAddress(addr string) bool {
	return hbar.IsValidAccountID(addr)
}

func (a *Adapter) MaxTipAmount() decimal.Decimal {
	return maxTipHbar
}

// FetchBalance 软失败: 镜像节点不可达时按零余额处理
func (a *Adapter) FetchBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	tinybars, err := a.mirror.AccountBalance(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	return hbar.TinybarsToHbar(tinybars), nil
}

// FetchRecentTransfers 把镜像节点交易投影成统一的转账记录。
// 只保留成功的转账类交易；手续费拆分后取最大进出账作为对手双方。
func (a *Adapter) FetchRecentTransfers(ctx context.Context, account string, limit int) ([]model.TransferRecord, error) {
	txs, err := a.mirror.ListTransactions(ctx, account, limit)
	if err != nil {
		return []model.TransferRecord{}, err
	}

	records := make([]model.TransferRecord, 0, len(txs))
	for _, tx := range txs {
		if tx.Result != "SUCCESS" || len(tx.Transfers) < 2 {
			continue
		}
		rec, ok := a.project(tx)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// project 从带手续费拆分的 transfers 还原出 "谁给谁转了多少"。
// 发送方是最大出账，接收方是最大进账，节点/手续费账户的小额进账自然被排除。
func (a *Adapter) project(tx mirrorTransaction) (model.TransferRecord, bool) {
	var sender, recipient string
	var out, in int64
	for _, t := range tx.Transfers {
		if t.Amount < 0 && -t.Amount > out {
			out = -t.Amount
			sender = t.Account
		}
		if t.Amount > 0 && t.Amount > in {
			in = t.Amount
			recipient = t.Account
		}
	}
	if sender == "" || recipient == "" || in == 0 {
		return model.TransferRecord{}, false
	}

	ts, err := parseConsensusTimestamp(tx.ConsensusTimestamp)
	if err != nil {
		return model.TransferRecord{}, false
	}

	return model.TransferRecord{
		TransferID: tx.TransactionID,
		Timestamp:  ts,
		Sender:     sender,
		Recipient:  recipient,
		Amount:     hbar.TinybarsToHbar(in),
		Asset:      model.AssetNative,
		Symbol:     "HBAR",
		Success:    true,
		Memo:       decodeMemo(tx.MemoBase64),
	}, true
}

// SubmitTransfer 拒签和网络失败都折叠进 receipt，绝不向上抛
func (a *Adapter) SubmitTransfer(ctx context.Context, t ledger.Transfer) model.TransferReceipt {
	if a.submitter == nil {
		return model.TransferReceipt{ErrorMessage: "no signing wallet attached"}
	}
	tinybars := hbar.HbarToTinybars(t.Amount)
	txID, err := a.submitter.SubmitTransfer(ctx, t.Sender, t.Recipient, tinybars, t.Memo)
	if err != nil {
		return model.TransferReceipt{ErrorMessage: err.Error()}
	}
	return model.TransferReceipt{Success: true, TransferID: txID}
}

func (a *Adapter) ExplorerURL(transferID string) string {
	return a.explorerURL + "/transaction/" + transferID
}
