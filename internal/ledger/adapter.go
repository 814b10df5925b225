package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"tipjar-core/internal/model"
)

// Transfer 待提交的一笔打赏
type Transfer struct {
	Sender    string
	Recipient string
	Amount    decimal.Decimal // 展示单位
	Asset     model.AssetKind
	Memo      string
}

// Adapter 抹平两种账本差异的网关接口。
// 每个账本一个实现，Handler 和 tip 流程只面向这个接口编程。
type Adapter interface {
	// Name 账本标识 ("hedera" / "evm")
	Name() string

	// NativeSymbol 原生资产符号 (HBAR / ETH)
	NativeSymbol() string

	// ValidateAddress 校验收款人标识格式 (Hedera x.y.z / EVM 0x 地址)
	ValidateAddress(addr string) bool

	// MaxTipAmount 单笔打赏上限 (展示单位)。零值表示没有上限。
	MaxTipAmount() decimal.Decimal

	// FetchBalance 查询账户原生资产余额 (展示单位)。
	// 软失败: 查询失败时返回零余额和错误，调用方展示零而不是报错。
	FetchBalance(ctx context.Context, account string) (decimal.Decimal, error)

	// FetchRecentTransfers 拉取账户最近的转账记录，时间倒序。
	// 硬失败: 出错时返回空切片和错误，由调用方决定如何上报。
	FetchRecentTransfers(ctx context.Context, account string, limit int) ([]model.TransferRecord, error)

	// SubmitTransfer 发起转账并等待钱包签名与网络落账。
	// 拒签和网络失败都折叠进 receipt，不通过 error 向上抛。
	SubmitTransfer(ctx context.Context, t Transfer) model.TransferReceipt

	// ExplorerURL 浏览器上的交易详情链接
	ExplorerURL(transferID string) string
}
