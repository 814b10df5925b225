package hedera

import (
	"context"

	"tipjar-core/internal/session"
	"tipjar-core/pkg/errno"
)

// PairingTransport 钱包配对协议的外部边界。
// 协议本身 (QR 挑战串、extension 消息通道) 不在本仓库实现，
// 这里只定义会话管理和提交所需的最小能力。
type PairingTransport interface {
	// Available 探测配对通道当前是否可用
	Available(ctx context.Context) bool

	// Pair 发起配对并阻塞到批准或拒绝。
	// 等待批准前通过 onCode 上报带外配对挑战串。
	Pair(ctx context.Context, onCode func(code string)) (accountID string, err error)

	// Restore 静默恢复已批准的配对，没有时返回空串
	Restore(ctx context.Context) (accountID string, err error)

	// SubmitTransfer 构造原生转账并经由已配对钱包签名提交，
	// 返回交易 id (形如 0.0.x@sec.nano)
	SubmitTransfer(ctx context.Context, from, to string, tinybars int64, memo string) (string, error)

	// Close 按配对 topic 断开
	Close(ctx context.Context) error
}

// KindPairing Hedera 原生配对钱包
const KindPairing session.WalletKind = "hedera-pairing"

// PairingConnector 把配对传输包装成会话连接器。
// 它同时就是本账本的签名通道: Adapter 的提交路径直接复用同一个传输。
type PairingConnector struct {
	transport PairingTransport
}

func NewPairingConnector(transport PairingTransport) *PairingConnector {
	return &PairingConnector{transport: transport}
}

func (c *PairingConnector) Kind() session.WalletKind { return KindPairing }
func (c *PairingConnector) Native() bool             { return true }

func (c *PairingConnector) Available(ctx context.Context) bool {
	return c.transport.Available(ctx)
}

func (c *PairingConnector) Connect(ctx context.Context, onPairing func(string)) (*session.Account, error) {
	accountID, err := c.transport.Pair(ctx, onPairing)
	if err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, errno.ErrTransport.WithMessage("pairing approved without an account id")
	}
	return &session.Account{ID: accountID}, nil
}

func (c *PairingConnector) Resume(ctx context.Context) (*session.Account, error) {
	accountID, err := c.transport.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, nil
	}
	return &session.Account{ID: accountID}, nil
}

func (c *PairingConnector) Disconnect(ctx context.Context) error {
	return c.transport.Close(ctx)
}

// SubmitTransfer 经配对钱包签名提交一笔原生转账
func (c *PairingConnector) SubmitTransfer(ctx context.Context, from, to string, tinybars int64, memo string) (string, error) {
	return c.transport.SubmitTransfer(ctx, from, to, tinybars, memo)
}
