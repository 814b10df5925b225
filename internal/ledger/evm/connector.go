package evm

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"tipjar-core/internal/session"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/hdwallet"
)

// KindLocal 配置助记词派生密钥的本地签名连接器
const KindLocal session.WalletKind = "evm-local"

// LocalKeyConnector 从配置助记词派生 EVM 签名密钥的连接器。
// 没有带外配对流程，onPairing 永远不会被调用；
// 授权等价于助记词在配置里存在，所以 Resume 也能静默恢复。
type LocalKeyConnector struct {
	mnemonic string
	path     string

	mu   sync.Mutex
	priv *ecdsa.PrivateKey
}

func NewLocalKeyConnector(mnemonic string) *LocalKeyConnector {
	return &LocalKeyConnector{mnemonic: mnemonic, path: hdwallet.DefaultETHPath}
}

func (c *LocalKeyConnector) Kind() session.WalletKind { return KindLocal }
func (c *LocalKeyConnector) Native() bool             { return false }

func (c *LocalKeyConnector) Available(ctx context.Context) bool {
	return c.mnemonic != ""
}

func (c *LocalKeyConnector) derive() (*ecdsa.PrivateKey, error) {
	w, err := hdwallet.NewFromMnemonic(c.mnemonic, "")
	if err != nil {
		return nil, errno.ErrNoWalletFound.WithMessage(err.Error())
	}
	return w.DeriveETHKey(c.path)
}

func (c *LocalKeyConnector) Connect(ctx context.Context, onPairing func(string)) (*session.Account, error) {
	priv, err := c.derive()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.priv = priv
	c.mu.Unlock()
	// 链地址本身就是账户标识
	return &session.Account{ID: hdwallet.ETHAddress(priv)}, nil
}

func (c *LocalKeyConnector) Resume(ctx context.Context) (*session.Account, error) {
	if c.mnemonic == "" {
		return nil, nil
	}
	return c.Connect(ctx, nil)
}

func (c *LocalKeyConnector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	c.priv = nil
	c.mu.Unlock()
	return nil
}

// ActiveKey 返回当前连接持有的签名密钥，供提交路径使用
func (c *LocalKeyConnector) ActiveKey() (*ecdsa.PrivateKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.priv == nil {
		return nil, errno.ErrNotConnected
	}
	return c.priv, nil
}
