package session

import "context"

// Account 连接器批准后返回的身份
type Account struct {
	// ID 账本侧标识 (Hedera account id 或 EVM 地址)
	ID string
	// ChainAddress 可选的第二标识 (Hedera 账户对应的 EVM 地址)。
	// 真实的标识映射是外部系统的职责，这里只透传。
	ChainAddress string
}

// Connector 一种可用的签名钱包接入方式。
// 连接器单例被显式构造并注入 Manager，便于测试替身。
type Connector interface {
	// Kind 连接器类型标识
	Kind() WalletKind

	// Native reports whether this is the ledger-native pairing connector.
	// 同时有多个可用连接器时优先选 native。
	Native() bool

	// Available 探测该连接器当前是否可用 (扩展是否安装 / 助记词是否配置)
	Available(ctx context.Context) bool

	// Connect 发起连接并阻塞到用户批准或拒绝。
	// 需要带外配对的连接器在等待批准前通过 onPairing 上报配对挑战串;
	// 直接弹窗授权的连接器从不调用 onPairing。
	Connect(ctx context.Context, onPairing func(code string)) (*Account, error)

	// Resume 静默探测已授权的会话，绝不弹出用户提示。
	// 没有可恢复的会话时返回 (nil, nil)。
	Resume(ctx context.Context) (*Account, error)

	// Disconnect 拆除传输层配对 (按 topic 断开等)
	Disconnect(ctx context.Context) error
}
