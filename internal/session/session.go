package session

import "encoding/json"

// State 钱包会话连接状态
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON 对外始终以可读字符串表示状态
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// WalletKind 连接器类型标识 (e.g. "hedera-pairing", "evm-local")
type WalletKind string

// Session 当前会话的不可变快照。
// 不变式: AccountID 非空当且仅当 State == StateConnected;
// 进入 Connected 的瞬间 PairingCode 必须被清空。
type Session struct {
	State        State      `json:"state"`
	AccountID    string     `json:"account_id,omitempty"`
	ChainAddress string     `json:"chain_address,omitempty"` // 账户映射到第二标识空间时的链地址
	Kind         WalletKind `json:"wallet_kind,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	PairingCode  string     `json:"pairing_code,omitempty"` // 带外配对挑战串 (仅配对类连接器)
}

// Connected reports whether the session holds an active identity.
func (s Session) Connected() bool {
	return s.State == StateConnected
}
