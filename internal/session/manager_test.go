package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipjar-core/pkg/errno"
)

// fakeConnector 可编排的连接器测试替身
type fakeConnector struct {
	kind      WalletKind
	native    bool
	available bool

	account     *Account
	connectErr  error
	pairingCode string
	// gate 非空时 Connect 阻塞到该通道被关闭，用于模拟等待钱包批准
	gate chan struct{}

	resumeAccount *Account
	resumeErr     error

	mu             sync.Mutex
	connectCalls   int
	disconnects    int
	disconnectedCh chan struct{}
}

func (f *fakeConnector) Kind() WalletKind                     { return f.kind }
func (f *fakeConnector) Native() bool                         { return f.native }
func (f *fakeConnector) Available(ctx context.Context) bool   { return f.available }
func (f *fakeConnector) Resume(ctx context.Context) (*Account, error) {
	return f.resumeAccount, f.resumeErr
}

func (f *fakeConnector) Connect(ctx context.Context, onPairing func(string)) (*Account, error) {
	f.mu.Lock()
	f.connectCalls++
	f.mu.Unlock()
	if f.pairingCode != "" && onPairing != nil {
		onPairing(f.pairingCode)
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.account, f.connectErr
}

func (f *fakeConnector) Disconnect(ctx context.Context) error {
	f.mu.Lock()
	f.disconnects++
	ch := f.disconnectedCh
	f.mu.Unlock()
	if ch != nil {
		close(ch)
	}
	return nil
}

func (f *fakeConnector) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectCalls
}

func TestConnectHappyPath(t *testing.T) {
	conn := &fakeConnector{
		kind:      "hedera-pairing",
		native:    true,
		available: true,
		account:   &Account{ID: "0.0.12345", ChainAddress: "0xabc"},
	}
	m := NewManager(conn)

	var states []State
	m.OnChange(func(s Session) { states = append(states, s.State) })

	sess, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateConnected, sess.State)
	assert.Equal(t, "0.0.12345", sess.AccountID)
	assert.Equal(t, "0xabc", sess.ChainAddress)
	assert.Equal(t, WalletKind("hedera-pairing"), sess.Kind)
	assert.Empty(t, sess.PairingCode)
	assert.Empty(t, sess.LastError)
	assert.Equal(t, []State{StateConnecting, StateConnected}, states)
}

func TestConnectNoWalletFound(t *testing.T) {
	m := NewManager(&fakeConnector{kind: "hedera-pairing", available: false})

	sess, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, errno.ErrNoWalletFound)
	// 会话形状保持未发起连接时的样子
	assert.Equal(t, StateDisconnected, sess.State)
	assert.Empty(t, sess.AccountID)
	assert.Equal(t, StateDisconnected, m.Session().State)
}

func TestConnectUserRejected(t *testing.T) {
	conn := &fakeConnector{
		kind:       "hedera-pairing",
		native:     true,
		available:  true,
		connectErr: errno.ErrUserRejected.WithMessage("USER_REJECT"),
	}
	m := NewManager(conn)

	var states []State
	m.OnChange(func(s Session) { states = append(states, s.State) })

	sess, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, errno.ErrUserRejected)
	// 错误态短暂对外可见，最终停在 Disconnected 且保留原始错误信息
	assert.Equal(t, []State{StateConnecting, StateError, StateDisconnected}, states)
	assert.Equal(t, StateDisconnected, sess.State)
	assert.Equal(t, "USER_REJECT", sess.LastError)
	assert.Empty(t, sess.AccountID)
}

func TestConnectTransportErrorWrapped(t *testing.T) {
	conn := &fakeConnector{
		kind:       "evm-injected",
		available:  true,
		connectErr: errors.New("relay unreachable"),
	}
	m := NewManager(conn)

	sess, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, errno.ErrTransport)
	assert.Equal(t, "relay unreachable", sess.LastError)
	assert.Equal(t, StateDisconnected, sess.State)
}

func TestConnectPrefersNativeConnector(t *testing.T) {
	injected := &fakeConnector{
		kind:      "evm-injected",
		available: true,
		account:   &Account{ID: "0xdead"},
	}
	native := &fakeConnector{
		kind:      "hedera-pairing",
		native:    true,
		available: true,
		account:   &Account{ID: "0.0.777"},
	}
	// 注入顺序故意把非 native 放在前面
	m := NewManager(injected, native)

	sess, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.777", sess.AccountID)
	assert.Equal(t, 0, injected.calls())
	assert.Equal(t, 1, native.calls())
}

func TestConnectIdempotentWhenConnected(t *testing.T) {
	conn := &fakeConnector{
		kind:      "hedera-pairing",
		native:    true,
		available: true,
		account:   &Account{ID: "0.0.12345"},
	}
	m := NewManager(conn)

	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	sess, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.0.12345", sess.AccountID)
	assert.Equal(t, 1, conn.calls(), "second connect must be a no-op")
}

func TestPairingCodeShownThenCleared(t *testing.T) {
	conn := &fakeConnector{
		kind:        "hedera-pairing",
		native:      true,
		available:   true,
		account:     &Account{ID: "0.0.12345"},
		pairingCode: "tipjar-9f3a",
	}
	m := NewManager(conn)

	var sawCode bool
	m.OnChange(func(s Session) {
		if s.State == StateConnecting && s.PairingCode == "tipjar-9f3a" {
			sawCode = true
		}
	})

	sess, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCode, "pairing code must be visible while connecting")
	assert.Empty(t, sess.PairingCode, "pairing code must be cleared on connect")
}

func TestDisconnectDuringConnectDiscardsStaleResult(t *testing.T) {
	conn := &fakeConnector{
		kind:      "hedera-pairing",
		native:    true,
		available: true,
		account:   &Account{ID: "0.0.12345"},
		gate:      make(chan struct{}),
	}
	m := NewManager(conn)

	done := make(chan Session, 1)
	go func() {
		sess, _ := m.Connect(context.Background())
		done <- sess
	}()

	// 等连接进入等待批准阶段
	require.Eventually(t, func() bool {
		return m.Session().State == StateConnecting
	}, time.Second, time.Millisecond)

	m.Disconnect()
	assert.Equal(t, StateDisconnected, m.Session().State)

	// 迟到的批准必须被整体丢弃
	close(conn.gate)
	sess := <-done
	assert.Equal(t, StateDisconnected, sess.State)
	assert.Empty(t, sess.AccountID)
	assert.Equal(t, StateDisconnected, m.Session().State)
}

func TestDisconnectSwallowsTeardownAndResetsFirst(t *testing.T) {
	ch := make(chan struct{})
	conn := &fakeConnector{
		kind:           "hedera-pairing",
		native:         true,
		available:      true,
		account:        &Account{ID: "0.0.12345"},
		disconnectedCh: ch,
	}
	m := NewManager(conn)
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	m.Disconnect()
	// 本地复位立刻生效，不等传输层拆除
	assert.Equal(t, StateDisconnected, m.Session().State)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("transport teardown was never attempted")
	}
}

func TestHandleAccountsChanged(t *testing.T) {
	conn := &fakeConnector{
		kind:      "hedera-pairing",
		native:    true,
		available: true,
		account:   &Account{ID: "0.0.100"},
	}
	m := NewManager(conn)
	_, err := m.Connect(context.Background())
	require.NoError(t, err)

	// 当前账户仍是首位: 不动
	sess, err := m.HandleAccountsChanged(context.Background(), []string{"0.0.100", "0.0.200"})
	require.NoError(t, err)
	assert.Equal(t, StateConnected, sess.State)
	assert.Equal(t, 1, conn.calls())

	// 首位换人: 重新连接对齐
	conn.account = &Account{ID: "0.0.200"}
	sess, err = m.HandleAccountsChanged(context.Background(), []string{"0.0.200"})
	require.NoError(t, err)
	assert.Equal(t, "0.0.200", sess.AccountID)
	assert.Equal(t, 2, conn.calls())

	// 授权集清空: 等价断开
	sess, err = m.HandleAccountsChanged(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateDisconnected, sess.State)
}

func TestResume(t *testing.T) {
	none := &fakeConnector{kind: "evm-injected", available: true}
	conn := &fakeConnector{
		kind:          "hedera-pairing",
		native:        true,
		available:     true,
		resumeAccount: &Account{ID: "0.0.55"},
	}
	m := NewManager(none, conn)

	require.True(t, m.Resume(context.Background()))
	sess := m.Session()
	assert.Equal(t, StateConnected, sess.State)
	assert.Equal(t, "0.0.55", sess.AccountID)
	assert.Equal(t, 0, conn.calls(), "resume must never run the interactive connect")
}

func TestResumeNothingToRestore(t *testing.T) {
	m := NewManager(&fakeConnector{kind: "hedera-pairing", available: true})
	assert.False(t, m.Resume(context.Background()))
	assert.Equal(t, StateDisconnected, m.Session().State)
}
