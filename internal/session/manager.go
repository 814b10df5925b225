package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/logger"
	"tipjar-core/pkg/monitor"
)

// Manager 钱包会话的唯一持有者。
// 所有状态变更都必须经过 transition()，任何地方不允许直接改 m.sess 的单个字段。
type Manager struct {
	mu         sync.Mutex
	connectors []Connector
	active     Connector
	sess       Session
	// epoch 在每次 Disconnect 时自增。
	// 在途的 Connect 在落地结果前校验 epoch，不匹配则整体丢弃，
	// 这样 "连接中途断开" 之后迟到的配对批准不会把会话拉回 Connected。
	epoch    uint64
	onChange func(Session)
}

// NewManager 按优先级顺序注入连接器
func NewManager(connectors ...Connector) *Manager {
	return &Manager{
		connectors: connectors,
		sess:       Session{State: StateDisconnected},
	}
}

// OnChange 注册状态变更回调，回调在持锁状态下同步触发，不要在回调里再调 Manager 方法
func (m *Manager) OnChange(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Session 返回当前会话快照
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// transition 唯一合法的状态落地点，调用方必须持有 m.mu。
// 在这里统一兜底不变式: 非 Connected 状态不携带账户身份，Connected 状态不携带配对挑战串。
func (m *Manager) transition(next Session) {
	if next.State != StateConnected {
		next.AccountID = ""
		next.ChainAddress = ""
	}
	if next.State == StateConnected {
		next.PairingCode = ""
		next.LastError = ""
	}
	m.sess = next
	if m.onChange != nil {
		m.onChange(next)
	}
}

// pick 选出本次连接使用的连接器。
// 多个可用时优先 native 配对连接器，其余按注入顺序。
func (m *Manager) pick(ctx context.Context) Connector {
	var fallback Connector
	for _, c := range m.connectors {
		if !c.Available(ctx) {
			continue
		}
		if c.Native() {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// Connect 发起连接流程并阻塞到批准、拒绝或取消。
// 已连接时是幂等空操作；没有任何可用连接器时返回 ErrNoWalletFound 且不改变会话。
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	m.mu.Lock()
	if m.sess.State == StateConnected {
		snap := m.sess
		m.mu.Unlock()
		return snap, nil
	}

	conn := m.pick(ctx)
	if conn == nil {
		m.mu.Unlock()
		return Session{State: StateDisconnected}, errno.ErrNoWalletFound
	}

	// 1. 记录发起时的 epoch，进入 Connecting
	epoch := m.epoch
	m.transition(Session{State: StateConnecting, Kind: conn.Kind()})
	m.mu.Unlock()

	// 2. 持锁外阻塞等待钱包批准；配对挑战串异步回填
	acct, err := conn.Connect(ctx, func(code string) {
		m.setPairingCode(epoch, code)
	})

	// 3. 落地结果前校验 epoch，期间发生过 Disconnect 则整体丢弃
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		if acct != nil {
			go m.teardown(conn)
		}
		logger.Info("discarding stale wallet connect result", zap.String("kind", string(conn.Kind())))
		return m.sess, nil
	}

	if err != nil {
		werr := wrapConnectErr(err)
		// 错误先以 Error 态对外可见，最终停在 Disconnected 并保留 LastError
		m.transition(Session{State: StateError, Kind: conn.Kind(), LastError: werr.Error()})
		m.transition(Session{State: StateDisconnected, Kind: conn.Kind(), LastError: werr.Error()})
		if monitor.Business != nil {
			monitor.Business.WalletConnectFailed.WithLabelValues(string(conn.Kind())).Inc()
		}
		logger.Warn("wallet connect failed",
			zap.String("kind", string(conn.Kind())), zap.Error(werr))
		return m.sess, werr
	}

	m.active = conn
	m.transition(Session{
		State:        StateConnected,
		AccountID:    acct.ID,
		ChainAddress: acct.ChainAddress,
		Kind:         conn.Kind(),
	})
	if monitor.Business != nil {
		monitor.Business.WalletConnectTotal.WithLabelValues(string(conn.Kind())).Inc()
	}
	logger.Info("wallet connected",
		zap.String("kind", string(conn.Kind())), zap.String("account", acct.ID))
	return m.sess, nil
}

// setPairingCode 仅在发起连接的那一轮还有效时展示配对挑战串
func (m *Manager) setPairingCode(epoch uint64, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch || m.sess.State != StateConnecting {
		return
	}
	next := m.sess
	next.PairingCode = code
	m.transition(next)
}

// Disconnect 立即复位本地会话，传输层拆除放在后台且错误只记日志。
// 本地复位永远成功，不会被网络问题阻塞。
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.epoch++
	conn := m.active
	m.active = nil
	m.transition(Session{State: StateDisconnected})
	m.mu.Unlock()

	if conn != nil {
		go m.teardown(conn)
	}
}

func (m *Manager) teardown(conn Connector) {
	if err := conn.Disconnect(context.Background()); err != nil {
		logger.Warn("wallet pairing teardown failed",
			zap.String("kind", string(conn.Kind())), zap.Error(err))
	}
}

// HandleAccountsChanged 授权账户集变化时由连接器事件触发。
// 集合为空等价于断开；当前账户不再是首位时重新走连接流程对齐。
func (m *Manager) HandleAccountsChanged(ctx context.Context, accounts []string) (Session, error) {
	m.mu.Lock()
	connected := m.sess.State == StateConnected
	current := m.sess.AccountID
	m.mu.Unlock()

	if len(accounts) == 0 {
		m.Disconnect()
		return m.Session(), nil
	}
	if !connected || current == accounts[0] {
		return m.Session(), nil
	}

	m.Disconnect()
	return m.Connect(ctx)
}

// Resume 启动时静默恢复已授权会话，全程不弹任何用户提示。
// 没有可恢复会话时保持 Disconnected，返回 false。
func (m *Manager) Resume(ctx context.Context) bool {
	m.mu.Lock()
	if m.sess.State != StateDisconnected {
		m.mu.Unlock()
		return m.sess.State == StateConnected
	}
	m.mu.Unlock()

	for _, c := range m.connectors {
		if !c.Available(ctx) {
			continue
		}
		acct, err := c.Resume(ctx)
		if err != nil {
			logger.Info("wallet resume probe failed",
				zap.String("kind", string(c.Kind())), zap.Error(err))
			continue
		}
		if acct == nil {
			continue
		}

		m.mu.Lock()
		// 恢复是静默的，直接落 Connected，不经过 Connecting
		m.active = c
		m.transition(Session{
			State:        StateConnected,
			AccountID:    acct.ID,
			ChainAddress: acct.ChainAddress,
			Kind:         c.Kind(),
		})
		m.mu.Unlock()
		logger.Info("wallet session resumed",
			zap.String("kind", string(c.Kind())), zap.String("account", acct.ID))
		return true
	}
	return false
}

// wrapConnectErr 保留业务错误码，其余统一归为传输错误并透传原始信息
func wrapConnectErr(err error) error {
	if errors.Is(err, errno.ErrUserRejected) || errors.Is(err, errno.ErrNoWalletFound) {
		return err
	}
	return errno.ErrTransport.WithMessage(err.Error())
}
