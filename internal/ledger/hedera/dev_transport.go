package hedera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tipjar-core/pkg/safe_random"
)

// DevTransport 开发环境的模拟配对通道。
// 真实的配对协议 (扫码挑战、extension 消息通道) 由外部钱包提供；
// 本地联调时用它立即配对并返回模拟交易 id。
type DevTransport struct {
	accountID string

	mu     sync.Mutex
	paired bool
}

func NewDevTransport(accountID string) *DevTransport {
	return &DevTransport{accountID: accountID}
}

func (t *DevTransport) Available(ctx context.Context) bool {
	return t.accountID != ""
}

// Pair 先上报一个一次性挑战串，然后立即 "批准"
func (t *DevTransport) Pair(ctx context.Context, onCode func(string)) (string, error) {
	if onCode != nil {
		code, err := safe_random.GenerateRandomHexString(8)
		if err == nil {
			onCode("tipjar-" + code)
		}
	}

	t.mu.Lock()
	t.paired = true
	t.mu.Unlock()
	return t.accountID, nil
}

// Restore 进程内配对过才能恢复，模拟通道没有跨进程持久化
func (t *DevTransport) Restore(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paired {
		return "", nil
	}
	return t.accountID, nil
}

// SubmitTransfer 返回交易 id 形状的模拟标识，不触网
func (t *DevTransport) SubmitTransfer(ctx context.Context, from, to string, tinybars int64, memo string) (string, error) {
	now := time.Now()
	return fmt.Sprintf("%s@%d.%09d", from, now.Unix(), now.Nanosecond()), nil
}

func (t *DevTransport) Close(ctx context.Context) error {
	t.mu.Lock()
	t.paired = false
	t.mu.Unlock()
	return nil
}
