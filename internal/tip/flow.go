package tip

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tipjar-core/internal/event"
	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/internal/service/mq"
	"tipjar-core/internal/session"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/logger"
	"tipjar-core/pkg/monitor"
)

// MaxMemoLength memo 长度上限，由输入层 (请求绑定/CLI flag) 负责拦截，
// 提交流程不再复查
const MaxMemoLength = 100

// Request 用户录入的一笔待提交打赏。
// Recipient/Amount 保持原始字符串，校验在提交时进行。
type Request struct {
	Recipient string
	Amount    string
	Memo      string
	Asset     model.AssetKind
}

// Flow 打赏提交流程: 有序校验门 + 提交 + 成功后的清场。
// 校验顺序固定，第一条不过立即终止，保证校验失败绝不触发任何网络调用。
type Flow struct {
	sessions *session.Manager
	adapter  ledger.Adapter
	producer mq.Producer // 可为 nil (单机部署不接消息队列)

	// onRefresh 成功提交后恰好触发一次，提示刷新历史和统计
	onRefresh func()
}

func NewFlow(sessions *session.Manager, adapter ledger.Adapter, producer mq.Producer, onRefresh func()) *Flow {
	return &Flow{
		sessions:  sessions,
		adapter:   adapter,
		producer:  producer,
		onRefresh: onRefresh,
	}
}

// validate 有序校验门。顺序是约定的一部分:
// 未连接 → 收款人格式 → 金额为正 → 金额上限
func (f *Flow) validate(req *Request) (decimal.Decimal, session.Session, error) {
	sess := f.sessions.Session()
	if !sess.Connected() {
		return decimal.Zero, sess, errno.ErrNotConnected
	}
	if !f.adapter.ValidateAddress(strings.TrimSpace(req.Recipient)) {
		return decimal.Zero, sess, errno.ErrInvalidRecipient
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, sess, errno.ErrInvalidAmount
	}
	if max := f.adapter.MaxTipAmount(); !max.IsZero() && amount.GreaterThan(max) {
		return decimal.Zero, sess, errno.ErrAmountTooLarge
	}
	return amount, sess, nil
}

// Submit 执行一次打赏。
// 校验失败返回业务错误且不碰网络; 提交失败折叠在 receipt 里 (error 为 nil)，
// 请求字段原样保留以便重试; 成功时清空请求字段并恰好触发一次刷新通知。
func (f *Flow) Submit(ctx context.Context, req *Request) (model.TransferReceipt, error) {
	amount, sess, err := f.validate(req)
	if err != nil {
		if monitor.Business != nil {
			monitor.Business.TipRejectedTotal.WithLabelValues(f.adapter.Name(), rejectReason(err)).Inc()
		}
		return model.TransferReceipt{}, err
	}

	receipt := f.adapter.SubmitTransfer(ctx, ledger.Transfer{
		Sender:    sess.AccountID,
		Recipient: strings.TrimSpace(req.Recipient),
		Amount:    amount,
		Asset:     req.Asset,
		Memo:      req.Memo,
	})

	if !receipt.Success {
		// 失败只报告一次，绝不自动重试; 错误信息原样透出
		if monitor.Business != nil {
			monitor.Business.TipRejectedTotal.WithLabelValues(f.adapter.Name(), "submit_failed").Inc()
		}
		logger.Warn("tip submission failed",
			zap.String("ledger", f.adapter.Name()),
			zap.String("error", receipt.ErrorMessage))
		return receipt, nil
	}

	f.afterSuccess(ctx, req, sess, amount, receipt)
	return receipt, nil
}

// afterSuccess 清空输入、恰好一次刷新通知、广播事件、记指标
func (f *Flow) afterSuccess(ctx context.Context, req *Request, sess session.Session, amount decimal.Decimal, receipt model.TransferReceipt) {
	recipient, memo := strings.TrimSpace(req.Recipient), req.Memo
	req.Recipient, req.Amount, req.Memo = "", "", ""

	symbol := f.adapter.NativeSymbol()
	if req.Asset == model.AssetStable {
		symbol = "USDC"
	}

	if monitor.Business != nil {
		monitor.Business.TipSubmittedTotal.WithLabelValues(f.adapter.Name(), string(req.Asset)).Inc()
		amt, _ := amount.Float64()
		monitor.Business.TipAmountTotal.WithLabelValues(f.adapter.Name(), string(req.Asset)).Add(amt)
	}

	if f.producer != nil {
		payload, err := json.Marshal(event.TipSubmittedEvent{
			TransferID: receipt.TransferID,
			Ledger:     f.adapter.Name(),
			Sender:     sess.AccountID,
			Recipient:  recipient,
			Amount:     amount.String(),
			Symbol:     symbol,
			Memo:       memo,
			OccurredAt: time.Now().UTC(),
		})
		if err == nil {
			if err := f.producer.Publish(ctx, event.TopicTipSubmitted, recipient, payload); err != nil {
				logger.Warn("publish tip event failed", zap.Error(err))
			}
		}
	}

	logger.Info("tip submitted",
		zap.String("ledger", f.adapter.Name()),
		zap.String("transfer_id", receipt.TransferID),
		zap.String("amount", amount.String()),
		zap.String("symbol", symbol))

	if f.onRefresh != nil {
		f.onRefresh()
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, errno.ErrNotConnected):
		return "not_connected"
	case errors.Is(err, errno.ErrInvalidRecipient):
		return "invalid_recipient"
	case errors.Is(err, errno.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, errno.ErrAmountTooLarge):
		return "amount_too_large"
	default:
		return "other"
	}
}
