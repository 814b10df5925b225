package event

import "time"

// TopicTipSubmitted 成功打赏事件流
const TopicTipSubmitted = "tip:events:submitted"

// TipSubmittedEvent 一笔打赏成功落账后对外广播的事件
type TipSubmittedEvent struct {
	TransferID string    `json:"transfer_id"`
	Ledger     string    `json:"ledger"`
	Sender     string    `json:"sender"`
	Recipient  string    `json:"recipient"`
	Amount     string    `json:"amount"` // 展示单位十进制字符串
	Symbol     string    `json:"symbol"`
	Memo       string    `json:"memo,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
