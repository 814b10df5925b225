package request

// SubmitTipRequest 打赏提交参数。
// memo 的 100 字符上限在这里拦截，提交流程不再复查。
type SubmitTipRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Memo      string `json:"memo" binding:"max=100"`
	Asset     string `json:"asset" binding:"omitempty,oneof=native stable"`
}

// CreateLinkRequest 打赏链接生成参数。
// 收款人固定是当前已连接的账户，不由请求指定。
type CreateLinkRequest struct {
	Amount  string `json:"amount"`
	Message string `json:"message" binding:"max=100"`
	// Short 为 true 时额外生成落库的短链接 code
	Short bool `json:"short"`
}
