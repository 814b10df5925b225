package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/ledger"
	"tipjar-core/internal/model"
	"tipjar-core/internal/session"
	"tipjar-core/pkg/errno"
)

const (
	// historyWindow 向索引 API 拉取的窗口大小
	historyWindow = 50
	// historyDisplayLimit 对外只展示最近这么多笔打赏
	historyDisplayLimit = 10
)

// HistoryHandler 打赏历史与余额接口
type HistoryHandler struct {
	manager *session.Manager
	adapter ledger.Adapter
}

func NewHistoryHandler(manager *session.Manager, adapter ledger.Adapter) *HistoryHandler {
	return &HistoryHandler{manager: manager, adapter: adapter}
}

// tipView 历史列表里的一条打赏 (带浏览器链接)
type tipView struct {
	model.TransferRecord
	ExplorerURL string `json:"explorer_url"`
}

func (h *HistoryHandler) account(c *gin.Context) (string, bool) {
	if acct := c.Query("account"); acct != "" {
		return acct, true
	}
	sess := h.manager.Session()
	if !sess.Connected() {
		return "", false
	}
	return sess.AccountID, true
}

// Recent 最近收到的打赏
// @Summary 最近打赏
// @Description 拉取窗口后过滤出打赏类转账，最多返回 10 条。拉取失败作为硬错误返回 (可重试)。
// @Tags history
// @Produce json
// @Param account query string false "账户标识，缺省用当前会话账户"
// @Success 200 {object} response.Response
// @Router /api/v1/tips/recent [get]
func (h *HistoryHandler) Recent(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		response.Error(c, errno.ErrNotConnected)
		return
	}

	records, err := h.adapter.FetchRecentTransfers(c.Request.Context(), account, historyWindow)
	if err != nil {
		// 历史是唯一硬失败的读路径: 空列表和 "还没人打赏" 无法区分
		response.Error(c, errno.ErrTransport.WithMessage(err.Error()))
		return
	}

	tips := make([]tipView, 0, historyDisplayLimit)
	for _, rec := range records {
		if !rec.Success || !rec.Amount.IsPositive() {
			continue
		}
		tips = append(tips, tipView{TransferRecord: rec, ExplorerURL: h.adapter.ExplorerURL(rec.TransferID)})
		if len(tips) == historyDisplayLimit {
			break
		}
	}
	response.Success(c, gin.H{"tips": tips, "count": len(tips)})
}

// Balance 当前账户余额
// @Summary 余额
// @Description 软失败: 查询出错时返回零余额，不报错
// @Tags history
// @Produce json
// @Param account query string false "账户标识，缺省用当前会话账户"
// @Success 200 {object} response.Response
// @Router /api/v1/balance [get]
func (h *HistoryHandler) Balance(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		response.Error(c, errno.ErrNotConnected)
		return
	}

	// 余额展示是非关键路径，出错按零处理
	balance, _ := h.adapter.FetchBalance(c.Request.Context(), account)
	response.Success(c, gin.H{
		"account": account,
		"balance": balance,
		"symbol":  h.adapter.NativeSymbol(),
	})
}
