package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/session"
)

// SessionHandler 钱包会话接口
type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Connect 发起钱包连接
// @Summary 连接钱包
// @Description 选择可用连接器发起连接，阻塞到批准或拒绝
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session/connect [post]
func (h *SessionHandler) Connect(c *gin.Context) {
	sess, err := h.manager.Connect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sess)
}

// Disconnect 断开钱包
// @Summary 断开钱包
// @Description 本地复位立即生效，传输层拆除在后台进行
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session/disconnect [post]
func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.manager.Disconnect()
	response.Success(c, h.manager.Session())
}

// Status 当前会话快照
// @Summary 会话状态
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	response.Success(c, h.manager.Session())
}
