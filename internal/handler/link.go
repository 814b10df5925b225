package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/handler/request"
	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/service"
	"tipjar-core/internal/session"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/monitor"
	"tipjar-core/pkg/validator"
)

// LinkHandler 打赏链接接口
type LinkHandler struct {
	manager *session.Manager
	links   service.TipLinkService
}

func NewLinkHandler(manager *session.Manager, links service.TipLinkService) *LinkHandler {
	return &LinkHandler{manager: manager, links: links}
}

// Create 为当前账户生成打赏链接
// @Summary 生成打赏链接
// @Description 收款人是当前已连接的账户；short=true 时额外生成落库短链接
// @Tags link
// @Accept json
// @Produce json
// @Param request body request.CreateLinkRequest true "链接参数"
// @Success 200 {object} response.Response
// @Router /api/v1/links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req request.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	sess := h.manager.Session()
	if !sess.Connected() {
		response.Error(c, errno.ErrNotConnected)
		return
	}

	link, err := h.links.BuildURL(sess.AccountID, req.Amount, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{"url": link}
	if req.Short {
		short, err := h.links.Shorten(c.Request.Context(), sess.AccountID, req.Amount, req.Message)
		if err != nil {
			response.Error(c, err)
			return
		}
		data["code"] = short.Code
	}

	if monitor.Business != nil {
		monitor.Business.TipLinkGeneratedTotal.Inc()
	}
	response.Success(c, data)
}

// Resolve 短链接反查
// @Summary 解析短链接
// @Tags link
// @Produce json
// @Param code path string true "短链接 code"
// @Success 200 {object} response.Response
// @Router /api/v1/links/{code} [get]
func (h *LinkHandler) Resolve(c *gin.Context) {
	link, err := h.links.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, link)
}
