package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/verify"
)

// VerifyHandler 身份验证组件的配置透传
type VerifyHandler struct {
	cfg verify.WidgetConfig
}

func NewVerifyHandler(cfg verify.WidgetConfig) *VerifyHandler {
	return &VerifyHandler{cfg: cfg}
}

// Config 挂载验证组件所需的配置
// @Summary 身份验证组件配置
// @Tags verify
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/verify/config [get]
func (h *VerifyHandler) Config(c *gin.Context) {
	response.Success(c, h.cfg)
}
