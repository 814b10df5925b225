package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/handler/request"
	"tipjar-core/internal/handler/response"
	"tipjar-core/internal/model"
	"tipjar-core/internal/tip"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/validator"
)

// TipHandler 打赏提交接口
type TipHandler struct {
	flow *tip.Flow
}

func NewTipHandler(flow *tip.Flow) *TipHandler {
	return &TipHandler{flow: flow}
}

// Submit 提交一笔打赏
// @Summary 提交打赏
// @Description 有序校验后提交转账；提交失败在 receipt 里报告，不作为 HTTP 错误
// @Tags tip
// @Accept json
// @Produce json
// @Param request body request.SubmitTipRequest true "打赏参数"
// @Success 200 {object} response.Response
// @Router /api/v1/tips [post]
func (h *TipHandler) Submit(c *gin.Context) {
	var req request.SubmitTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	asset := model.AssetNative
	if req.Asset == string(model.AssetStable) {
		asset = model.AssetStable
	}

	flowReq := &tip.Request{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Memo:      req.Memo,
		Asset:     asset,
	}
	receipt, err := h.flow.Submit(c.Request.Context(), flowReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, receipt)
}
