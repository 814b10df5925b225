package handler

import (
	"github.com/gin-gonic/gin"

	"tipjar-core/internal/analytics"
	"tipjar-core/internal/handler/response"
)

// AnalyticsHandler 统计快照接口
type AnalyticsHandler struct {
	refresher *analytics.Refresher
}

func NewAnalyticsHandler(refresher *analytics.Refresher) *AnalyticsHandler {
	return &AnalyticsHandler{refresher: refresher}
}

// Snapshot 当前统计快照
// @Summary 打赏统计
// @Description 返回最近一次刷新的快照；统计降级到零值，从不报错
// @Tags analytics
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/analytics [get]
func (h *AnalyticsHandler) Snapshot(c *gin.Context) {
	response.Success(c, h.refresher.Snapshot())
}

// Refresh 手动触发一次刷新
// @Summary 刷新统计
// @Tags analytics
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/analytics/refresh [post]
func (h *AnalyticsHandler) Refresh(c *gin.Context) {
	h.refresher.Trigger(c.Request.Context())
	response.Success(c, h.refresher.Snapshot())
}
