package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tipjar-core/internal/handler"
	"tipjar-core/internal/handler/response"
	"tipjar-core/pkg/monitor"
)

// Handlers 路由需要的全部业务接口
type Handlers struct {
	Session   *handler.SessionHandler
	Tip       *handler.TipHandler
	History   *handler.HistoryHandler
	Analytics *handler.AnalyticsHandler
	Link      *handler.LinkHandler
	Verify    *handler.VerifyHandler
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(h Handlers) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		sess := api.Group("/session")
		{
			sess.GET("", h.Session.Status)
			sess.POST("/connect", h.Session.Connect)
			sess.POST("/disconnect", h.Session.Disconnect)
		}

		api.POST("/tips", h.Tip.Submit)
		api.GET("/tips/recent", h.History.Recent)
		api.GET("/balance", h.History.Balance)

		api.GET("/analytics", h.Analytics.Snapshot)
		api.POST("/analytics/refresh", h.Analytics.Refresh)

		api.POST("/links", h.Link.Create)
		api.GET("/links/:code", h.Link.Resolve)

		api.GET("/verify/config", h.Verify.Config)
	}

	return r
}
