package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tipjar-core/internal/analytics"
	"tipjar-core/internal/event"
	"tipjar-core/internal/handler"
	"tipjar-core/internal/ledger"
	"tipjar-core/internal/ledger/evm"
	"tipjar-core/internal/ledger/hedera"
	"tipjar-core/internal/model"
	"tipjar-core/internal/server"
	"tipjar-core/internal/service"
	"tipjar-core/internal/service/mq"
	"tipjar-core/internal/session"
	"tipjar-core/internal/tip"
	"tipjar-core/internal/verify"
	"tipjar-core/pkg/cache"
	"tipjar-core/pkg/config"
	"tipjar-core/pkg/database"
	"tipjar-core/pkg/logger"
	"tipjar-core/pkg/monitor"
	"tipjar-core/pkg/utils/lock"
	"tipjar-core/pkg/validator"
)

// @title TipJar Core API
// @version 1.0
// @description Wallet-session and tip-submission service

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 参数校验器 (注册 ledgeraccount 自定义规则)
	validator.Init()

	// 3. 业务指标
	monitor.InitBusinessMetrics()

	// 4. 连接 Redis (缓存、分布式锁、Redis Streams)
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 5. 连接 PostgreSQL (仅短链接存储需要，连不上则降级为纯长链接)
	var db *gorm.DB
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		logger.Warn("数据库连接失败，短链接功能不可用", zap.Error(err))
		db = nil
	} else if config.Global.App.Env == "development" {
		logger.Info("开发环境: 尝试自动迁移 Schema (GORM AutoMigrate)...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
	} else {
		logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
	}

	// 6. 组装账本网关和连接器
	adapter, connectors := buildLedger()

	// 7. 会话管理
	manager := session.NewManager(connectors...)
	if manager.Resume(context.Background()) {
		logger.Info("已静默恢复上次的钱包会话")
	}

	// 8. 消息队列
	producer, consumer := buildMQ(rdb)

	// 9. 统计聚合 (redis 缓存 + 分布式锁保证多实例只刷一份)
	refresher := analytics.NewRefresher(
		manager,
		adapter,
		cache.NewRedisCache(rdb),
		lock.NewRedisLock(rdb),
		config.Global.Analytics.WindowSize,
		time.Duration(config.Global.Analytics.RefreshInterval)*time.Second,
	)
	refresher.Start(context.Background())

	// 其他实例的打赏事件也触发本实例刷新
	if consumer != nil {
		go func() {
			err := consumer.Subscribe(context.Background(), event.TopicTipSubmitted, func(msg *mq.Message) error {
				var evt event.TipSubmittedEvent
				if err := json.Unmarshal(msg.Payload, &evt); err != nil {
					return nil // 脏消息直接丢弃
				}
				refresher.Trigger(context.Background())
				return nil
			})
			if err != nil {
				logger.Error("订阅打赏事件失败", zap.Error(err))
			}
		}()
	}

	// 10. 打赏提交流程
	flow := tip.NewFlow(manager, adapter, producer, func() {
		refresher.Trigger(context.Background())
	})

	// 11. 打赏链接
	links := service.NewLinkService(db, config.Global.App.BaseURL)

	// 12. HTTP Router
	r := server.NewHTTPRouter(server.Handlers{
		Session:   handler.NewSessionHandler(manager),
		Tip:       handler.NewTipHandler(flow),
		History:   handler.NewHistoryHandler(manager, adapter),
		Analytics: handler.NewAnalyticsHandler(refresher),
		Link:      handler.NewLinkHandler(manager, links),
		Verify:    handler.NewVerifyHandler(verify.WidgetConfig{WidgetURL: config.Global.Verify.WidgetURL}),
	})

	// 13. 启动应用 (阻塞到收到退出信号)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.OnShutdown(refresher.Stop)
	if consumer != nil {
		app.OnShutdown(func() { consumer.Close() })
	}
	app.Run()

	// 14. 退出后资源清理
	logger.Info("正在关闭连接...")
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	rdb.Close()
	logger.Info("系统已退出")
}

// buildLedger 按配置的账本变体组装网关和连接器。
// hedera: 镜像节点读 + 配对钱包写 (开发环境用模拟配对通道);
// evm: 浏览器 API 读 + 本地助记词密钥写。
func buildLedger() (ledger.Adapter, []session.Connector) {
	switch config.Global.Ledger.Variant {
	case "evm":
		evmCfg := config.Global.EVM
		scan := evm.NewScanClient(evmCfg.ScanAPIURL, evmCfg.ScanAPIKey)
		connector := evm.NewLocalKeyConnector(evmCfg.Mnemonic)
		adapter := evm.NewAdapter(scan, connector, evmCfg.RpcUrl, evmCfg.ChainID, evmCfg.USDCContract, evmCfg.ExplorerURL)
		return adapter, []session.Connector{connector}

	default:
		hCfg := config.Global.Hedera
		mirror := hedera.NewMirrorClient(hCfg.MirrorNodeURL)
		transport := hedera.NewDevTransport(hCfg.OperatorAccountID)
		connector := hedera.NewPairingConnector(transport)
		adapter := hedera.NewAdapter(mirror, connector, hCfg.ExplorerURL)
		return adapter, []session.Connector{connector}
	}
}

func buildMQ(rdb *redis.Client) (mq.Producer, mq.Consumer) {
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("使用 Kafka 作为消息队列...")
		brokers := config.Global.Kafka.Brokers
		return mq.NewKafkaProducer(brokers, event.TopicTipSubmitted),
			mq.NewKafkaConsumer(brokers, "tipjar_analytics_group")
	}
	logger.Info("使用 Redis Streams 作为消息队列...")
	return mq.NewRedisProducer(rdb), mq.NewRedisConsumer(rdb, "tipjar_analytics", "refresher-0")
}
