package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Hedera    HederaConfig    `mapstructure:"hedera"`
	EVM       EVMConfig       `mapstructure:"evm"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Verify    VerifyConfig    `mapstructure:"verify"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	// BaseURL 用于拼接打赏链接 (e.g. https://tipjar.example.com)
	BaseURL string `mapstructure:"base_url"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// LedgerConfig 选择当前产品变体运行在哪条账本上
type LedgerConfig struct {
	Variant string `mapstructure:"variant"` // "hedera" or "evm"
}

type HederaConfig struct {
	Network       string `mapstructure:"network"` // testnet / mainnet
	MirrorNodeURL string `mapstructure:"mirror_node_url"`
	ExplorerURL   string `mapstructure:"explorer_url"`
	// OperatorAccountID 开发环境模拟配对通道使用的账户。
	// 生产环境的配对传输由外部钱包协议提供，这里留空。
	OperatorAccountID string `mapstructure:"operator_account_id"`
}

type EVMConfig struct {
	ChainID     int64  `mapstructure:"chain_id"`
	RpcUrl      string `mapstructure:"rpc_url"`
	ScanAPIURL  string `mapstructure:"scan_api_url"`
	ScanAPIKey  string `mapstructure:"scan_api_key"`
	ExplorerURL string `mapstructure:"explorer_url"`
	// USDCContract 稳定币合约地址 (Base Sepolia 上的 USDC)
	USDCContract string `mapstructure:"usdc_contract"`
	// Mnemonic 本地签名连接器使用的助记词 (通常通过环境变量 EVM_MNEMONIC 传入)
	Mnemonic string `mapstructure:"mnemonic"`
}

type AnalyticsConfig struct {
	WindowSize      int `mapstructure:"window_size"`      // 拉取多少笔交易参与统计
	RefreshInterval int `mapstructure:"refresh_interval"` // 秒
}

// VerifyConfig 第三方身份验证组件的透传配置 (组件本身是外部系统)
type VerifyConfig struct {
	WidgetURL string `mapstructure:"widget_url"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if desired
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			// Config file was found but another error was produced
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s, Ledger: %s", Global.App.Env, Global.Ledger.Variant)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.base_url", "http://localhost:8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "tipjar_user")
	viper.SetDefault("db.password", "tipjar_password")
	viper.SetDefault("db.name", "tipjar_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("ledger.variant", "hedera")

	viper.SetDefault("hedera.network", "testnet")
	viper.SetDefault("hedera.mirror_node_url", "https://testnet.mirrornode.hedera.com")
	viper.SetDefault("hedera.explorer_url", "https://hashscan.io/testnet")

	viper.SetDefault("evm.chain_id", 84532) // Base Sepolia
	viper.SetDefault("evm.rpc_url", "https://sepolia.base.org")
	viper.SetDefault("evm.scan_api_url", "https://api-sepolia.basescan.org/api")
	viper.SetDefault("evm.explorer_url", "https://sepolia.basescan.org")
	viper.SetDefault("evm.usdc_contract", "0x036CbD53842c5426634e7929541eC2318f3dCF7e")

	viper.SetDefault("analytics.window_size", 100)
	viper.SetDefault("analytics.refresh_interval", 30)
}
