package config

import (
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Escrow     EscrowConfig     `mapstructure:"escrow"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Governance GovernanceConfig `mapstructure:"governance"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// EscrowConfig 托管网关配置
type EscrowConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // 托管网关地址
	APIKey     string `mapstructure:"api_key"`     // 接口密钥
	TimeoutSec int    `mapstructure:"timeout_sec"` // 单次调用超时（秒）
	MaxRetries int    `mapstructure:"max_retries"` // 瞬时错误最大重试次数
}

// NotifyConfig 通知网关配置
type NotifyConfig struct {
	GatewayURL string `mapstructure:"gateway_url"` // 通知网关地址
	PoolSize   int    `mapstructure:"pool_size"`   // 异步发送协程池大小
	TimeoutSec int    `mapstructure:"timeout_sec"` // 单次发送超时（秒）
}

// AuthConfig 身份提供方配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"` // 身份提供方签发令牌的共享密钥
}

// GovernanceConfig 社区投票治理配置
type GovernanceConfig struct {
	ThresholdVotes int64 `mapstructure:"threshold_votes"` // 投票通过所需最低票数
	VoteWindowDays int   `mapstructure:"vote_window_days"`
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/boundless")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "boundless")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("escrow.base_url", "http://localhost:9090")
	viper.SetDefault("escrow.timeout_sec", 15)
	viper.SetDefault("escrow.max_retries", 3)
	viper.SetDefault("notify.gateway_url", "http://localhost:9091")
	viper.SetDefault("notify.pool_size", 32)
	viper.SetDefault("notify.timeout_sec", 10)
	viper.SetDefault("governance.threshold_votes", 100)
	viper.SetDefault("governance.vote_window_days", 30)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
