package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// insecureSessionSecret 未配置 SECRET_KEY 时的回退密钥，仅用于本地开发
const insecureSessionSecret = "insecure-dev-secret-change-me"

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	SelfHeal        bool   `mapstructure:"self_heal"` // 请求时发现表缺失则重建
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// ConnMaxLifetimeDuration 连接最大生命周期
func (c *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Minute
}

// ConnMaxIdleTimeDuration 空闲连接最大存活时间
func (c *DatabaseConfig) ConnMaxIdleTimeDuration() time.Duration {
	return time.Duration(c.ConnMaxIdleTime) * time.Minute
}

// SessionConfig Flash 消息所用签名 Cookie 配置
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	Secure bool   `mapstructure:"secure"`
	// Insecure 为 true 表示使用了回退密钥
	Insecure bool `mapstructure:"-"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings 配置键与部署环境变量名的对应关系
var envBindings = map[string]string{
	"server.port":           "PORT",
	"server.max_body_bytes": "MAX_BODY_BYTES",
	"db.host":               "DB_HOST",
	"db.port":               "DB_PORT",
	"db.name":               "DB_NAME",
	"db.user":               "DB_USER",
	"db.password":           "DB_PASSWORD",
	"db.sslmode":            "DB_SSLMODE",
	"db.timezone":           "DB_TIMEZONE",
	"db.self_heal":          "DB_SELF_HEAL",
	"db.max_open_conns":     "DB_MAX_OPEN_CONNS",
	"db.max_idle_conns":     "DB_MAX_IDLE_CONNS",
	"db.conn_max_lifetime":  "DB_CONN_MAX_LIFETIME",
	"db.conn_max_idle_time": "DB_CONN_MAX_IDLE_TIME",
	"session.secret":        "SECRET_KEY",
	"session.secure":        "SESSION_SECURE",
	"log.level":             "LOG_LEVEL",
	"log.format":            "LOG_FORMAT",
	"config_file":           "CONFIG_FILE",
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
// path 为空时读取 CONFIG_FILE，仍为空则在 ./config 与 . 下查找 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max_body_bytes", 16<<10)

	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.self_heal", true)
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 环境变量 ──
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}

	// ── 配置文件 ──
	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = insecureSessionSecret
		cfg.Session.Insecure = true
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"db.host (DB_HOST)", c.Database.Host},
		{"db.name (DB_NAME)", c.Database.Name},
		{"db.user (DB_USER)", c.Database.User},
		{"db.password (DB_PASSWORD)", c.Database.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("配置校验失败: %s 不能为空", r.key)
		}
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("配置校验失败: db.port 必须在 1-65535 之间")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	return nil
}
