package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是 rssreader 的顶层配置结构。
type Config struct {
	Server ServerConfig `yaml:"server"`
	Proxy  ProxyConfig  `yaml:"proxy"`
	Store  StoreConfig  `yaml:"store"`
	I18n   I18nConfig   `yaml:"i18n"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ProxyConfig CORS 代理配置。
type ProxyConfig struct {
	// BaseURL 代理端点，请求形如 <base_url>?url=<编码后的订阅地址>。
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// DisableCache 为 true 时额外附加 disableCache=true 查询参数。
	DisableCache *bool  `yaml:"disable_cache"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	UserAgent    string `yaml:"user_agent"`
}

// Timeout 返回请求超时时间。
func (p ProxyConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheDisabled 返回是否附加缓存禁用参数。
func (p ProxyConfig) CacheDisabled() bool {
	return p.DisableCache == nil || *p.DisableCache
}

// StoreConfig 存储配置。两种驱动都只保存在内存中。
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory 或 sqlite
}

// I18nConfig 界面语言配置。
type I18nConfig struct {
	Lang string `yaml:"lang"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Default 返回全部使用默认值的配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。path 为空时返回默认配置。
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	cfg.Proxy.BaseURL = strings.TrimSpace(cfg.Proxy.BaseURL)
	if cfg.Proxy.BaseURL == "" {
		cfg.Proxy.BaseURL = "https://allorigins.hexlet.app/get"
	}
	if cfg.Proxy.TimeoutSeconds == 0 {
		cfg.Proxy.TimeoutSeconds = 10
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = 5 << 20
	}
	if cfg.Proxy.UserAgent == "" {
		cfg.Proxy.UserAgent = "rssreader/1.0"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if cfg.I18n.Lang == "" {
		cfg.I18n.Lang = "ru"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if strings.HasPrefix(cfg.Log.File, "~/") {
		// Go 不会自动展开 ~，需要手动替换为用户主目录
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Log.File = home + cfg.Log.File[1:]
		}
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("不支持的存储驱动: %s", c.Store.Driver)
	}
	if c.Proxy.TimeoutSeconds < 0 {
		return fmt.Errorf("proxy.timeout_seconds 不能为负数")
	}
	return nil
}
