// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Book          BookConfig          `yaml:"book" mapstructure:"book"`
	Studio        StudioConfig        `yaml:"studio" mapstructure:"studio"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
//
// WriteTimeout 默认为 0：生成请求同步等待 LLM，服务端不设上限。
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置（仅用于分布式限流）
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LLM 提供商类型
const (
	ProviderTypeOpenAI    = "openai"
	ProviderTypeGemini    = "gemini"
	ProviderTypeAnthropic = "anthropic"
)

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig LLM 提供商配置
//
// Timeout 为 0 表示不设超时（当前默认）。
type ProviderConfig struct {
	Type        string        `yaml:"type" mapstructure:"type"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// StructuredOutput 是否随请求下发 JSON Schema；未配置时按提供商类型取默认值
	StructuredOutput *bool `yaml:"structured_output" mapstructure:"structured_output"`
}

// BookConfig 书稿排版配置
type BookConfig struct {
	// RTLLanguage 触发从右到左排版的语言标签
	RTLLanguage string `yaml:"rtl_language" mapstructure:"rtl_language"`
	// ProductTag 导出文件名后缀
	ProductTag string `yaml:"product_tag" mapstructure:"product_tag"`
	// Banner 封面顶部的产品横幅
	Banner string      `yaml:"banner" mapstructure:"banner"`
	Labels BookLabels  `yaml:"labels" mapstructure:"labels"`
	Style  StyleConfig `yaml:"style" mapstructure:"style"`
}

// BookLabels 固定文案
type BookLabels struct {
	WrittenBy  string `yaml:"written_by" mapstructure:"written_by"`
	TOC        string `yaml:"toc" mapstructure:"toc"`
	Abstract   string `yaml:"abstract" mapstructure:"abstract"`
	References string `yaml:"references" mapstructure:"references"`
	PagePrefix string `yaml:"page_prefix" mapstructure:"page_prefix"`
	PageInfix  string `yaml:"page_infix" mapstructure:"page_infix"`
}

// StyleConfig 文档样式
type StyleConfig struct {
	LatinFont  string       `yaml:"latin_font" mapstructure:"latin_font"`
	RTLFont    string       `yaml:"rtl_font" mapstructure:"rtl_font"`
	MarginCm   float64      `yaml:"margin_cm" mapstructure:"margin_cm"`
	BodySizePt int          `yaml:"body_size_pt" mapstructure:"body_size_pt"`
	Colors     ColorsConfig `yaml:"colors" mapstructure:"colors"`
}

// ColorsConfig 标题配色（十六进制 RGB，不带 #）
type ColorsConfig struct {
	Title    string `yaml:"title" mapstructure:"title"`
	Subtitle string `yaml:"subtitle" mapstructure:"subtitle"`
	Heading1 string `yaml:"heading1" mapstructure:"heading1"`
	Heading2 string `yaml:"heading2" mapstructure:"heading2"`
	Banner   string `yaml:"banner" mapstructure:"banner"`
}

// StudioConfig 书稿工作台会话配置
type StudioConfig struct {
	SessionTTL               time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	CleanupInterval          time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	MaxConcurrentGenerations int64         `yaml:"max_concurrent_generations" mapstructure:"max_concurrent_generations"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	// MaxBodyBytes v1 接口请求体上限，0 表示不限制
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RateLimitConfig 限流配置（仅作用于生成接口）
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerWindow int           `yaml:"requests_per_window" mapstructure:"requests_per_window"`
	Window            time.Duration `yaml:"window" mapstructure:"window"`
	KeyPrefix         string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// DefaultProviderConfig 返回默认提供商的配置
func (c *LLMConfig) DefaultProviderConfig() (ProviderConfig, bool) {
	if c == nil {
		return ProviderConfig{}, false
	}
	p, ok := c.Providers[c.DefaultProvider]
	return p, ok
}
