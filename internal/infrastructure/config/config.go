package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Backend     BackendConfig   `mapstructure:"backend"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Quota       QuotaConfig     `mapstructure:"quota"`
	Loading     LoadingConfig   `mapstructure:"loading"`
	Feedback    FeedbackConfig  `mapstructure:"feedback"`
	Prompt      PromptConfig    `mapstructure:"prompt"`
	Photo       PhotoConfig     `mapstructure:"photo"`
	Locale      LocaleConfig    `mapstructure:"locale"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 本地 UI 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// BackendConfig 食譜清理後端配置
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig 緩存配置（redis_addr 留空時退回記憶體快取）
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// QuotaConfig 配額顯示基準（僅供顯示，後端才是權威）
type QuotaConfig struct {
	AnonymousBaseline int `mapstructure:"anonymous_baseline"`
	FreeBaseline      int `mapstructure:"free_baseline"`
}

// LoadingConfig 載入訊息輪播設定
type LoadingConfig struct {
	RotateInterval time.Duration `mapstructure:"rotate_interval"`
}

// FeedbackConfig 意見回饋設定
type FeedbackConfig struct {
	RevertDelay time.Duration `mapstructure:"revert_delay"`
}

// PromptConfig 升級提示設定
type PromptConfig struct {
	AutoDismiss time.Duration `mapstructure:"auto_dismiss"`
}

// PhotoConfig 照片上傳限制
type PhotoConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	MaxCount     int   `mapstructure:"max_count"`
}

// LocaleConfig 語系設定
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時沿用環境變數與預設值）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	viper.BindEnv("backend.timeout", "BACKEND_TIMEOUT")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("quota.anonymous_baseline", "QUOTA_ANONYMOUS_BASELINE")
	viper.BindEnv("quota.free_baseline", "QUOTA_FREE_BASELINE")
	viper.BindEnv("locale.default", "LOCALE_DEFAULT")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-cleaner")

	// 伺服器設定
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 後端設定
	viper.SetDefault("backend.base_url", "http://localhost:8080")
	viper.SetDefault("backend.timeout", "120s")

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.redis_addr", "")
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 配額顯示基準
	viper.SetDefault("quota.anonymous_baseline", 10)
	viper.SetDefault("quota.free_baseline", 13)

	// 載入訊息每 3 秒輪播一次
	viper.SetDefault("loading.rotate_interval", "3s")

	// 意見回饋送出後 2 秒還原視圖
	viper.SetDefault("feedback.revert_delay", "2s")

	// 升級提示自動關閉
	viper.SetDefault("prompt.auto_dismiss", "8s")

	// 照片設定
	viper.SetDefault("photo.max_size_bytes", 10*1024*1024) // 10MB
	viper.SetDefault("photo.max_count", 5)

	// 語系設定
	viper.SetDefault("locale.default", "en")

	// dedup window 預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證後端設定
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base url is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證配額基準
	if config.Quota.AnonymousBaseline < 0 {
		return fmt.Errorf("invalid anonymous quota baseline")
	}

	// 驗證輪播間隔
	if config.Loading.RotateInterval <= 0 {
		return fmt.Errorf("invalid loading rotate interval")
	}

	return nil
}
