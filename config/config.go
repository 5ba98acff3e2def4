package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// BackendConfig describes the trend analysis API this front end renders.
type BackendConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           int     `mapstructure:"timeout"`       // seconds, 0 = no client timeout
	ProxyTimeout      int     `mapstructure:"proxy_timeout"` // seconds, /api/crawl pass-through
	BlogDisplay       int     `mapstructure:"blog_display"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // outbound cap, 0 disables
	Burst             int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

type SecurityConfig struct {
	BotDetectionEnabled     bool   `mapstructure:"bot_detection_enabled"`
	BotMaxRequestsPerMinute int    `mapstructure:"bot_max_requests_per_minute"`
	OpsAPIKey               string `mapstructure:"ops_api_key"` // guards operational endpoints, empty leaves them open
}

type SessionConfig struct {
	CookieName  string `mapstructure:"cookie_name"`
	TTLSeconds  int    `mapstructure:"ttl_seconds"`  // persisted snapshot lifetime
	IdleTimeout int    `mapstructure:"idle_timeout"` // seconds before an in-memory store is evicted
}

type FeaturesConfig struct {
	RealTrendChart bool `mapstructure:"real_trend_chart"` // prefer /api/datalab/trend-chart over synthetic series
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Session   SessionConfig   `mapstructure:"session"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

func LoadConfig() (Config, error) {
	return load(viper.New(), "")
}

// LoadConfigFile reads the given file instead of ./config.yaml.
func LoadConfigFile(path string) (Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (Config, error) {
	var config Config

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("TRENDWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is fine, defaults and env cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")
	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults(v *viper.Viper) {
	// WebServer defaults
	v.SetDefault("webserver.port", "3000")
	v.SetDefault("webserver.ip", "127.0.0.1")
	v.SetDefault("webserver.scheme", "http")
	v.SetDefault("webserver.base_url", "")
	v.SetDefault("webserver.read_timeout", 15)
	v.SetDefault("webserver.write_timeout", 30)
	v.SetDefault("webserver.shutdown_timeout", 30)

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 0)
	v.SetDefault("backend.proxy_timeout", 10)
	v.SetDefault("backend.blog_display", 12)
	v.SetDefault("backend.requests_per_second", 0.0)
	v.SetDefault("backend.burst", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.operation_timeout", 2)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size_mb", 32)
	v.SetDefault("cache.ttl_seconds", 300)     // 5 minutes
	v.SetDefault("cache.counter_size", 100000) // 100K keys

	// RateLimit defaults
	v.SetDefault("ratelimit.requests_per_second", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	// Security defaults
	v.SetDefault("security.bot_detection_enabled", true)
	v.SetDefault("security.bot_max_requests_per_minute", 60)
	v.SetDefault("security.ops_api_key", "")

	// Session defaults
	v.SetDefault("session.cookie_name", "trend_session")
	v.SetDefault("session.ttl_seconds", 86400)
	v.SetDefault("session.idle_timeout", 1800)

	// Features defaults
	v.SetDefault("features.real_trend_chart", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
