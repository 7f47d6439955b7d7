package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Feed     FeedConfig
	Provider ProviderConfig
	Cache    CacheConfig
	Refresh  RefreshConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FeedConfig points at the public announcement channel.
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// ProviderConfig points at the structured planned-outages API.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig governs caching of reconciled schedules.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RefreshConfig drives the background cache-warming worker.
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
	Groups   []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Feed = FeedConfig{
		URL:     v.GetString("FEED_URL"),
		Timeout: parseDuration(v.GetString("FEED_TIMEOUT"), 60*time.Second),
	}

	cfg.Provider = ProviderConfig{
		BaseURL: v.GetString("PROVIDER_BASE_URL"),
		Timeout: parseDuration(v.GetString("PROVIDER_TIMEOUT"), 30*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_SCHEDULE_CACHE"),
		TTL:     parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Refresh = RefreshConfig{
		Enabled:  v.GetBool("ENABLE_REFRESH"),
		Interval: parseDuration(v.GetString("REFRESH_INTERVAL"), 15*time.Minute),
		Groups:   splitAndTrim(v.GetString("REFRESH_GROUPS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FEED_URL", "https://t.me/s/cek_info")
	v.SetDefault("FEED_TIMEOUT", "60s")

	v.SetDefault("PROVIDER_BASE_URL", "https://api.yasno.com.ua/api/v1")
	v.SetDefault("PROVIDER_TIMEOUT", "30s")

	v.SetDefault("ENABLE_SCHEDULE_CACHE", false)
	v.SetDefault("SCHEDULE_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_REFRESH", false)
	v.SetDefault("REFRESH_INTERVAL", "15m")
	v.SetDefault("REFRESH_GROUPS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
