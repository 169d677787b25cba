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

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig is the single configuration surface for every derivation
// threshold. The classifier, the engagement scorer and the summary counters
// all read the same values, so the numbers shown side by side in one report
// cannot disagree.
type AnalyticsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration

	// OnTimeWindow separates on-time from delayed completions, measured
	// from the enrollment date. Completion exactly at the boundary counts
	// as on time.
	OnTimeWindow time.Duration
	// InactivityWindow marks a student as dropped off when their latest
	// activity is older than this relative to the report's date_to.
	InactivityWindow time.Duration
	// RecentWindow is the fixed trailing window for the "enrolled this
	// week" figure, independent of the report's own date range.
	RecentWindow time.Duration

	// Default report windows applied when the caller omits a date range.
	CompletionWindow time.Duration
	EngagementWindow time.Duration

	DefaultPageSize int
	MaxPageSize     int
}

// ExportConfig tunes report export rendering.
type ExportConfig struct {
	Enabled  bool
	MaxRows  int
	PDFTitle string
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		CacheEnabled:     v.GetBool("ANALYTICS_CACHE_ENABLED"),
		CacheTTL:         parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 10*time.Minute),
		OnTimeWindow:     parseDuration(v.GetString("ANALYTICS_ONTIME_WINDOW"), 30*24*time.Hour),
		InactivityWindow: parseDuration(v.GetString("ANALYTICS_INACTIVITY_WINDOW"), 14*24*time.Hour),
		RecentWindow:     parseDuration(v.GetString("ANALYTICS_RECENT_WINDOW"), 7*24*time.Hour),
		CompletionWindow: parseDuration(v.GetString("ANALYTICS_COMPLETION_WINDOW"), 90*24*time.Hour),
		EngagementWindow: parseDuration(v.GetString("ANALYTICS_ENGAGEMENT_WINDOW"), 30*24*time.Hour),
		DefaultPageSize:  v.GetInt("ANALYTICS_DEFAULT_PAGE_SIZE"),
		MaxPageSize:      v.GetInt("ANALYTICS_MAX_PAGE_SIZE"),
	}

	cfg.Export = ExportConfig{
		Enabled:  v.GetBool("ENABLE_EXPORTS"),
		MaxRows:  v.GetInt("EXPORT_MAX_ROWS"),
		PDFTitle: v.GetString("EXPORT_PDF_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "aitomanabi")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_CACHE_ENABLED", false)
	v.SetDefault("ANALYTICS_CACHE_TTL", "10m")
	v.SetDefault("ANALYTICS_ONTIME_WINDOW", "720h")
	v.SetDefault("ANALYTICS_INACTIVITY_WINDOW", "336h")
	v.SetDefault("ANALYTICS_RECENT_WINDOW", "168h")
	v.SetDefault("ANALYTICS_COMPLETION_WINDOW", "2160h")
	v.SetDefault("ANALYTICS_ENGAGEMENT_WINDOW", "720h")
	v.SetDefault("ANALYTICS_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("ANALYTICS_MAX_PAGE_SIZE", 100)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_MAX_ROWS", 5000)
	v.SetDefault("EXPORT_PDF_TITLE", "AiToManabi Learning Report")
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
