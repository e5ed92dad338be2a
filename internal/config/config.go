package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/grader"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "SYNTAX_FEED"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Grader    grader.Config   `mapstructure:"grader"`
	Content   ContentConfig   `mapstructure:"content"`
	Media     MediaConfig     `mapstructure:"media"`

	// set from the command line, not the config file
	MigrateOnly bool   `mapstructure:"-"`
	File        string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// PublicURL prefixes share links.
	PublicURL string `mapstructure:"public_url"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMinutes) * time.Minute
}

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	DBName    string `mapstructure:"dbname"`
	Charset   string `mapstructure:"charset"`
	ParseTime bool   `mapstructure:"parse_time"`
	SSLMode   string `mapstructure:"sslmode"`
	LogLevel  string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	LocalURL      string `mapstructure:"local_url"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type FeedConfig struct {
	QuizEvery        int           `mapstructure:"quiz_every"`
	AdEvery          int           `mapstructure:"ad_every"`
	AutoAdvanceDelay time.Duration `mapstructure:"auto_advance_delay"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	SweepSchedule    string        `mapstructure:"sweep_schedule"`
}

func (f FeedConfig) Layout() feed.Layout {
	return feed.Layout{QuizEvery: f.QuizEvery, AdEvery: f.AdEvery}
}

type ContentConfig struct {
	// Path overrides the embedded content with a directory of YAML files.
	Path string `mapstructure:"path"`
}

type MediaConfig struct {
	// Root is where curriculum videos are looked up for probing.
	Root string `mapstructure:"root"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.public_url", "http://localhost:8080")

	v.SetDefault("log.file", "logs/app.log")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file::memory:?cache=shared")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl", "5m")

	v.SetDefault("jwt.secret", "syntax-feed-dev-secret")
	v.SetDefault("jwt.expire", "720h")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.local_url", "/uploads")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "syntax-feed")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("rate_limit.max_requests", 300)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("feed.quiz_every", feed.DefaultQuizEvery)
	v.SetDefault("feed.ad_every", feed.DefaultAdEvery)
	v.SetDefault("feed.auto_advance_delay", feed.DefaultAutoAdvanceDelay)
	v.SetDefault("feed.session_ttl", "30m")
	v.SetDefault("feed.sweep_schedule", "@every 1m")

	v.SetDefault("grader.mode", grader.ModeMock)
	v.SetDefault("grader.pass_rate", grader.DefaultPassRate)
	v.SetDefault("grader.run_delay", grader.DefaultRunDelay)
	v.SetDefault("grader.judge0.timeout", "15s")
	v.SetDefault("grader.judge0.concurrency", 4)

	v.SetDefault("media.root", "media")
}

// LoadConfig reads config.yaml from path when it exists, then the
// environment. A .env file in the working directory is loaded first.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// conventional names used by docker-compose files
	v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "DATABASE_URL")
	v.BindEnv("jwt.secret", EnvPrefix+"_JWT_SECRET", "JWT_SECRET")
	v.BindEnv("redis.host", EnvPrefix+"_REDIS_HOST", "REDIS_HOST")
	v.BindEnv("redis.password", EnvPrefix+"_REDIS_PASSWORD", "REDIS_PASSWORD")
	v.BindEnv("grader.judge0.url", EnvPrefix+"_GRADER_JUDGE0_URL", "JUDGE0_URL")
	v.BindEnv("grader.judge0.api_key", EnvPrefix+"_GRADER_JUDGE0_API_KEY", "JUDGE0_API_KEY")
	v.BindEnv("storage.oss_access_key", EnvPrefix+"_STORAGE_OSS_ACCESS_KEY", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", EnvPrefix+"_STORAGE_OSS_SECRET_KEY", "OSS_SECRET_KEY")
	v.BindEnv("storage.minio_access_key", EnvPrefix+"_STORAGE_MINIO_ACCESS_KEY", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", EnvPrefix+"_STORAGE_MINIO_SECRET_KEY", "MINIO_SECRET_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.File = used
	} else {
		cfg.File = filepath.Join(path, "config.yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Feed.QuizEvery <= 0 || c.Feed.AdEvery <= 0 {
		return fmt.Errorf("feed.quiz_every and feed.ad_every must be positive, got %d and %d", c.Feed.QuizEvery, c.Feed.AdEvery)
	}
	if c.Feed.AutoAdvanceDelay <= 0 {
		return fmt.Errorf("feed.auto_advance_delay must be positive")
	}

	if c.Grader.PassRate < 0 || c.Grader.PassRate > 1 {
		return fmt.Errorf("grader.pass_rate must be within [0,1], got %v", c.Grader.PassRate)
	}
	if c.Grader.Mode != grader.ModeMock && c.Grader.Mode != grader.ModeJudge0 {
		return fmt.Errorf("unknown grader.mode %q", c.Grader.Mode)
	}

	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate_limit values must be positive")
	}

	// guest tokens are signed with this secret
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	return nil
}
