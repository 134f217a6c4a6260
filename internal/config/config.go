package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultRetries = 3
	DefaultDelay   = 2500 * time.Millisecond
	MinDelay       = 1000 * time.Millisecond
)

type Config struct {
	Crawl    CrawlConfig
	Paths    PathsConfig
	Browser  BrowserConfig
	Download DownloadConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// CrawlConfig is fixed for the lifetime of a crawl run.
type CrawlConfig struct {
	Limit       int
	RetryFailed bool
	MaxRetries  int
	Delay       time.Duration
}

type PathsConfig struct {
	DataFile   string
	OutputFile string
	AssetsDir  string
	StaticDir  string
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	IdleTimeout    time.Duration
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	UserAgent      string
}

type DownloadConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type MetricsConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Crawl: CrawlConfig{
			Limit:       getIntOrDefault("LIMIT", 0),
			RetryFailed: getBoolOrDefault("RETRY_FAILED", false),
			MaxRetries:  max(1, getIntOrDefault("RETRIES", DefaultRetries)),
			Delay:       max(MinDelay, getMillisOrDefault("DELAY", DefaultDelay)),
		},
		Paths: PathsConfig{
			DataFile:   getEnvOrDefault("DATA_FILE", "data/counties.json"),
			OutputFile: getEnvOrDefault("OUTPUT_FILE", "data/crawled-images.json"),
			AssetsDir:  getEnvOrDefault("ASSETS_DIR", "assets"),
			StaticDir:  getEnvOrDefault("STATIC_DIR", "."),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationOrDefault("BROWSER_IDLE_TIMEOUT", 15*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1280),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 800),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "zh-CN"),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", DefaultUserAgent),
		},
		Download: DownloadConfig{
			Timeout:   getDurationOrDefault("DOWNLOAD_TIMEOUT", 30*time.Second),
			UserAgent: getEnvOrDefault("DOWNLOAD_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		},
		Server: ServerConfig{
			Port:            getIntOrDefault("PORT", 3000),
			Host:            getEnvOrDefault("SERVER_HOST", ""),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			Name:     getEnvOrDefault("DB_NAME", "counties"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", "stream:county_images"),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Crawl.Limit < 0 {
		return fmt.Errorf("LIMIT must not be negative")
	}

	if c.Crawl.MaxRetries < 1 {
		return fmt.Errorf("RETRIES must be at least 1")
	}

	if c.Crawl.Delay < MinDelay {
		return fmt.Errorf("DELAY must be at least %d ms", MinDelay.Milliseconds())
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Paths.DataFile) == "" || strings.TrimSpace(c.Paths.OutputFile) == "" {
		return fmt.Errorf("DATA_FILE and OUTPUT_FILE are required")
	}

	return nil
}

// ServerAddr is the listen address for the record-serving endpoint.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getMillisOrDefault reads a bare integer as milliseconds.
func getMillisOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
