package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/cache"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount    int
	MaxQueueSize   int
	ExtractWorkers int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdfcpu bool

	// Parsed-document cache
	CacheType     string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Batch directories
	InputDir  string
	OutputDir string

	// Logging
	LogLevel string
	LogFile  string
}

var defaults = map[string]any{
	"PORT":                "8090",
	"DOCINTEL_API_KEY":    "",
	"WORKER_COUNT":        4,
	"MAX_QUEUE_SIZE":      100,
	"EXTRACT_WORKERS":     4,
	"MAX_UPLOAD_BYTES":    int64(52428800), // 50MB
	"JOB_TTL":             time.Hour,
	"PDF_FALLBACK_PDFCPU": true,
	"CACHE_TYPE":          "memory",
	"CACHE_TTL":           24 * time.Hour,
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"INPUT_DIR":           "/app/input",
	"OUTPUT_DIR":          "/app/output",
	"LOG_LEVEL":           "info",
	"LOG_FILE":            "",
}

// Load reads configuration from, in increasing priority: built-in defaults,
// the YAML file named by CONFIG_FILE, a .env file in the working directory,
// and the process environment.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:              v.GetString("PORT"),
		APIKey:            v.GetString("DOCINTEL_API_KEY"),
		WorkerCount:       v.GetInt("WORKER_COUNT"),
		MaxQueueSize:      v.GetInt("MAX_QUEUE_SIZE"),
		ExtractWorkers:    v.GetInt("EXTRACT_WORKERS"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
		JobTTL:            v.GetDuration("JOB_TTL"),
		PDFFallbackPdfcpu: v.GetBool("PDF_FALLBACK_PDFCPU"),
		CacheType:         strings.ToLower(v.GetString("CACHE_TYPE")),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		InputDir:          v.GetString("INPUT_DIR"),
		OutputDir:         v.GetString("OUTPUT_DIR"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFile:           v.GetString("LOG_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.ExtractWorkers <= 0 {
		cfg.ExtractWorkers = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	return cfg, nil
}

// Validate checks settings the HTTP server needs. The batch CLI does not
// call it.
func (c Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("DOCINTEL_API_KEY is required"))
	}
	switch c.CacheType {
	case "none", "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("REDIS_ADDR is required when CACHE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_TYPE must be none, memory or redis, got %q", c.CacheType))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// CacheConfig maps the cache settings onto the cache package's config.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Type:          c.CacheType,
		DefaultTTL:    c.CacheTTL,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}
