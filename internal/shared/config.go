package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	BaseURL      string
	Timeout      time.Duration
	MaxConns     int
	RPS          float64
	PageCacheTTL time.Duration
	CacheTTL     time.Duration
	Workers      int
	OutputDir    string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("invalid integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("invalid number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripadvisor?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		BaseURL:      env("TA_BASE_URL", "https://www.tripadvisor.com"),
		Timeout:      time.Duration(atoi("TA_TIMEOUT_SECONDS", 15)) * time.Second,
		MaxConns:     atoi("TA_MAX_CONNS", 5),
		RPS:          atof("TA_RPS", 0),
		PageCacheTTL: time.Duration(atoi("PAGE_CACHE_TTL_SECONDS", 0)) * time.Second,
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		Workers:      atoi("CRAWL_WORKERS", 4),
		OutputDir:    env("OUTPUT_DIR", "datasets"),
	}
	if c.Workers < 1 {
		log.Warn().Int("workers", c.Workers).Msg("CRAWL_WORKERS below 1, using 1")
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
