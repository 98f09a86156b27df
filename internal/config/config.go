package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SourceURL      string
	UserAgent      string
	SourceEncoding string
	FetchTimeout   time.Duration
	DatabaseURL    string
	RedisURL       string
	CacheTTL       time.Duration
	MetricsPort    string
	ServerPort     string
	RateLimit      float64
	RateBurst      int
}

const (
	DefaultSourceURL = "https://www.coolpc.com.tw/evaluate.php"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

func Load() *Config {
	// .env at the project root when run from cmd/<tool>
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		SourceURL:      getEnv("COOLPC_SOURCE_URL", DefaultSourceURL),
		UserAgent:      getEnv("COOLPC_USER_AGENT", DefaultUserAgent),
		SourceEncoding: getEnv("COOLPC_SOURCE_ENCODING", "big5"),
		FetchTimeout:   getDuration("COOLPC_FETCH_TIMEOUT", 30*time.Second),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CacheTTL:       getDuration("COOLPC_CACHE_TTL", 30*time.Minute),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		RateLimit:      getFloat("COOLPC_RATE_LIMIT", 10),
		RateBurst:      getInt("COOLPC_RATE_BURST", 20),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func getFloat(k string, d float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil && v > 0 {
		return v
	}
	return d
}
