package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	MongoURI       string
	AllowedOrigins []string
	LogLevel       string
	DataFilePath   string
	Redis          RedisConfig
	RateLimit      RateLimitConfig
	Auction        AuctionConfig
}

// RedisConfig holds connection and pool options for the shared Redis store.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// RateLimitConfig controls the per-identity sliding window.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	Backend     string // "redis" or "memory"
}

// AuctionConfig holds the bidder simulation parameters.
type AuctionConfig struct {
	NoBidProbability  float64
	MinBidPrice       float64
	MaxBidPrice       float64
	DefaultTmaxMs     int
	MinTmaxMs         int
	MaxTmaxMs         int
	LatencyMultiplier float64
}

func Load() *Config {
	// .env is optional; real deployments use the environment directly
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/ad_exchange"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       mongoURI,
		AllowedOrigins: splitAndTrim(allowedOrigins),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataFilePath:   getEnv("DATA_FILE_PATH", "data.json"),
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 3),
			Window:      getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
			Backend:     getEnv("RATE_LIMIT_BACKEND", "redis"),
		},
		Auction: AuctionConfig{
			NoBidProbability:  getEnvFloat("NO_BID_PROBABILITY", 0.3),
			MinBidPrice:       getEnvFloat("MIN_BID_PRICE", 0.01),
			MaxBidPrice:       getEnvFloat("MAX_BID_PRICE", 1.00),
			DefaultTmaxMs:     getEnvInt("DEFAULT_TMAX_MS", 200),
			MinTmaxMs:         getEnvInt("MIN_TMAX_MS", 1),
			MaxTmaxMs:         getEnvInt("MAX_TMAX_MS", 5000),
			LatencyMultiplier: getEnvFloat("LATENCY_MULTIPLIER", 1.5),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("Invalid integer for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warnf("Invalid float for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	// accept either a duration string ("60s") or plain seconds ("60")
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Warnf("Invalid duration for %s: %q, using %v", key, v, fallback)
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
