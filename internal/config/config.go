package config

import (
	"os"
	"strconv"
	"time"

	"subspace_duel/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // optional: duel history is disabled when empty
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	AllowedOrigin string // websocket Origin check; empty allows any

	// Per-IP limits on /api and /ws
	APIRateLimit  int
	APIRateWindow time.Duration
	WSRateLimit   int
	WSRateWindow  time.Duration

	// Duel attempt limits per player
	DuelRateLimit  int
	DuelRateWindow time.Duration

	HistoryBuffer int

	ExpiryPollInterval time.Duration
	RNGSeed            uint64

	Balance Balance
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	seed := uint64(time.Now().UnixNano())
	if v := os.Getenv("RNG_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			seed = n
		}
	}

	return &Config{
		AppPort:            port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          jwtSecret,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		LogLevel:           logLevel,
		LogJSON:            os.Getenv("LOG_JSON") == "true",
		AllowedOrigin:      os.Getenv("ALLOWED_ORIGIN"),
		APIRateLimit:       envInt("API_RATE_LIMIT", 600),
		APIRateWindow:      envSeconds("API_RATE_WINDOW", 60),
		WSRateLimit:        envInt("WS_RATE_LIMIT", 10),
		WSRateWindow:       envSeconds("WS_RATE_WINDOW", 60),
		DuelRateLimit:      envInt("DUEL_RATE_LIMIT", 30),
		DuelRateWindow:     envSeconds("DUEL_RATE_WINDOW", 60),
		HistoryBuffer:      envInt("HISTORY_BUFFER", 256),
		ExpiryPollInterval: envSeconds("EXPIRY_POLL_INTERVAL", 0.25),
		RNGSeed:            seed,
		Balance:            LoadBalance(),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.Warn("ignoring malformed int env var", "key", key, "value", v)
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("ignoring malformed float env var", "key", key, "value", v)
	}
	return def
}

// envSeconds reads a (possibly fractional) number of seconds.
func envSeconds(key string, def float64) time.Duration {
	return seconds(envFloat(key, def))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
