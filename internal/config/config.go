package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by STORE_BACKEND and SESSION_BACKEND.
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Env  string
	Port int

	StoreBackend string
	DBURL        string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	AllowedOrigins []string
	MaxBodyBytes   int64
	AuthRateLimit  int
	AuthRateWindow time.Duration

	OTLPEndpoint string

	SeedOfficerEmail    string
	SeedOfficerPassword string
	SeedOfficerName     string
}

// Load reads configuration from the environment. In dev a .env file in the
// working directory is merged in first; missing values fall back to defaults
// that run the whole stack in memory.
func Load() Config {
	env := getEnv("APP_ENV", "dev")
	if env == "dev" {
		_ = godotenv.Load()
	}

	return Config{
		Env:  env,
		Port: getEnvInt("PORT", 8080),

		StoreBackend: getEnv("STORE_BACKEND", StoreBackendMemory),
		DBURL:        buildDBURL(),

		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendMemory),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 60),
		AuthRateWindow: time.Duration(getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SeedOfficerEmail:    getEnv("SEED_OFFICER_EMAIL", ""),
		SeedOfficerPassword: getEnv("SEED_OFFICER_PASSWORD", ""),
		SeedOfficerName:     getEnv("SEED_OFFICER_NAME", "FinBrain Officer"),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "finbrain")
	pass := getEnv("DB_PASSWORD", "finbrain")
	name := getEnv("DB_NAME", "finbrain")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return num
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
