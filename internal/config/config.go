package config

import (
	"os"
	"strconv"
	"time"

	"github.com/thanhpk/randstr"
	"github.com/yukikurage/flight-docs-api/internal/constants"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	HTTPAddr      string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	EmailDomain string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	StoreDriver    string
	StoreLocalPath string
	StoreBucket    string
	StoreRegion    string
	StoreAccessID  string
	StoreAccessKey string
	MaxUploadBytes int64
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "flightdocs"),
		DBPassword:    getEnv("DB_PASSWORD", "flightdocs"),
		DBName:        getEnv("DB_NAME", "flight_docs"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),

		// A random secret invalidates issued tokens on every restart.
		JWTSecret: getEnv("JWT_SECRET", randstr.String(64)),
		JWTIssuer: getEnv("JWT_ISSUER", "flight-docs-api"),
		JWTTTL:    getEnvDuration("JWT_TTL", time.Hour),

		EmailDomain: getEnv("EMAIL_DOMAIN", constants.DefaultEmailDomain),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),

		StoreDriver:    getEnv("STORE_DRIVER", "local"),
		StoreLocalPath: getEnv("STORE_LOCAL_PATH", "wwwroot/document"),
		StoreBucket:    getEnv("STORE_BUCKET", ""),
		StoreRegion:    getEnv("STORE_REGION", ""),
		StoreAccessID:  getEnv("STORE_ACCESS_ID", ""),
		StoreAccessKey: getEnv("STORE_ACCESS_KEY", ""),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", int(constants.DefaultMaxUploadBytes))),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
