package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/flight-docs-api/internal/constants"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, constants.DefaultEmailDomain, cfg.EmailDomain)
	assert.Len(t, cfg.JWTSecret, 64)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("JWT_TTL", "-1h")

	cfg := Load()

	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
}
