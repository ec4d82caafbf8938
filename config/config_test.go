package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.True(t, cfg.MailSendEnabled)
	require.Equal(t, "emails", cfg.RabbitMQEmailQueue)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("WEBHOOK_TOKEN", "s3cret")
	cfg := Load()

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, int32(25), cfg.DBMaxConns)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.False(t, cfg.MailSendEnabled)
	require.Equal(t, "s3cret", cfg.WebhookToken)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("JWT_REFRESH_TTL", "forever")
	cfg := Load()

	require.Equal(t, int32(10), cfg.DBMaxConns)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, 168*time.Hour, cfg.RefreshTTL)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "market", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@db:5433/market?sslmode=disable", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}
