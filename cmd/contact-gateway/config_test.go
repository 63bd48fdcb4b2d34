package main

import (
	"testing"
	"time"

	cinfra "contact-gateway/contact/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := readConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "resend", cfg.MailTransport)
	assert.Equal(t, "https://api.resend.com", cfg.ResendBaseURL)
	assert.Equal(t, 2.0, cfg.ResendRPS)
	assert.Equal(t, "hello@example.com", cfg.ContactTo)
	assert.Equal(t, "hello@example.com", cfg.FallbackEmail)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.True(t, cfg.RateEnabled)
	assert.False(t, cfg.RateLimitRedis.enabled())
	assert.Equal(t, 100, cfg.ConcurrencyMax)
	assert.Equal(t, 30*24*time.Hour, cfg.AuditTTL)
	assert.Equal(t, "hour", cfg.RateStatsBucket)
	assert.False(t, cfg.RateStatsTrackKeys)
	assert.Equal(t, "contact:errors", cfg.AuditErrorPrefix)
	assert.Equal(t, "contact:analytics", cfg.AuditAnalyticsPrefix)
}

func TestReadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("CONTACT_TO", "team@example.org")
	t.Setenv("RATE_LIMIT_REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_REDIS_DB", "2")
	t.Setenv("SPAM_STRICT", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CONCURRENCY_TIMEOUT", "250ms")
	t.Setenv("RATE_STATS_BUCKET", "Minute")
	t.Setenv("RATE_STATS_TRACK_KEYS", "true")
	t.Setenv("AUDIT_ERROR_PREFIX", "site:errors")

	cfg, err := readConfig()
	require.NoError(t, err)

	assert.Equal(t, "team@example.org", cfg.FallbackEmail)
	assert.True(t, cfg.RateLimitRedis.enabled())
	assert.Equal(t, 2, cfg.RateLimitRedis.DB)
	assert.True(t, cfg.SpamStrict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.ConcurrencyTimeout)
	assert.Equal(t, "minute", cfg.RateStatsBucket)
	assert.True(t, cfg.RateStatsTrackKeys)
	assert.Equal(t, "site:errors", cfg.AuditErrorPrefix)
	assert.Equal(t, "contact:analytics", cfg.AuditAnalyticsPrefix)
}

func TestReadConfig_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown transport":       {"MAIL_TRANSPORT": "pigeon"},
		"smtp without host":       {"MAIL_TRANSPORT": "smtp", "SMTP_PORT": "587"},
		"recipient not an email":  {"CONTACT_TO": "nobody"},
		"bad log format":          {"LOG_FORMAT": "xml"},
		"negative concurrency":    {"CONCURRENCY_MAX": "-1"},
		"redis db out of range":   {"ERROR_LOG_REDIS_DB": "99"},
		"provider base not a url": {"RESEND_BASE_URL": "not a url"},
		"unknown stats bucket":    {"RATE_STATS_BUCKET": "week"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := readConfig()
			assert.Error(t, err)
		})
	}
}

func TestBuildMailer(t *testing.T) {
	cfg, err := readConfig()
	require.NoError(t, err)
	logger := newLogger(cfg)

	cfg.MailTransport = "log"
	assert.IsType(t, cinfra.LogMailer{}, buildMailer(cfg, logger))

	cfg.MailTransport = "resend"
	cfg.ResendAPIKey = ""
	m, ok := buildMailer(cfg, logger).(interface{ Configured() bool })
	require.True(t, ok)
	assert.False(t, m.Configured())
}
