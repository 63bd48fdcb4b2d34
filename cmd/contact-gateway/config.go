package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type redisBinding struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0,lte=15"`
}

func (b redisBinding) enabled() bool { return strings.TrimSpace(b.Addr) != "" }

type config struct {
	ListenAddr string `validate:"required"`

	MailTransport string `validate:"oneof=resend smtp log"`
	ResendAPIKey  string
	ResendBaseURL string  `validate:"required,url"`
	ResendRPS     float64 `validate:"gte=0"`
	SMTPHost      string  `validate:"required_if=MailTransport smtp"`
	SMTPPort      int     `validate:"required_if=MailTransport smtp,gte=0,lte=65535"`
	SMTPUser      string
	SMTPPass      string
	SMTPSSL       bool

	ContactFrom   string `validate:"required"`
	ContactTo     string `validate:"required,email"`
	FallbackEmail string `validate:"omitempty,email"`

	CORSAllowOrigin string `validate:"required"`
	SpamStrict      bool

	RateEnabled        bool
	RateKeyHeader      string
	TrustXFF           bool
	RateStatsBucket    string `validate:"oneof=hour minute none"`
	RateStatsTrackKeys bool

	RateLimitRedis redisBinding
	AnalyticsRedis redisBinding
	ErrorLogRedis  redisBinding
	AuditTTL             time.Duration `validate:"gte=0"`
	AuditErrorPrefix     string        `validate:"required"`
	AuditAnalyticsPrefix string        `validate:"required"`
	FingerprintKey       string        `validate:"max=64"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=json text"`

	TracingEnabled bool
	TracingStdout  bool
	OTLPEndpoint   string `validate:"omitempty,url"`
	Environment    string

	ConcurrencyMax     int           `validate:"gte=0"`
	ConcurrencyTimeout time.Duration `validate:"gte=0"`
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8080")

	cfg.MailTransport = strings.ToLower(getenvDefault("MAIL_TRANSPORT", "resend"))
	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.ResendBaseURL = getenvDefault("RESEND_BASE_URL", "https://api.resend.com")
	cfg.ResendRPS = getenvFloatDefault("RESEND_RPS", 2)
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = getenvIntDefault("SMTP_PORT", 0)
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.SMTPSSL = getenvBoolDefault("SMTP_SSL", false)

	cfg.ContactFrom = getenvDefault("CONTACT_FROM", "Website Contact Form <noreply@example.com>")
	cfg.ContactTo = getenvDefault("CONTACT_TO", "hello@example.com")
	cfg.FallbackEmail = getenvDefault("CONTACT_FALLBACK_EMAIL", cfg.ContactTo)

	cfg.CORSAllowOrigin = getenvDefault("CORS_ALLOW_ORIGIN", "*")
	cfg.SpamStrict = getenvBoolDefault("SPAM_STRICT", false)

	cfg.RateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	// header definido pela borda (ex.: CF-Connecting-IP); vazio usa RemoteAddr
	cfg.RateKeyHeader = getenvDefault("RATE_KEY_HEADER", "CF-Connecting-IP")
	cfg.TrustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.RateStatsBucket = strings.ToLower(getenvDefault("RATE_STATS_BUCKET", "hour"))
	// as chaves são gravadas como fingerprint, nunca o IP
	cfg.RateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	cfg.RateLimitRedis = readRedisBinding("RATE_LIMIT_REDIS")
	cfg.AnalyticsRedis = readRedisBinding("ANALYTICS_REDIS")
	cfg.ErrorLogRedis = readRedisBinding("ERROR_LOG_REDIS")
	cfg.AuditTTL = getenvDurationDefault("AUDIT_TTL", 30*24*time.Hour)
	cfg.AuditErrorPrefix = getenvDefault("AUDIT_ERROR_PREFIX", "contact:errors")
	cfg.AuditAnalyticsPrefix = getenvDefault("AUDIT_ANALYTICS_PREFIX", "contact:analytics")
	cfg.FingerprintKey = os.Getenv("FINGERPRINT_KEY")

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "json"))

	cfg.TracingEnabled = getenvBoolDefault("TRACING_ENABLED", false)
	cfg.TracingStdout = getenvBoolDefault("TRACING_STDOUT", false)
	cfg.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")
	cfg.Environment = getenvDefault("ENVIRONMENT", "production")

	cfg.ConcurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.ConcurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	if err := validator.New().Struct(cfg); err != nil {
		return config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readRedisBinding(prefix string) redisBinding {
	return redisBinding{
		Addr:     os.Getenv(prefix + "_ADDR"),
		Password: os.Getenv(prefix + "_PASSWORD"),
		DB:       getenvIntDefault(prefix+"_DB", 0),
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
