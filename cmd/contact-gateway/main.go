package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-gateway/contact"
	"contact-gateway/contact/application"
	cdomain "contact-gateway/contact/domain"
	cinfra "contact-gateway/contact/infra"
	"contact-gateway/middleware/cors"
	"contact-gateway/middleware/ratelimit"
	"contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"
	"contact-gateway/tracing"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var Version = "dev"

func main() {
	// .env é opcional; variáveis já definidas no ambiente têm precedência
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

func newLogger(cfg config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func run(ctx context.Context, cfg config, logger *logrus.Logger) error {
	tracer := tracing.NewManager(tracing.Config{
		ServiceName:    "contact-gateway",
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     1.0,
		Enabled:        cfg.TracingEnabled,
		UseStdout:      cfg.TracingStdout,
	}, logger)
	if err := tracer.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	var clients []*redis.Client
	defer func() {
		for _, c := range clients {
			_ = c.Close()
		}
	}()
	connect := func(name string, b redisBinding) *redis.Client {
		if !b.enabled() {
			return nil
		}
		rdb := connectRedis(ctx, name, b, logger)
		clients = append(clients, rdb)
		return rdb
	}

	var counterStore domain.CounterStore
	if rdb := connect("rate_limit", cfg.RateLimitRedis); rdb != nil {
		counterStore = infra.NewRedisCounterStore(rdb)
	} else {
		mem := infra.NewMemoryCounterStore()
		mem.StartJanitor(ctx)
		counterStore = mem
	}

	var (
		statsStore     domain.StatsStore
		memStats       *infra.MemoryStatsStore
		analyticsStore cdomain.AuditStore
		errorStore     cdomain.AuditStore
	)
	if rdb := connect("analytics", cfg.AnalyticsRedis); rdb != nil {
		statsStore = infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix("contact:ratelimit"),
			infra.WithStatsTTL(cfg.AuditTTL),
			infra.WithStatsBucket(cfg.RateStatsBucket),
			infra.WithStatsTrackKeys(cfg.RateStatsTrackKeys),
		)
		analyticsStore = cinfra.NewRedisAuditStore(rdb, cdomain.AuditAnalytics,
			cinfra.WithAuditPrefix(cfg.AuditAnalyticsPrefix),
			cinfra.WithAuditTTL(cfg.AuditTTL),
		)
	} else {
		memStats = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.RateStatsTrackKeys))
		statsStore = memStats
	}
	if rdb := connect("error_log", cfg.ErrorLogRedis); rdb != nil {
		errorStore = cinfra.NewRedisAuditStore(rdb, cdomain.AuditError,
			cinfra.WithAuditPrefix(cfg.AuditErrorPrefix),
			cinfra.WithAuditTTL(cfg.AuditTTL),
		)
	}

	mailer := buildMailer(cfg, logger)
	if cm, ok := mailer.(cdomain.ConfigurableMailer); ok && !cm.Configured() {
		logger.WithField("transport", cfg.MailTransport).Warn("mail transport has no credentials; submissions will fail with a configuration error")
	}

	auditor := &application.Auditor{Errors: errorStore, Analytics: analyticsStore, Logger: logger}
	svc := &application.Service{
		Mailer:        mailer,
		Backoff:       application.NewBackoff(application.DeliveryBackoffConfig()),
		Addresses:     application.Addresses{From: cfg.ContactFrom, To: cfg.ContactTo},
		FallbackEmail: cfg.FallbackEmail,
		StrictSpam:    cfg.SpamStrict,
		Logger:        logger,
	}

	var rl *ratelimit.Options
	if cfg.RateEnabled {
		rl = &ratelimit.Options{
			Store:              counterStore,
			Policy:             domain.DefaultPolicy(),
			Stats:              statsStore,
			KeyHeader:          cfg.RateKeyHeader,
			TrustXForwardedFor: cfg.TrustXFF,
			StatsKeyFn:         fingerprintKeys([]byte(cfg.FingerprintKey)),
			Logger:             logger,
		}
	}

	corsOpts := cors.DefaultOptions()
	corsOpts.AllowOrigin = cfg.CORSAllowOrigin

	router := contact.NewRouter(contact.RouterConfig{
		Handler: &contact.Handler{
			Service: svc,
			Auditor: auditor,
			KeyFn:   ratelimit.DefaultKeyFunc(cfg.RateKeyHeader, cfg.TrustXFF),
			HashKey: []byte(cfg.FingerprintKey),
		},
		CORS:      corsOpts,
		RateLimit: rl,
		Concurrency: ratelimit.ConcurrencyOptions{
			Max:            cfg.ConcurrencyMax,
			AcquireTimeout: cfg.ConcurrencyTimeout,
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      application.DefaultDeliveryTimeout + 10*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}

	logger.WithFields(logrus.Fields{
		"addr":              cfg.ListenAddr,
		"version":           Version,
		"mail_transport":    cfg.MailTransport,
		"rate_enabled":      cfg.RateEnabled,
		"rate_store_redis":  cfg.RateLimitRedis.enabled(),
		"analytics_redis":   cfg.AnalyticsRedis.enabled(),
		"error_log_redis":   cfg.ErrorLogRedis.enabled(),
		"key_header":        cfg.RateKeyHeader,
		"trust_xff":         cfg.TrustXFF,
		"spam_strict":       cfg.SpamStrict,
		"concurrency_max":   cfg.ConcurrencyMax,
		"tracing_enabled":   cfg.TracingEnabled,
		"cors_allow_origin": cfg.CORSAllowOrigin,
	}).Info("contact gateway listening")

	err = serve(ctx, srv, ln, 10*time.Second)
	auditor.Wait()
	if memStats != nil {
		total := memStats.Total()
		logger.WithFields(logrus.Fields{
			"allowed":     total.Allowed,
			"denied":      total.Denied,
			"failed_open": total.FailedOpen,
		}).Info("rate limit totals")
	}
	return err
}

// serve atende em ln até ctx terminar e só retorna depois que Shutdown
// concluiu, isto é, sem handlers em andamento.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// fingerprintKeys troca a chave do rate limit (IP) pelo mesmo fingerprint
// usado nos logs e na auditoria antes de gravar estatísticas.
func fingerprintKeys(hashKey []byte) func(string) string {
	return func(key string) string {
		return application.Fingerprint(hashKey, key)
	}
}

func buildMailer(cfg config, logger *logrus.Logger) cdomain.Mailer {
	switch cfg.MailTransport {
	case "smtp":
		return cinfra.NewSMTPMailer(cinfra.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			SSL:  cfg.SMTPSSL,
		})
	case "log":
		return cinfra.LogMailer{Logger: logger}
	default:
		return cinfra.NewResendMailer(cfg.ResendAPIKey,
			cinfra.WithResendBaseURL(cfg.ResendBaseURL),
			cinfra.WithRPS(cfg.ResendRPS),
		)
	}
}

// connectRedis não derruba o processo se o Redis não responder: o rate limit
// falha aberto e a auditoria descarta as escritas até ele voltar.
func connectRedis(ctx context.Context, name string, b redisBinding, logger *logrus.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     b.Addr,
		Password: b.Password,
		DB:       b.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"binding": name,
			"addr":    b.Addr,
		}).Warn("redis ping failed; continuing in degraded mode")
	}
	return rdb
}
