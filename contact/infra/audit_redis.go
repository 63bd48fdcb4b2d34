package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"contact-gateway/contact/domain"

	"github.com/redis/go-redis/v9"
)

// RedisAuditStore grava cada evento como JSON sob
// "<prefix>:<timestamp>:<id>", com TTL.
type RedisAuditStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type AuditOption func(*RedisAuditStore)

func WithAuditPrefix(p string) AuditOption {
	return func(s *RedisAuditStore) {
		p = strings.TrimRight(strings.TrimSpace(p), ":")
		if p != "" {
			s.prefix = p
		}
	}
}

func WithAuditTTL(ttl time.Duration) AuditOption {
	return func(s *RedisAuditStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisAuditStore usa "contact:errors" ou "contact:analytics" como prefixo
// padrão, conforme kind.
func NewRedisAuditStore(rdb *redis.Client, kind domain.AuditKind, opts ...AuditOption) *RedisAuditStore {
	prefix := "contact:errors"
	if kind == domain.AuditAnalytics {
		prefix = "contact:analytics"
	}
	s := &RedisAuditStore{rdb: rdb, prefix: prefix, ttl: 30 * 24 * time.Hour}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisAuditStore) Write(ctx context.Context, ev domain.AuditEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	key := s.Key(ev)
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write audit event %s: %w", key, err)
	}
	return nil
}

// Key devolve a chave Redis do evento.
func (s *RedisAuditStore) Key(ev domain.AuditEvent) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, ev.At.UTC().Format("20060102T150405.000Z"), ev.ID)
}
