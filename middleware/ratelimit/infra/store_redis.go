package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// incrWindowScript incrementa o contador e define a expiração apenas no
// primeiro hit da janela. Uma chave sem TTL (ex.: criada manualmente) recebe a
// janela de novo para nunca ficar presa.
//
// KEYS[1] = chave do contador
// ARGV[1] = janela em milissegundos
// Retorno: {count, pttl}
var incrWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisCounterStore guarda os contadores no Redis. O script Lua garante a
// atomicidade por chave entre réplicas.
type RedisCounterStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisCounterOption func(*RedisCounterStore)

func WithCounterPrefix(prefix string) RedisCounterOption {
	return func(s *RedisCounterStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func NewRedisCounterStore(rdb *redis.Client, opts ...RedisCounterOption) *RedisCounterStore {
	s := &RedisCounterStore{
		rdb:    rdb,
		prefix: "ratelimit:contact",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Increment implementa domain.CounterStore.
func (s *RedisCounterStore) Increment(ctx context.Context, key domain.Key, window time.Duration) (domain.Counter, error) {
	if s == nil || s.rdb == nil {
		return domain.Counter{}, fmt.Errorf("redis counter store not configured")
	}

	vals, err := incrWindowScript.Run(ctx, s.rdb, []string{s.key(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return domain.Counter{}, fmt.Errorf("redis rate limit script: %w", err)
	}
	if len(vals) < 2 {
		return domain.Counter{}, fmt.Errorf("unexpected redis result: %v", vals)
	}

	return domain.Counter{
		Count: vals[0],
		TTL:   time.Duration(vals[1]) * time.Millisecond,
	}, nil
}

func (s *RedisCounterStore) key(k domain.Key) string {
	return s.prefix + ":" + string(k)
}
