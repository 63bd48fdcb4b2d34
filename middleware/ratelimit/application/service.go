package application

import (
	"context"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

// Service aplica a política de janela fixa sobre um CounterStore.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// Se o store falhar, a requisição é liberada (fail-open) como se ainda
// restassem Limit-1 vagas: o canal de contato vale mais que a cota.
type Service struct {
	Store  domain.CounterStore
	Policy domain.Policy

	// OnStoreError é chamado quando o store falha, antes do fail-open.
	OnStoreError func(key domain.Key, err error)
}

func (s Service) Decide(ctx context.Context, key domain.Key) domain.Decision {
	p := s.policy()
	if s.Store == nil {
		return domain.Decision{Allowed: true, Limit: p.Limit, Remaining: p.Limit}
	}

	c, err := s.Store.Increment(ctx, key, p.Window)
	if err != nil {
		if s.OnStoreError != nil {
			s.OnStoreError(key, err)
		}
		return domain.Decision{
			Allowed:    true,
			Limit:      p.Limit,
			Remaining:  p.Limit - 1,
			FailedOpen: true,
		}
	}

	if c.Count > int64(p.Limit) {
		return domain.Decision{
			Allowed:    false,
			Limit:      p.Limit,
			Remaining:  0,
			RetryAfter: retryAfter(c.TTL),
		}
	}
	return domain.Decision{
		Allowed:   true,
		Limit:     p.Limit,
		Remaining: p.Limit - int(c.Count),
	}
}

func (s Service) policy() domain.Policy {
	p := s.Policy
	def := domain.DefaultPolicy()
	if p.Limit <= 0 {
		p.Limit = def.Limit
	}
	if p.Window <= 0 {
		p.Window = def.Window
	}
	return p
}

// retryAfter arredonda o TTL para cima em segundos inteiros, mínimo 1s.
func retryAfter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Second
	}
	secs := (ttl + time.Second - 1) / time.Second
	return secs * time.Second
}
