package domain

import (
	"context"
	"time"
)

// StatsEvent representa um evento de decisão do rate limit.
//
// Method/Path são strings genéricas, sem dependência de net/http.
//
// Observação: cuidado com cardinalidade. Key normalmente é um IP e não deve
// ser gravada sem controle numa base como Redis.
type StatsEvent struct {
	Key        Key
	Allowed    bool
	FailedOpen bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do rate limit.
//
// O middleware trata erro como best-effort (não derruba a request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
