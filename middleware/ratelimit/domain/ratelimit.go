package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Policy descreve uma janela fixa: no máximo Limit requisições aceitas por
// Window, contadas a partir da primeira requisição da chave.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicy é a política do formulário de contato: 5 envios por hora.
func DefaultPolicy() Policy {
	return Policy{Limit: 5, Window: time.Hour}
}

// Counter é o estado de uma chave logo após o incremento.
type Counter struct {
	Count int64
	// TTL é o tempo restante até a janela expirar.
	TTL time.Duration
}

// CounterStore guarda contadores por chave com expiração.
//
// Increment precisa ser atômico por chave: cria o contador com Count=1 e
// expiração igual a window na primeira chamada e apenas incrementa nas
// seguintes, sem estender a expiração. A remoção é responsabilidade da
// expiração do próprio store.
type CounterStore interface {
	Increment(ctx context.Context, key Key, window time.Duration) (Counter, error)
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
	// FailedOpen indica que o store falhou e a requisição foi liberada mesmo assim.
	FailedOpen bool
}
