package application

import (
	"context"
	"time"
)

// BackoffConfig configura o retry exponencial (sem jitter).
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  int
}

// DeliveryBackoffConfig é a política de entrega: 3 tentativas, esperando 1s e
// depois 2s. O total fica em ~3s para caber no tempo de uma requisição.
func DeliveryBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 1 * time.Second,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
		MaxAttempts:  3,
	}
}

// Backoff executa uma operação com retry exponencial.
type Backoff struct {
	config BackoffConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

type BackoffOption func(*Backoff)

// WithSleep troca a espera entre tentativas (testes).
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) BackoffOption {
	return func(b *Backoff) { b.sleep = sleep }
}

func NewBackoff(config BackoffConfig, opts ...BackoffOption) *Backoff {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	b := &Backoff{config: config, sleep: sleepContext}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Retry chama operation até ela retornar nil ou as tentativas acabarem.
// Retorna o último erro, ou o erro do ctx se ele for cancelado durante a
// espera.
func (b *Backoff) Retry(ctx context.Context, operation func(attempt int) error) error {
	var lastErr error

	for attempt := 1; attempt <= b.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		// não espera depois da última tentativa
		if attempt == b.config.MaxAttempts {
			break
		}

		if err := b.sleep(ctx, b.Delay(attempt)); err != nil {
			return lastErr
		}
	}

	return lastErr
}

// Delay devolve a espera depois da tentativa informada (1-based).
func (b *Backoff) Delay(attempt int) time.Duration {
	delay := float64(b.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= b.config.Multiplier
	}
	if b.config.MaxDelay > 0 && delay > float64(b.config.MaxDelay) {
		delay = float64(b.config.MaxDelay)
	}
	return time.Duration(delay)
}

// MaxAttempts devolve o número máximo de tentativas configurado.
func (b *Backoff) MaxAttempts() int { return b.config.MaxAttempts }

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
