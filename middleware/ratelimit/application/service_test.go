package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counts map[domain.Key]int64
	ttl    time.Duration
	err    error
}

func (s *fakeStore) Increment(_ context.Context, key domain.Key, window time.Duration) (domain.Counter, error) {
	if s.err != nil {
		return domain.Counter{}, s.err
	}
	if s.counts == nil {
		s.counts = map[domain.Key]int64{}
	}
	s.counts[key]++
	ttl := s.ttl
	if ttl == 0 {
		ttl = window
	}
	return domain.Counter{Count: s.counts[key], TTL: ttl}, nil
}

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide(context.Background(), "k")
	assert.True(t, dec.Allowed)
	assert.Zero(t, dec.RetryAfter)
	assert.Equal(t, 5, dec.Limit)
}

func TestService_Decide_SixthRequestInWindowIsRejected(t *testing.T) {
	store := &fakeStore{ttl: 42*time.Minute + 300*time.Millisecond}
	svc := Service{Store: store, Policy: domain.DefaultPolicy()}

	for i := 1; i <= 5; i++ {
		dec := svc.Decide(context.Background(), "10.0.0.1")
		require.True(t, dec.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 5-i, dec.Remaining)
	}

	dec := svc.Decide(context.Background(), "10.0.0.1")
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
	// arredonda para cima
	assert.Equal(t, 42*time.Minute+time.Second, dec.RetryAfter)
}

func TestService_Decide_KeysAreIndependent(t *testing.T) {
	store := &fakeStore{}
	svc := Service{Store: store, Policy: domain.Policy{Limit: 1, Window: time.Minute}}

	assert.True(t, svc.Decide(context.Background(), "a").Allowed)
	assert.False(t, svc.Decide(context.Background(), "a").Allowed)
	assert.True(t, svc.Decide(context.Background(), "b").Allowed)
}

func TestService_Decide_FailsOpenOnStoreError(t *testing.T) {
	boom := errors.New("store unreachable")
	var gotKey domain.Key
	var gotErr error
	svc := Service{
		Store: &fakeStore{err: boom},
		OnStoreError: func(key domain.Key, err error) {
			gotKey, gotErr = key, err
		},
	}

	dec := svc.Decide(context.Background(), "k")
	assert.True(t, dec.Allowed)
	assert.True(t, dec.FailedOpen)
	assert.Equal(t, 4, dec.Remaining)
	assert.Equal(t, domain.Key("k"), gotKey)
	assert.ErrorIs(t, gotErr, boom)
}

func TestRetryAfter_MinimumOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, retryAfter(0))
	assert.Equal(t, time.Second, retryAfter(10*time.Millisecond))
	assert.Equal(t, 3*time.Second, retryAfter(3*time.Second))
}
