package domain

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		KindClient:        http.StatusBadRequest,
		KindQuota:         http.StatusTooManyRequests,
		KindSize:          http.StatusRequestEntityTooLarge,
		KindNotFound:      http.StatusNotFound,
		KindUnavailable:   http.StatusServiceUnavailable,
		KindConfiguration: http.StatusInternalServerError,
		KindDelivery:      http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, (&Error{Kind: kind}).HTTPStatus(), kind)
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewDeliveryError("Failed to send message.", cause)

	assert.Equal(t, KindDelivery, KindOf(err))
	assert.Equal(t, KindClient, KindOf(NewClientError("Validation failed")))
	assert.Equal(t, KindDelivery, KindOf(cause))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "DELIVERY_ERROR: Failed to send message.: dial tcp: refused", err.Error())
}
