package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categoriza as falhas do pipeline.
type Kind string

const (
	KindClient        Kind = "CLIENT_ERROR"
	KindQuota         Kind = "QUOTA_ERROR"
	KindSize          Kind = "SIZE_ERROR"
	KindNotFound      Kind = "NOT_FOUND"
	KindConfiguration Kind = "CONFIGURATION_ERROR"
	KindDelivery      Kind = "DELIVERY_ERROR"
	KindUnavailable   Kind = "UNAVAILABLE"
)

// Error é o erro estruturado do pipeline. Message é o texto seguro para o
// cliente; Cause só vai para os logs.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus mapeia o Kind para o status da resposta.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindClient:
		return http.StatusBadRequest
	case KindQuota:
		return http.StatusTooManyRequests
	case KindSize:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NewClientError(message string, details ...string) *Error {
	return &Error{Kind: KindClient, Message: message, Details: details}
}

func NewConfigurationError(cause error) *Error {
	return &Error{Kind: KindConfiguration, Message: "Server configuration error", Cause: cause}
}

func NewDeliveryError(message string, cause error) *Error {
	return &Error{Kind: KindDelivery, Message: message, Cause: cause}
}

// KindOf extrai o Kind; erros sem tipo são tratados como falha de entrega.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDelivery
}

// ErrMissingCredential indica que o mailer não tem credencial do provedor.
var ErrMissingCredential = errors.New("email provider credential is not configured")
