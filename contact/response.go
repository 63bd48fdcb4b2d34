package contact

import (
	"encoding/json"
	"net/http"

	"contact-gateway/contact/application"
)

const (
	MessageSuccess       = "Thank you for your message! We'll get back to you soon."
	MessageInvalidFormat = "Invalid request format"
	MessageValidation    = application.MessageValidationFailed
	MessageTooLarge      = "Request entity too large"
	MessageTooManyReqs   = "Too many requests. Please try again later."
	MessageNotFound      = "Not found"
	MessageUnavailable   = "Service temporarily unavailable. Please try again later."
)

// Response é o envelope de toda resposta do endpoint.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
