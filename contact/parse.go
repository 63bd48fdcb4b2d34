package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"contact-gateway/contact/domain"
)

var (
	errInvalidFormat = &domain.Error{Kind: domain.KindClient, Message: MessageInvalidFormat}
	errTooLarge      = &domain.Error{Kind: domain.KindSize, Message: MessageTooLarge}
)

// parseSubmission lê o corpo conforme o Content-Type. Campos ausentes ou que
// não são string viram "" e falham depois em "is required".
func parseSubmission(r *http.Request, maxBytes int64) (domain.SubmissionInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return domain.SubmissionInput{}, wrapFormat(err)
	}

	switch mediaType {
	case "application/json":
		return parseJSON(r.Body)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return domain.SubmissionInput{}, classifyReadError(err)
		}
		return fromValues(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return domain.SubmissionInput{}, classifyReadError(err)
		}
		return fromValues(url.Values(r.MultipartForm.Value)), nil
	default:
		return domain.SubmissionInput{}, errInvalidFormat
	}
}

func parseJSON(body io.Reader) (domain.SubmissionInput, error) {
	if body == nil {
		return domain.SubmissionInput{}, errInvalidFormat
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.SubmissionInput{}, classifyReadError(err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.SubmissionInput{}, wrapFormat(err)
	}
	return domain.SubmissionInput{
		FirstName: stringField(fields, "firstName"),
		LastName:  stringField(fields, "lastName"),
		Email:     stringField(fields, "email"),
		Phone:     stringField(fields, "phone"),
		Message:   stringField(fields, "message"),
		Website:   stringField(fields, "website"),
	}, nil
}

func fromValues(v url.Values) domain.SubmissionInput {
	return domain.SubmissionInput{
		FirstName: v.Get("firstName"),
		LastName:  v.Get("lastName"),
		Email:     v.Get("email"),
		Phone:     v.Get("phone"),
		Message:   v.Get("message"),
		Website:   v.Get("website"),
	}
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

func classifyReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return &domain.Error{Kind: domain.KindSize, Message: MessageTooLarge, Cause: err}
	}
	return wrapFormat(err)
}

func wrapFormat(err error) error {
	if err == nil {
		return errInvalidFormat
	}
	return &domain.Error{Kind: domain.KindClient, Message: MessageInvalidFormat, Cause: fmt.Errorf("parse body: %w", err)}
}
