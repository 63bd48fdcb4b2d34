package application

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"contact-gateway/contact/domain"
)

const (
	NameMinLength    = 2
	NameMaxLength    = 50
	EmailMaxLength   = 254
	PhoneMinLength   = 7
	PhoneMaxLength   = 20
	MessageMinLength = 10
	MessageMaxLength = 5000
)

var (
	// sem os caracteres que Escape reescreve: o email sanitizado é igual ao
	// digitado e pode ir direto para o reply_to.
	emailPattern = regexp.MustCompile(`^[^\s@<>"'/\\]+@[^\s@<>"'/\\]+\.[^\s@<>"'/\\]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]+$`)
)

// Validate aplica as regras de todos os campos e coleta todas as falhas.
// Dentro de um campo, os limites de tamanho só são checados se o campo está
// presente. Os dados sanitizados são devolvidos mesmo quando há erros.
func Validate(in domain.SubmissionInput) domain.ValidationResult {
	var errs []string

	firstName := strings.TrimSpace(in.FirstName)
	errs = append(errs, checkRequiredLength("First name", firstName, NameMinLength, NameMaxLength)...)

	lastName := strings.TrimSpace(in.LastName)
	errs = append(errs, checkRequiredLength("Last name", lastName, NameMinLength, NameMaxLength)...)

	email := strings.TrimSpace(in.Email)
	emailErrs := checkEmail(email)
	errs = append(errs, emailErrs...)
	if email != "" && len(emailErrs) == 0 {
		email = strings.ToLower(email)
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !validPhone(phone) {
		errs = append(errs, "Please enter a valid phone number")
	}

	message := strings.TrimSpace(in.Message)
	errs = append(errs, checkRequiredLength("Message", message, MessageMinLength, MessageMaxLength)...)

	return domain.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
		Data: domain.SanitizedSubmission{
			FirstName:   Escape(firstName),
			LastName:    Escape(lastName),
			Email:       Escape(email),
			Phone:       Escape(phone),
			Message:     Escape(message),
			SubmittedAt: time.Now().UTC(),
			Source:      domain.SourceTag,
		},
	}
}

func checkRequiredLength(label, value string, min, max int) []string {
	if value == "" {
		return []string{label + " is required"}
	}
	n := utf8.RuneCountInString(value)
	switch {
	case n < min:
		return []string{fmt.Sprintf("%s must be at least %d characters long", label, min)}
	case n > max:
		return []string{fmt.Sprintf("%s must not exceed %d characters", label, max)}
	}
	return nil
}

func checkEmail(email string) []string {
	if email == "" {
		return []string{"Email is required"}
	}
	var errs []string
	if !emailPattern.MatchString(email) {
		errs = append(errs, "Please enter a valid email address")
	}
	if utf8.RuneCountInString(email) > EmailMaxLength {
		errs = append(errs, fmt.Sprintf("Email must not exceed %d characters", EmailMaxLength))
	}
	return errs
}

// validPhone aceita dígitos, espaços, parênteses, hífen e '+' inicial, com
// 7 a 20 caracteres contando o '+'.
func validPhone(phone string) bool {
	n := utf8.RuneCountInString(phone)
	return n >= PhoneMinLength && n <= PhoneMaxLength && phonePattern.MatchString(phone)
}
