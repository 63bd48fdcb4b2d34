package domain

import "time"

// SourceTag identifica a origem de toda submissão aceita.
const SourceTag = "website-contact-form"

// SubmissionInput são os campos como chegaram, sem nenhuma garantia.
// Valores ausentes ou não-string chegam aqui como "".
type SubmissionInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string

	// Website é o campo honeypot; humanos nunca o preenchem.
	Website string
}

// SanitizedSubmission contém os campos já aparados, limitados e escapados
// exatamente uma vez. É o único tipo aceito pelo formatador de e-mail.
type SanitizedSubmission struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Message     string
	SubmittedAt time.Time
	Source      string
}

// Timestamp formata SubmittedAt em ISO-8601 (UTC).
func (s SanitizedSubmission) Timestamp() string {
	return s.SubmittedAt.UTC().Format(time.RFC3339)
}

// ValidationResult é o resultado de Validate. Data sempre traz o que pôde ser
// sanitizado, mesmo quando Valid é false.
type ValidationResult struct {
	Valid  bool
	Errors []string
	Data   SanitizedSubmission
}
