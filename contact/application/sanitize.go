package application

import "strings"

// MaxFieldRunes limita qualquer campo independentemente das regras por campo.
const MaxFieldRunes = 10000

// htmlEscaper substitui numa única passada, então um caractere introduzido por
// uma substituição nunca é substituído de novo. '&' não é alvo: Escape é
// idempotente.
var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
)

// Escape apara, limita a MaxFieldRunes e escapa os caracteres significativos
// em HTML.
func Escape(s string) string {
	return htmlEscaper.Replace(truncateRunes(strings.TrimSpace(s), MaxFieldRunes))
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
