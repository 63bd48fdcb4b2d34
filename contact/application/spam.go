package application

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	spamKeywords = []string{
		"viagra",
		"casino",
		"lottery",
		"winner",
		"congratulations",
		"click here",
		"free money",
	}
	// strictSpamKeywords só entram no modo estrito (cliente e SPAM_STRICT).
	strictSpamKeywords = []string{
		"work from home",
		"guaranteed income",
		"make money fast",
		"act now",
		"limited time offer",
	}

	urlPattern         = regexp.MustCompile(`(?i)https?://`)
	embeddedEmailRegex = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[^\s@]+`)
)

const (
	maxLinks          = 2
	repeatedCharRun   = 11
	allCapsMinLength  = 20
	maxDigitRatio     = 0.3
	maxEmbeddedEmails = 1
)

// Sinais reportados em SpamVerdict.Signals.
const (
	SignalKeyword  = "keyword"
	SignalLinks    = "links"
	SignalRepeated = "repeated_chars"
	SignalAllCaps  = "all_caps"
	SignalDigits   = "digits"
	SignalEmails   = "embedded_emails"
	SignalHoneypot = "honeypot"
)

type SpamVerdict struct {
	Spam    bool
	Signals []string
}

// CheckSpam classifica a mensagem com sinais baratos combinados por OU.
// strict adiciona palavras-chave e os sinais de dígitos e e-mails embutidos.
func CheckSpam(message string, strict bool) SpamVerdict {
	var signals []string

	lower := strings.ToLower(message)
	if containsAny(lower, spamKeywords) || (strict && containsAny(lower, strictSpamKeywords)) {
		signals = append(signals, SignalKeyword)
	}
	if len(urlPattern.FindAllStringIndex(message, -1)) > maxLinks {
		signals = append(signals, SignalLinks)
	}
	if longestRun(message) >= repeatedCharRun {
		signals = append(signals, SignalRepeated)
	}
	if isAllCaps(message) {
		signals = append(signals, SignalAllCaps)
	}
	if strict {
		if digitRatio(message) > maxDigitRatio {
			signals = append(signals, SignalDigits)
		}
		if len(embeddedEmailRegex.FindAllStringIndex(message, -1)) > maxEmbeddedEmails {
			signals = append(signals, SignalEmails)
		}
	}

	return SpamVerdict{Spam: len(signals) > 0, Signals: signals}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// longestRun devolve a maior sequência do mesmo caractere.
func longestRun(s string) int {
	best, run := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > best {
			best = run
		}
	}
	return best
}

func isAllCaps(s string) bool {
	if utf8.RuneCountInString(s) <= allCapsMinLength {
		return false
	}
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsLower(r) {
			cased = true
			break
		}
	}
	return cased && s == strings.ToUpper(s)
}

func digitRatio(s string) float64 {
	total, digits := 0, 0
	for _, r := range s {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}
