package application

import (
	"fmt"
	"strings"

	"contact-gateway/contact/domain"
)

// Addresses são os endereços fixos do e-mail de contato.
type Addresses struct {
	From string
	To   string
}

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// FormatEmail monta o payload a partir de uma submissão já escapada.
// O HTML é montado por concatenação: os valores não podem ser escapados de
// novo.
func FormatEmail(s domain.SanitizedSubmission, addr Addresses) domain.EmailMessage {
	phone := s.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var html strings.Builder
	html.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><title>New Contact Form Submission</title></head>`)
	html.WriteString(`<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">`)
	html.WriteString(`<h2>New Contact Form Submission</h2>`)
	html.WriteString(`<table cellpadding="6" style="border-collapse: collapse;">`)
	writeRow(&html, "Name", s.FirstName+" "+s.LastName)
	writeRow(&html, "Email", fmt.Sprintf(`<a href="mailto:%s">%s</a>`, s.Email, s.Email))
	writeRow(&html, "Phone", phone)
	writeRow(&html, "Submitted", s.Timestamp())
	writeRow(&html, "Source", s.Source)
	html.WriteString(`</table>`)
	html.WriteString(`<h3>Message</h3>`)
	html.WriteString(`<div style="background: #f9f9f9; padding: 15px; border-left: 4px solid #0066cc;">`)
	html.WriteString(lineBreaks.Replace(s.Message))
	html.WriteString(`</div>`)
	if s.ID != "" {
		fmt.Fprintf(&html, `<p style="color: #888; font-size: 12px;">Submission ID: %s</p>`, s.ID)
	}
	html.WriteString(`</body></html>`)

	var text strings.Builder
	text.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&text, "Name: %s %s\n", s.FirstName, s.LastName)
	fmt.Fprintf(&text, "Email: %s\n", s.Email)
	fmt.Fprintf(&text, "Phone: %s\n", phone)
	fmt.Fprintf(&text, "Submitted: %s\n", s.Timestamp())
	fmt.Fprintf(&text, "Source: %s\n", s.Source)
	if s.ID != "" {
		fmt.Fprintf(&text, "Submission ID: %s\n", s.ID)
	}
	fmt.Fprintf(&text, "\nMessage:\n%s\n", s.Message)

	return domain.EmailMessage{
		From:    addr.From,
		To:      []string{addr.To},
		ReplyTo: s.Email,
		Subject: fmt.Sprintf("New Contact Form Submission from %s %s", s.FirstName, s.LastName),
		HTML:    html.String(),
		Text:    text.String(),
	}
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<tr><td style="font-weight: bold;">%s:</td><td>%s</td></tr>`, label, value)
}
