package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSpam(t *testing.T) {
	tests := []struct {
		name    string
		message string
		strict  bool
		want    []string
	}{
		{"ordinary message", "Hi, I'd like a quote for a new website.", false, nil},
		{"keyword any case", "You are a WINNER, claim now", false, []string{SignalKeyword}},
		{"multi word keyword", "please Click Here for details", false, []string{SignalKeyword}},
		{"two links allowed", "see http://a.example and https://b.example", false, nil},
		{"three links", "http://a.example http://b.example HTTPS://c.example", false, []string{SignalLinks}},
		{"ten repeated chars allowed", "hello" + strings.Repeat("!", 10), false, nil},
		{"eleven repeated chars", "hello" + strings.Repeat("!", 11), false, []string{SignalRepeated}},
		{"short shouting allowed", "PLEASE CALL ME BACK", false, nil},
		{"long shouting", "PLEASE CALL ME BACK ASAP TODAY", false, []string{SignalAllCaps}},
		{"digits without letters are not caps", "123456789 123456789 123456789", false, nil},
		{"strict keyword ignored when lenient", "work from home opportunity for you", false, nil},
		{"strict keyword", "work from home opportunity for you", true, []string{SignalKeyword}},
		{"digit heavy strict", "call 5551234567 or 5559876543 now", true, []string{SignalDigits}},
		{"embedded emails strict", "write a@b.com or c@d.com please", true, []string{SignalEmails}},
		{"one embedded email strict", "write me at a@b.com please", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CheckSpam(tt.message, tt.strict)
			assert.Equal(t, len(tt.want) > 0, v.Spam)
			assert.Equal(t, tt.want, v.Signals)
		})
	}
}

func TestCheckSpam_SignalsCombine(t *testing.T) {
	v := CheckSpam("FREE MONEY AT HTTP://A.EXAMPLE HTTP://B.EXAMPLE HTTP://C.EXAMPLE", false)

	assert.True(t, v.Spam)
	assert.Equal(t, []string{SignalKeyword, SignalLinks, SignalAllCaps}, v.Signals)
}
