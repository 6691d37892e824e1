package utils

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatMoney formats a value as a Brazilian monetary string like
// "R$ 1.500,75".
func FormatMoney(value float64) string {
	return "R$ " + ptBR.Sprintf("%.2f", value)
}

// dateLayouts are the date shapes accepted across the system: plain
// ISO dates from forms and RFC3339 timestamps from created_date fields.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// FormatDate renders a stored date as dd/mm/yyyy. Empty input yields
// an empty string; unparseable input is returned unchanged rather than
// failing the render.
func FormatDate(dateString string) string {
	if dateString == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateString); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return dateString
}

// FormatCpfCnpj applies the standard punctuation: 11 digits as CPF
// (000.000.000-00), 14 digits as CNPJ (00.000.000/0000-00). Anything
// else is returned unchanged.
func FormatCpfCnpj(value string) string {
	cleaned := DigitsOnly(value)
	switch len(cleaned) {
	case 11:
		return cleaned[0:3] + "." + cleaned[3:6] + "." + cleaned[6:9] + "-" + cleaned[9:11]
	case 14:
		return cleaned[0:2] + "." + cleaned[2:5] + "." + cleaned[5:8] + "/" + cleaned[8:12] + "-" + cleaned[12:14]
	}
	return value
}

// DigitsOnly strips everything that is not a decimal digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
