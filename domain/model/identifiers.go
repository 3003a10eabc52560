package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// nameParts splits a display name into first name and the concatenated rest.
func nameParts(name string) (first, rest string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], "")
}

func initialOf(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r))
}

// lastNamePrefix keeps up to four runes, not bytes, so accented and
// non-Latin names survive intact.
func lastNamePrefix(rest string) string {
	runes := []rune(rest)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return strings.ToLower(string(runes))
}

// CustomerIdentifier derives the short human-facing customer code from name
// and phone: first-name initial, up to four letters of the last name, last
// four phone digits.
func CustomerIdentifier(name, phone string) string {
	first, rest := nameParts(name)

	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	tail := digits.String()
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}

	return initialOf(first) + lastNamePrefix(rest) + tail
}

// QuotationDisplayID derives the human-facing quotation code from the
// customer name and creation time: initial plus last-name prefix, then the
// timestamp as dd-mm-yyyy-hh-mm-ss.
func QuotationDisplayID(customerName string, at time.Time) string {
	first, rest := nameParts(customerName)
	return fmt.Sprintf("%s%s#%s", initialOf(first), lastNamePrefix(rest), at.Format("02-01-2006-15-04-05"))
}
