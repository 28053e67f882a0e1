package utils

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// DigitsOnly strips everything but 0-9 from a phone number.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds a message-app deep link pre-filled with text.
// Returns "" when the phone has no digits.
func WhatsAppLink(phone, text string) string {
	digits := DigitsOnly(phone)
	if digits == "" {
		return ""
	}
	return fmt.Sprintf("%s%s?text=%s", whatsAppBaseURL, digits, url.QueryEscape(text))
}
