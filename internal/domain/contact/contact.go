// Package contact canonicalizes seller phone numbers and builds the WhatsApp
// deep links shown on listings.
package contact

import (
	"net/url"
	"strings"
)

const (
	indiaCountryCode = "91"
	uaeCountryCode   = "971"

	whatsAppBaseURL = "https://wa.me/"
)

// NormalizePhone strips everything but digits, drops leading zeros and adds
// the country code for the two local formats the campuses use. Anything it
// does not recognize is returned as bare digits. An empty result means the
// input carried no digits at all.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	digits.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := strings.TrimLeft(digits.String(), "0")
	switch {
	case len(number) == 10:
		return "+" + indiaCountryCode + number
	case len(number) == 12 && strings.HasPrefix(number, indiaCountryCode):
		return "+" + number
	case len(number) == 9:
		return "+" + uaeCountryCode + number
	case strings.HasPrefix(number, uaeCountryCode):
		return "+" + number
	}
	return number
}

// NormalizePhonePtr is NormalizePhone for nullable columns: nil and
// digit-free input both come back as nil.
func NormalizePhonePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	phone := NormalizePhone(*raw)
	if phone == "" {
		return nil
	}
	return &phone
}

// WhatsAppLink returns the wa.me link for phone with an optional pre-filled
// message, or "" when there is no phone.
func WhatsAppLink(phone, message string) string {
	phone = NormalizePhone(phone)
	if phone == "" {
		return ""
	}

	link := whatsAppBaseURL + strings.TrimPrefix(phone, "+")
	if message == "" {
		return link
	}
	return link + "?text=" + quote(message)
}

// quote percent-encodes like a URL path: spaces become %20 and '/' is kept.
func quote(value string) string {
	return pathQuoter.Replace(url.QueryEscape(value))
}

var pathQuoter = strings.NewReplacer("+", "%20", "%2F", "/")
