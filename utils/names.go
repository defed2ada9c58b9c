package utils

import "strings"

// FormatGuestNames joins names as "A", "A & B" or "A, B & C".
func FormatGuestNames(names []string) string {
	switch len(names) {
	case 0:
		return "Guest"
	case 1:
		return names[0]
	case 2:
		return names[0] + " & " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}

// RSVPLink builds the guest-facing RSVP URL for a household token.
func RSVPLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/rsvp?token=" + token
}
