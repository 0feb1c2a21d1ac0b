package utils

import "strings"

// MaskEmail masks the local part of an email for logs and display,
// keeping the first character and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "****"
	}
	return email[:1] + "****" + email[at:]
}
