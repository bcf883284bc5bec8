package utils

import "strings"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// MaskEmail obscures the local part of an email address so it can be logged
// without exposing PII.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		if at < 0 {
			return "***"
		}
		return "***@" + email[at+1:]
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local[:1] + "*@" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + domain
}
