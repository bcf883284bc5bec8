package news

import (
	"strconv"
	"strings"

	"newsdeck/utils"
)

const (
	// MaxPreferenceLength is the longest accepted preference token.
	MaxPreferenceLength = 100
	// MaxPreferenceCount caps how many preferences a user can hold.
	MaxPreferenceCount = 50
)

// controlChars are rejected anywhere inside a preference or search keyword.
const controlChars = "<>\n\r\t"

// ContainsControlChars reports whether s contains any character that is not
// allowed in user-supplied tokens.
func ContainsControlChars(s string) bool {
	return strings.ContainsAny(s, controlChars)
}

// NormalizePreferences canonicalizes a preference list into an ordered set of
// distinct lowercase tokens. The pipeline order is fixed: trim, drop empties,
// reject control characters, lowercase, drop over-length entries, then dedupe
// preserving first-seen order and cap the count. The result is always valid,
// possibly empty, and the function is idempotent.
func NormalizePreferences(raw []string) []string {
	deduped := []string{}
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" || ContainsControlChars(item) {
			continue
		}
		item = strings.ToLower(item)
		if len(item) > MaxPreferenceLength {
			continue
		}
		if utils.ContainsString(deduped, item) {
			continue
		}
		deduped = append(deduped, item)
		if len(deduped) >= MaxPreferenceCount {
			break
		}
	}
	return deduped
}

// NormalizeRawPreferences tolerates arbitrary decoded JSON: anything that is
// not an array yields an empty set, and only string and number entries are
// kept. Numbers are rendered without an exponent so 123 stays "123".
func NormalizeRawPreferences(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	kept := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			kept = append(kept, v)
		case float64:
			kept = append(kept, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return NormalizePreferences(kept)
}
