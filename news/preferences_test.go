package news

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePreferences(t *testing.T) {
	assert.Equal(t,
		[]string{"movies", "sports", "123", "comics"},
		NormalizePreferences([]string{"  Movies  ", "MOVIES", "\n\t", "sports", "123", "COMICS"}))
}

func TestNormalizePreferencesDropsControlCharacters(t *testing.T) {
	assert.Equal(t,
		[]string{"ok"},
		NormalizePreferences([]string{"<script>", "a\tb", "line\nbreak", "ok"}))
}

func TestNormalizePreferencesDropsOverlongEntries(t *testing.T) {
	long := strings.Repeat("x", MaxPreferenceLength+1)
	exact := strings.Repeat("y", MaxPreferenceLength)
	assert.Equal(t, []string{exact}, NormalizePreferences([]string{long, exact}))
}

func TestNormalizePreferencesCapsCount(t *testing.T) {
	raw := make([]string, 0, MaxPreferenceCount+10)
	for i := 0; i < MaxPreferenceCount+10; i++ {
		raw = append(raw, fmt.Sprintf("topic-%d", i))
	}
	got := NormalizePreferences(raw)
	assert.Len(t, got, MaxPreferenceCount)
	assert.Equal(t, "topic-0", got[0])
}

func TestNormalizePreferencesIsIdempotent(t *testing.T) {
	raw := []string{"  Tech  ", "TECH", "movies", "a<b", "sports"}
	once := NormalizePreferences(raw)
	assert.Equal(t, once, NormalizePreferences(once))
}

func TestNormalizeRawPreferences(t *testing.T) {
	assert.Equal(t,
		[]string{"movies", "123"},
		NormalizeRawPreferences([]interface{}{"Movies", float64(123), nil, true, map[string]interface{}{}}))

	assert.Equal(t, []string{}, NormalizeRawPreferences(nil))
	assert.Equal(t, []string{}, NormalizeRawPreferences("not an array"))
}
