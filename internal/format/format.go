// Package format holds small pure helpers shared by the page view-models.
package format

import (
	"encoding/json"
	"strings"
	"time"
)

// ParseJSONField normalizes list fields that the API sometimes returns as
// JSON-encoded strings instead of arrays. The raw value is decoded into out;
// an unparseable string leaves out untouched so callers fall back to empty.
func ParseJSONField(raw json.RawMessage, out any) {
	if len(raw) == 0 {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// Double-encoded: the payload is a string holding JSON.
		_ = json.Unmarshal([]byte(s), out)
		return
	}
	_ = json.Unmarshal(raw, out)
}

// Date renders a timestamp like "September 28, 2025". The zero time renders
// as "N/A".
func Date(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006")
}

// ClockTime renders the hour-and-minute stamp shown next to chat bubbles.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

// Truncate shortens text to at most max runes, appending an ellipsis when it
// had to cut.
func Truncate(text string, max int) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Initials derives the avatar fallback from a display name: the upper-cased
// first rune of each word.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}
