package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// markupStripper drops HTML tags from cell text and returns plain text.
type markupStripper struct {
	policy *bluemonday.Policy
}

func newMarkupStripper() *markupStripper {
	return &markupStripper{policy: bluemonday.StrictPolicy()}
}

func (m *markupStripper) strip(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	// StrictPolicy escapes what it keeps; cells hold text, not HTML.
	return html.UnescapeString(m.policy.Sanitize(s))
}
