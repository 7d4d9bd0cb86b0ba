package cleaner

import (
	"regexp"

	"github.com/kyokomi/emoji/v2"
)

var shortcodePattern = regexp.MustCompile(`:[a-zA-Z0-9_+\-]+:`)

// stripShortcodes removes :alias: shortcodes that name a known emoji. Other
// colon-delimited words (times, ratios, "note:x:") are left alone.
func stripShortcodes(s string) (string, int) {
	if len(s) < 3 {
		return s, 0
	}
	codes := emoji.CodeMap()
	removed := 0
	out := shortcodePattern.ReplaceAllStringFunc(s, func(alias string) string {
		if _, ok := codes[alias]; ok {
			removed++
			return ""
		}
		return alias
	})
	if removed == 0 {
		return s, 0
	}
	return out, removed
}
