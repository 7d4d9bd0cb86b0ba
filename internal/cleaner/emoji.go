package cleaner

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// Matcher recognises emoji sequences.
type Matcher interface {
	// Match returns the byte length of the emoji sequence at the start of s,
	// or 0 when s does not start with one.
	Match(s string) int
}

// GomojiMatcher looks up whole grapheme clusters in the gomoji data set, so
// skin tones, ZWJ families, flags and keycaps match as one sequence.
type GomojiMatcher struct{}

const variationSelector16 = "\uFE0F"

// Match implements Matcher.
func (GomojiMatcher) Match(s string) int {
	if s == "" {
		return 0
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if isEmoji(cluster) {
		return len(cluster)
	}
	return 0
}

func isEmoji(cluster string) bool {
	if len(cluster) == 1 {
		return false
	}
	if _, err := gomoji.GetInfo(cluster); err == nil {
		return true
	}
	// The data set is keyed by fully-qualified sequences; text typed on some
	// platforms drops or adds VS16.
	if strings.Contains(cluster, variationSelector16) {
		_, err := gomoji.GetInfo(strings.ReplaceAll(cluster, variationSelector16, ""))
		return err == nil
	}
	_, err := gomoji.GetInfo(cluster + variationSelector16)
	return err == nil
}

// stripEmoji removes every emoji sequence m recognises and reports how many
// were removed. Passes repeat until nothing matches, so text joined by a
// removal cannot form a new sequence and the result is a fixed point.
func stripEmoji(s string, m Matcher) (string, int) {
	total := 0
	for {
		out, n := stripOnce(s, m)
		if n == 0 {
			return s, total
		}
		total += n
		s = out
	}
}

func stripOnce(s string, m Matcher) (string, int) {
	var b strings.Builder
	removed, flushed, pos := 0, 0, 0
	state := -1
	for pos < len(s) {
		rest := s[pos:]
		if n := m.Match(rest); n > 0 {
			if removed == 0 {
				b.Grow(len(s))
			}
			b.WriteString(s[flushed:pos])
			pos += n
			flushed = pos
			removed++
			state = -1
			continue
		}
		cluster, _, _, next := uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "" {
			break
		}
		pos += len(cluster)
		state = next
	}
	if removed == 0 {
		return s, 0
	}
	b.WriteString(s[flushed:])
	return b.String(), removed
}
