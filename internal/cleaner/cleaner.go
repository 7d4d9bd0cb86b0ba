// Package cleaner removes emoji from table cells.
package cleaner

import (
	"github.com/haytac/emoji-scrub/internal/table"
)

// Options enables the passes that run before emoji removal.
type Options struct {
	StripShortcodes bool `mapstructure:"strip_shortcodes"`
	StripMarkup     bool `mapstructure:"strip_markup"`
}

// Stats summarises one pass over a table.
type Stats struct {
	Cells        int
	TextCells    int
	ChangedCells int
	EmojiRemoved int
}

// Cleaner is safe for concurrent use once built.
type Cleaner struct {
	matcher Matcher
	opts    Options
	markup  *markupStripper
}

// New creates a Cleaner. A nil matcher means GomojiMatcher.
func New(m Matcher, opts Options) *Cleaner {
	if m == nil {
		m = GomojiMatcher{}
	}
	c := &Cleaner{matcher: m, opts: opts}
	if opts.StripMarkup {
		c.markup = newMarkupStripper()
	}
	return c
}

// Clean returns s without emoji and the number of sequences removed.
// When nothing is removed the original string is returned.
func (c *Cleaner) Clean(s string) (string, int) {
	if s == "" {
		return s, 0
	}
	removed := 0
	if c.markup != nil {
		s = c.markup.strip(s)
	}
	if c.opts.StripShortcodes {
		var n int
		s, n = stripShortcodes(s)
		removed += n
	}
	s, n := stripEmoji(s, c.matcher)
	return s, removed + n
}

// Transform returns non-text cells unchanged and text cells with their
// emoji removed.
func (c *Cleaner) Transform(cell table.Cell) table.Cell {
	out, _ := c.transform(cell)
	return out
}

func (c *Cleaner) transform(cell table.Cell) (table.Cell, int) {
	if !cell.IsText() {
		return cell, 0
	}
	s, n := c.Clean(cell.Str)
	return table.TextCell(s), n
}

// Table maps Transform over every cell of t.
func (c *Cleaner) Table(t *table.Table) (*table.Table, Stats) {
	var st Stats
	out := t.Map(func(cell table.Cell) table.Cell {
		st.Cells++
		if !cell.IsText() {
			return cell
		}
		st.TextCells++
		cleaned, n := c.transform(cell)
		if cleaned.Str != cell.Str {
			st.ChangedCells++
		}
		st.EmojiRemoved += n
		return cleaned
	})
	return out, st
}
