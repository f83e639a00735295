// Package corpus extracts the token corpus fed to the minifier.
//
// The corpus is an ordered sequence of strings: for every ranked crate, the
// normalized sub-tokens of its name, then (when present) its truncated
// description. The minifier derives its substitution dictionary from exactly
// this sequence, so corpus order must match the order in which the serializer
// later encodes values.
package corpus

import (
	"strings"
	"unicode/utf8"
)

// minTokenLen is the shortest crate-name piece worth a dictionary slot.
const minTokenLen = 3

// maxDescriptionLen caps description entries, in bytes.
const maxDescriptionLen = 100

// Collector accumulates corpus entries in processing order.
type Collector struct {
	words []string
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{}
}

// Words returns the collected corpus in insertion order.
// The returned slice is owned by the collector.
func (c *Collector) Words() []string {
	return c.words
}

// CollectCrateID appends the normalized sub-tokens of a crate name.
// Hyphen and underscore are equivalent separators; pieces are lowercased and
// pieces shorter than three bytes are dropped. A name may contribute nothing.
func (c *Collector) CollectCrateID(name string) {
	id := strings.ReplaceAll(name, "-", "_")
	for _, word := range strings.Split(strings.ToLower(id), "_") {
		if len(word) >= minTokenLen {
			c.words = append(c.words, word)
		}
	}
}

// CollectDescription appends a crate description, trimmed and truncated to at
// most 100 bytes. Truncation backs up to a rune boundary so a multi-byte
// character is never split.
func (c *Collector) CollectDescription(text string) {
	c.words = append(c.words, TruncateDescription(text))
}

// TruncateDescription trims surrounding whitespace and cuts the text to at
// most 100 bytes on a rune boundary.
func TruncateDescription(text string) string {
	s := strings.TrimSpace(text)
	if len(s) <= maxDescriptionLen {
		return s
	}
	cut := maxDescriptionLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
