// Package minify implements the frequency-dictionary compression applied to
// the search index.
//
// The minifier is built from the token corpus of one pipeline run. Words are
// ranked by how often they occur across the corpus; the most frequent words
// are assigned two-byte substitute keys ("$" plus one character). Applying
// the substitutions to crate names and descriptions derived from the same
// corpus shrinks the index payload, and the dictionary shipped alongside the
// index lets the consumer reverse them.
//
// Substitution is exact and word-bounded: a word is only ever replaced as a
// whole token, and every substituted value is a key recorded in the
// dictionary, so decoding is lossless.
package minify

import "sort"

// keyChars is the pool of substitute key suffixes, in assignment order.
// 62 slots: the most frequent word gets "$0", the next "$1", and so on.
const keyChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// keyPrefix marks substitute keys. "$" does not occur in crate names and is
// rare enough in descriptions that the two-byte keys pay for themselves.
const keyPrefix = '$'

// minWordLen is the shortest word worth a dictionary slot. A two-byte key
// only saves space on words of four bytes or more.
const minWordLen = 4

// Minifier holds the substitution dictionary for one corpus.
type Minifier struct {
	mapping map[string]string // word -> substitute key
}

// New builds a minifier from the token corpus.
//
// Every corpus entry is split into lowercase words; words of at least four
// bytes are ranked by frequency (ties broken lexicographically) and the top
// 62 are assigned keys in rank order. The ranking is fully deterministic for
// a given corpus.
func New(words []string) *Minifier {
	freq := make(map[string]int)
	for _, entry := range words {
		for _, w := range splitWords(entry) {
			if len(w) >= minWordLen {
				freq[w]++
			}
		}
	}

	ranked := make([]string, 0, len(freq))
	for w := range freq {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if freq[ranked[i]] != freq[ranked[j]] {
			return freq[ranked[i]] > freq[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > len(keyChars) {
		ranked = ranked[:len(keyChars)]
	}

	mapping := make(map[string]string, len(ranked))
	for i, w := range ranked {
		mapping[w] = string([]byte{keyPrefix, keyChars[i]})
	}
	return &Minifier{mapping: mapping}
}

// Mapping returns the dictionary as word -> substitute key.
// The returned map is owned by the minifier.
func (m *Minifier) Mapping() map[string]string {
	return m.mapping
}

// MinifyCrateID applies substitutions to the sub-tokens of a crate name.
// Hyphen and underscore separators are preserved; each piece between them is
// replaced only on an exact dictionary match.
func (m *Minifier) MinifyCrateID(name string) string {
	out := make([]byte, 0, len(name))
	start := 0
	for i := 0; i <= len(name); i++ {
		if i < len(name) && name[i] != '-' && name[i] != '_' {
			continue
		}
		out = m.appendToken(out, name[start:i])
		if i < len(name) {
			out = append(out, name[i])
		}
		start = i + 1
	}
	return string(out)
}

// Minify applies substitutions to free text, replacing whole words only.
func (m *Minifier) Minify(text string) string {
	out := make([]byte, 0, len(text))
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && isWordByte(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = m.appendToken(out, text[start:i])
			start = -1
		}
		if i < len(text) {
			out = append(out, text[i])
		}
	}
	return string(out)
}

func (m *Minifier) appendToken(out []byte, token string) []byte {
	if key, ok := m.mapping[token]; ok {
		return append(out, key...)
	}
	return append(out, token...)
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 'A' && b <= 'Z'
}

// splitWords splits a corpus entry into its lowercase word runs.
// Uppercase runs are folded so "JSON parser" and "json parser" count as the
// same word for frequency purposes.
func splitWords(s string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && isWordByte(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, toLower(s[start:i]))
			start = -1
		}
	}
	return words
}

func toLower(s string) string {
	lower := []byte(s)
	changed := false
	for i, b := range lower {
		if b >= 'A' && b <= 'Z' {
			lower[i] = b + 'a' - 'A'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(lower)
}
