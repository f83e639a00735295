package minify

import (
	"strings"
	"testing"
)

func TestNewRanksByFrequency(t *testing.T) {
	corpus := []string{
		"json", "json", "json",
		"parser", "parser",
		"async",
	}

	m := New(corpus)
	mapping := m.Mapping()

	if mapping["json"] != "$0" {
		t.Errorf("json = %q, want $0 (most frequent)", mapping["json"])
	}
	if mapping["parser"] != "$1" {
		t.Errorf("parser = %q, want $1", mapping["parser"])
	}
	if mapping["async"] != "$2" {
		t.Errorf("async = %q, want $2", mapping["async"])
	}
}

func TestNewTieBreaksLexicographically(t *testing.T) {
	m := New([]string{"zeta", "alpha"})
	mapping := m.Mapping()

	if mapping["alpha"] != "$0" || mapping["zeta"] != "$1" {
		t.Errorf("mapping = %v, want alpha=$0 zeta=$1", mapping)
	}
}

func TestNewSkipsShortWords(t *testing.T) {
	m := New([]string{"rt", "sys", "tokio"})

	mapping := m.Mapping()
	if _, ok := mapping["rt"]; ok {
		t.Error("2-byte word should not get a dictionary slot")
	}
	if _, ok := mapping["sys"]; ok {
		t.Error("3-byte word should not get a dictionary slot")
	}
	if _, ok := mapping["tokio"]; !ok {
		t.Error("4+ byte word should get a dictionary slot")
	}
}

func TestNewSplitsDescriptionEntries(t *testing.T) {
	// Description entries contribute their individual words.
	m := New([]string{"A fast JSON parser", "json tools"})

	mapping := m.Mapping()
	if _, ok := mapping["json"]; !ok {
		t.Errorf("json should be counted across entries, mapping = %v", mapping)
	}
	if mapping["json"] != "$0" {
		t.Errorf("json = %q, want $0 (two occurrences)", mapping["json"])
	}
}

func TestNewCapsDictionarySize(t *testing.T) {
	var corpus []string
	for i := 0; i < 100; i++ {
		corpus = append(corpus, strings.Repeat(string(rune('a'+i%26)), 4+i/26))
	}

	m := New(corpus)
	if len(m.Mapping()) > len(keyChars) {
		t.Errorf("dictionary = %d entries, want <= %d", len(m.Mapping()), len(keyChars))
	}
}

func TestNewDeterministic(t *testing.T) {
	corpus := []string{"serde", "json", "tokio", "async", "runtime", "serde"}

	m1 := New(corpus)
	m2 := New(corpus)

	if len(m1.Mapping()) != len(m2.Mapping()) {
		t.Fatal("dictionary sizes differ")
	}
	for word, key := range m1.Mapping() {
		if m2.Mapping()[word] != key {
			t.Errorf("%q = %q vs %q", word, key, m2.Mapping()[word])
		}
	}
}

func TestMinifyCrateID(t *testing.T) {
	m := New([]string{"serde", "serde", "json"})

	got := m.MinifyCrateID("serde_json")
	want := m.Mapping()["serde"] + "_" + m.Mapping()["json"]
	if got != want {
		t.Errorf("MinifyCrateID = %q, want %q", got, want)
	}
}

func TestMinifyCrateIDPreservesSeparators(t *testing.T) {
	m := New([]string{"serde", "serde"})

	got := m.MinifyCrateID("serde-json")
	if got != m.Mapping()["serde"]+"-json" {
		t.Errorf("MinifyCrateID = %q, separator should be preserved", got)
	}
}

func TestMinifyCrateIDUnknownTokens(t *testing.T) {
	m := New([]string{"serde"})

	if got := m.MinifyCrateID("tokio-util"); got != "tokio-util" {
		t.Errorf("MinifyCrateID = %q, want unchanged", got)
	}
}

func TestMinifyWholeWordsOnly(t *testing.T) {
	m := New([]string{"fast", "fast"})
	key := m.Mapping()["fast"]

	got := m.Minify("a fast and fastidious parser")
	want := "a " + key + " and fastidious parser"
	if got != want {
		t.Errorf("Minify = %q, want %q (no substring substitution)", got, want)
	}
}

func TestMinifyRoundTrip(t *testing.T) {
	corpus := []string{"serde", "json", "serialization", "framework",
		"A serialization framework for json"}
	m := New(corpus)

	text := "A serialization framework for json"
	minified := m.Minify(text)

	// Every substitution must be reversible via the dictionary.
	decoded := minified
	for word, key := range m.Mapping() {
		decoded = strings.ReplaceAll(decoded, key, word)
	}
	if decoded != text {
		t.Errorf("round trip = %q, want %q", decoded, text)
	}
}

func TestNopMinifier(t *testing.T) {
	m := Nop{}

	if got := m.MinifyCrateID("serde_json"); got != "serde_json" {
		t.Errorf("Nop.MinifyCrateID = %q", got)
	}
	if got := m.Minify("some text"); got != "some text" {
		t.Errorf("Nop.Minify = %q", got)
	}
	if len(m.Mapping()) != 0 {
		t.Error("Nop.Mapping should be empty")
	}
}
