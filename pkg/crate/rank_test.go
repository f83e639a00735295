package crate

import (
	"testing"

	"github.com/searchdex/crateindex/pkg/errors"
)

func testCrate(id uint64, name string, downloads uint64) *Crate {
	return &Crate{ID: id, Name: name, Downloads: downloads, Version: SentinelVersion()}
}

func TestRankOrderAndTruncation(t *testing.T) {
	crates := []*Crate{
		testCrate(1, "mid", 500),
		testCrate(2, "low", 10),
		testCrate(3, "top", 9999),
	}

	ranked, err := Rank(crates, 1)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}

	// max=1 keeps max+1 = 2 crates
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].Name != "top" || ranked[1].Name != "mid" {
		t.Errorf("order = [%s, %s], want [top, mid]", ranked[0].Name, ranked[1].Name)
	}
	for _, c := range ranked {
		if c.Name == "low" {
			t.Error("10-download crate should be excluded")
		}
	}
}

func TestRankStableTies(t *testing.T) {
	crates := []*Crate{
		testCrate(1, "first", 100),
		testCrate(2, "second", 100),
		testCrate(3, "third", 100),
	}

	ranked, err := Rank(crates, 2)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	// Equal downloads keep input order (stable sort is part of the contract).
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Name, name)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	crates := []*Crate{
		testCrate(1, "a", 1),
		testCrate(2, "b", 2),
	}

	if _, err := Rank(crates, 1); err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if crates[0].Name != "a" || crates[1].Name != "b" {
		t.Error("Rank should not reorder the input slice")
	}
}

func TestRankInsufficientPopulation(t *testing.T) {
	crates := []*Crate{testCrate(1, "only", 1)}

	_, err := Rank(crates, 1) // needs 2
	if !errors.Is(err, errors.ErrCodeInsufficientPopulation) {
		t.Errorf("err = %v, want INSUFFICIENT_POPULATION", err)
	}
}
