package crate

import (
	"sort"

	"github.com/searchdex/crateindex/pkg/errors"
)

// Rank sorts crates descending by download count and truncates to the top
// max+1 entries. The inclusive bound is deliberate: the consuming extension's
// size constants assume max+1 survivors, so this is the contract rather than
// an off-by-one.
//
// The sort is stable: crates with equal downloads keep their input order,
// which keeps the output deterministic for a given dump.
//
// Returns an INSUFFICIENT_POPULATION error when fewer than max+1 crates were
// loaded. Callers treat this as a fatal precondition violation; the
// population is never silently clamped.
func Rank(crates []*Crate, max int) ([]*Crate, error) {
	if len(crates) < max+1 {
		return nil, errors.New(errors.ErrCodeInsufficientPopulation,
			"need at least %d crates, got %d", max+1, len(crates))
	}

	ranked := make([]*Crate, len(crates))
	copy(ranked, crates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Downloads > ranked[j].Downloads
	})

	return ranked[:max+1], nil
}
