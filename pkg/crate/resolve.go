package crate

import "sort"

// ResolveLatest builds a lookup from crate id to the highest published
// version in the table. Version records are sorted descending by semver
// precedence (pre-release and build-metadata rules included) and only the
// first record per crate id is retained, so the result holds at most one
// version per crate.
func ResolveLatest(versions []Version) map[uint64]*Version {
	sorted := make([]Version, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Num.GreaterThan(sorted[j].Num)
	})

	latest := make(map[uint64]*Version, len(sorted))
	for i := range sorted {
		v := &sorted[i]
		if _, ok := latest[v.CrateID]; ok {
			continue
		}
		latest[v.CrateID] = v
	}
	return latest
}

// Apply overwrites each crate's Version with its resolved latest version.
// Crates with no entry in latest keep the sentinel 0.0.0.
func Apply(crates []*Crate, latest map[uint64]*Version) {
	for _, c := range crates {
		if v, ok := latest[c.ID]; ok {
			c.Version = v.Num
		}
	}
}
