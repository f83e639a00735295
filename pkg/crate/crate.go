// Package crate holds the crates.io data model and the ranked-index
// preparation steps: loading the CSV dumps, ranking by downloads, and
// resolving each crate's latest published version.
package crate

import (
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/tabular"
)

// Crate is one row of the crates table.
//
// Version starts at the sentinel 0.0.0 and is overwritten in place by
// ResolveLatest/Apply; crates with no published version keep the sentinel.
// An empty Description means the crate has none.
type Crate struct {
	ID          uint64
	Name        string
	Downloads   uint64
	Description string
	Version     *semver.Version
}

// Version is one row of the versions table. The table is much larger than
// the crates table: every crate appears once per published release.
type Version struct {
	CrateID uint64
	Num     *semver.Version
}

// SentinelVersion returns the placeholder version assigned to crates with no
// resolved version record.
func SentinelVersion() *semver.Version {
	return semver.MustParse("0.0.0")
}

// LoadCrates reads the crates table. Row order is preserved.
// IDs are unique in the dump; duplicates are a malformed input.
func LoadCrates(path string) ([]*Crate, error) {
	var crates []*Crate
	seen := make(map[uint64]struct{})

	err := tabular.ReadFile(path, func(row *tabular.Row) error {
		id, err := fieldUint(row, "id")
		if err != nil {
			return err
		}
		name, err := row.Field("name")
		if err != nil {
			return err
		}
		downloads, err := fieldUint(row, "downloads")
		if err != nil {
			return err
		}
		description, err := row.Field("description")
		if err != nil {
			return err
		}

		if _, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeMalformedRecord, "%s: line %d: duplicate crate id %d", path, row.Line, id)
		}
		seen[id] = struct{}{}

		crates = append(crates, &Crate{
			ID:          id,
			Name:        name,
			Downloads:   downloads,
			Description: description,
			Version:     SentinelVersion(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return crates, nil
}

// LoadVersions reads the versions table. Row order is preserved.
func LoadVersions(path string) ([]Version, error) {
	var versions []Version

	err := tabular.ReadFile(path, func(row *tabular.Row) error {
		crateID, err := fieldUint(row, "crate_id")
		if err != nil {
			return err
		}
		num, err := row.Field("num")
		if err != nil {
			return err
		}
		v, err := semver.NewVersion(num)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMalformedRecord, err, "%s: line %d: version %q", path, row.Line, num)
		}

		versions = append(versions, Version{CrateID: crateID, Num: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func fieldUint(row *tabular.Row, name string) (uint64, error) {
	s, err := row.Field(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeMalformedRecord, err, "line %d: column %q: %q", row.Line, name, s)
	}
	return n, nil
}
