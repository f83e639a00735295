// Package index assembles and writes the final search-index artifact.
//
// The artifact is a single JavaScript file with three declarations, in order:
//
//	var N=null;
//	var mapping={...};    // substitution dictionary, word -> key
//	var crateIndex={...}; // minified crate name -> [description|N, version]
//
// Both object literals are JSON produced by encoding/json, which sorts map
// keys, so the artifact is byte-identical across runs over the same input.
package index

import (
	"encoding/json"
	"os"

	"github.com/searchdex/crateindex/pkg/crate"
	"github.com/searchdex/crateindex/pkg/errors"
	"github.com/searchdex/crateindex/pkg/minify"
)

// DefaultOutputPath is where the consuming extension expects the index.
const DefaultOutputPath = "../extension/index/crates.js"

// Minifier is the substitution capability the serializer consumes. The
// concrete implementation lives in pkg/minify; tests inject minify.Nop.
type Minifier interface {
	Mapping() map[string]string
	MinifyCrateID(name string) string
	Minify(text string) string
}

// Entry is one index value: [description|null, version].
type Entry struct {
	Description *string
	Version     string
}

// MarshalJSON renders the entry as a two-element array.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Description, e.Version})
}

// Build maps each ranked crate to its index entry, keyed by minified name.
// Every crate appears exactly once; descriptions are minified, absent
// descriptions become null.
func Build(crates []*crate.Crate, m Minifier) map[string]Entry {
	idx := make(map[string]Entry, len(crates))
	for _, c := range crates {
		entry := Entry{Version: c.Version.String()}
		if c.Description != "" {
			minified := m.Minify(c.Description)
			entry.Description = &minified
		}
		idx[m.MinifyCrateID(c.Name)] = entry
	}
	return idx
}

// Render serializes the dictionary and the index into the final artifact
// text. Both literals go through the whitespace-stripping JSON pass, which
// also rewrites null to the N alias declared by the preamble.
func Render(idx map[string]Entry, mapping map[string]string) (string, error) {
	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal mapping")
	}
	indexJSON, err := json.Marshal(idx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal crate index")
	}

	contents := "var N=null;"
	contents += "var mapping=" + minify.JSON(string(mappingJSON)) + ";"
	contents += "var crateIndex=" + minify.JSON(string(indexJSON)) + ";"
	return contents, nil
}

// Write stores the artifact at path.
func Write(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
