package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testCrates = `id,name,downloads,description
1,serde,900,A serialization framework
2,tokio,800,An async runtime
3,rand,700,Random number generators
`

const testVersions = `crate_id,num
1,1.0.219
2,1.40.0
`

func writeDump(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "crates.csv"), []byte(testCrates), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "versions.csv"), []byte(testVersions), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBuildCommand(t *testing.T) {
	dir := writeDump(t)
	output := filepath.Join(t.TempDir(), "crates.js")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build", dir, output, "--max-crates", "1", "--no-cache"})

	if err := root.Execute(); err != nil {
		t.Fatalf("build command failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	contents := string(data)
	if !strings.HasPrefix(contents, "var N=null;") {
		t.Errorf("artifact preamble missing: %q", contents)
	}
	if !strings.Contains(contents, "var crateIndex=") {
		t.Errorf("artifact missing crateIndex: %q", contents)
	}
}

func TestBuildCommandInsufficientPopulation(t *testing.T) {
	dir := writeDump(t)
	output := filepath.Join(t.TempDir(), "crates.js")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build", dir, output, "--max-crates", "100", "--no-cache"})

	if err := root.Execute(); err == nil {
		t.Error("expected error when the crate table is smaller than the cutoff")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("no artifact should be written on failure")
	}
}

func TestBuildCommandRequiresArgs(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build"})

	if err := root.Execute(); err == nil {
		t.Error("expected error for missing csv-dir argument")
	}
}
