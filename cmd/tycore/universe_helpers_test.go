package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tycore/internal/diag"
)

func TestResolveManifestPathExplicitWins(t *testing.T) {
	got, err := resolveManifestPath([]string{"some/where/tycore.toml"})
	if err != nil {
		t.Fatalf("resolveManifestPath: %v", err)
	}
	if got != "some/where/tycore.toml" {
		t.Fatalf("path = %q", got)
	}
}

func TestLoadUniverseFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tycore.toml")
	manifest := "[universe]\nname = \"demo\"\n\n[[module]]\nname = \"m\"\n\n[[module.class]]\nname = \"Box\"\nparams = [\"T\"]\n"
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := loadUniverse([]string{path})
	if err != nil {
		t.Fatalf("loadUniverse: %v", err)
	}
	if loaded.Name != "demo" || loaded.Path != path {
		t.Fatalf("loaded = %+v", loaded)
	}
	if _, ok := loaded.Universe.LookupModule("m"); !ok {
		t.Fatalf("module m missing from built universe")
	}
}

func TestLoadUniverseBadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tycore.toml")
	if err := os.WriteFile(path, []byte("not toml at all ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loadUniverse([]string{path}); err == nil {
		t.Fatalf("loadUniverse accepted a broken manifest")
	}
}

func TestTruncateBag(t *testing.T) {
	bag := diag.NewBag(32)
	for i := 0; i < 10; i++ {
		bag.Add(diag.NewError(diag.RefUnresolvable, "s", strings.Repeat("x", i+1)))
	}
	out := truncateBag(bag, 3)
	if out.Len() != 3 {
		t.Fatalf("Len = %d, want 3", out.Len())
	}
	if full := truncateBag(bag, 100); full != bag {
		t.Fatalf("truncateBag copied a bag under the limit")
	}
}
