package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 500
	cfg.Suite = &Suite{URL: "https://example.com/suite.git", Ref: "v1", Dir: "suite"}

	if err := WriteConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if repr.String(got) != repr.String(cfg) {
		t.Fatalf("got %s\nwant %s", repr.String(got), repr.String(cfg))
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
	if err != nil || repr.String(cfg) != repr.String(DefaultConfig()) {
		t.Fatalf("absent file: %s, %v", repr.String(cfg), err)
	}

	partial := filepath.Join(dir, "partial.yaml")
	os.WriteFile(partial, []byte("verbose: false\nsuite:\n  url: ../suite\n"), 0o644)
	cfg, err = LoadConfig(partial)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Verbose || cfg.Tests != "tests" || cfg.Suite == nil || cfg.Suite.Dir != "tests" {
		t.Fatalf("partial file: %s", repr.String(cfg))
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	os.WriteFile(unknown, []byte("tests: t\ncolour: blue\n"), 0o644)
	if _, err := LoadConfig(unknown); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("unknown key: %v", err)
	}

	negative := filepath.Join(dir, "negative.yaml")
	os.WriteFile(negative, []byte("max_call_depth: -1\n"), 0o644)
	if _, err := LoadConfig(negative); err == nil {
		t.Fatal("negative depth accepted")
	}
}
