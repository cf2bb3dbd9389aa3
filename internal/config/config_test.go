package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.ProtectDirs) != 0 || len(c.ProtectExts) != 0 || c.ScanDepth != nil {
		t.Fatalf("missing file should yield an empty config: %+v", c)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	depth := 6
	verbose := true
	in := &Config{
		ProtectDirs: []string{"mods_settings", "profiles"},
		ProtectExts: []string{"prof"},
		ScanDepth:   &depth,
		Verbose:     &verbose,
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.ProtectDirs) != 2 || out.ProtectDirs[0] != "mods_settings" {
		t.Fatalf("ProtectDirs = %v", out.ProtectDirs)
	}
	if len(out.ProtectExts) != 1 || out.ProtectExts[0] != "prof" {
		t.Fatalf("ProtectExts = %v", out.ProtectExts)
	}
	if out.ScanDepth == nil || *out.ScanDepth != 6 {
		t.Fatalf("ScanDepth = %v", out.ScanDepth)
	}
	if out.Verbose == nil || !*out.Verbose {
		t.Fatalf("Verbose = %v", out.Verbose)
	}
	if out.LogFile != nil {
		t.Fatalf("LogFile should stay unset")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir := filepath.Join(base, "saveguard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("protect-dirs = not-toml"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatalf("malformed config should error")
	}
}
