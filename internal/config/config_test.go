package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Mode != ModeHierarchical {
		t.Errorf("expected default mode %q, got %q", ModeHierarchical, cfg.Mode)
	}
	if cfg.OutputDir != "export" {
		t.Errorf("expected default output_dir %q, got %q", "export", cfg.OutputDir)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "**/*.svg" {
		t.Errorf("unexpected default include %v", cfg.Include)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bpmnav.yml")

	original := DefaultConfig()
	original.ProjectName = "Order Handling"
	original.Mode = ModeFlat
	original.Input = "diagrams.yml"
	original.Include = []string{"**/*.svg", "extra/*.svg"}
	original.OutputDir = "out"
	original.Port = 9000
	original.OpenBrowser = false

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.ProjectName != original.ProjectName {
		t.Errorf("project_name: got %q, want %q", loaded.ProjectName, original.ProjectName)
	}
	if loaded.Mode != original.Mode {
		t.Errorf("mode: got %q, want %q", loaded.Mode, original.Mode)
	}
	if loaded.Input != original.Input {
		t.Errorf("input: got %q, want %q", loaded.Input, original.Input)
	}
	if loaded.OutputDir != original.OutputDir {
		t.Errorf("output_dir: got %q, want %q", loaded.OutputDir, original.OutputDir)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.OpenBrowser {
		t.Error("open_browser: got true, want false")
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Mode != ModeHierarchical {
		t.Errorf("expected default mode, got %q", cfg.Mode)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("mode: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("BPMNAV_MODE", "flat")
	t.Setenv("BPMNAV_PORT", "9191")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Mode != ModeFlat {
		t.Errorf("env override failed: got %q, want %q", loaded.Mode, ModeFlat)
	}
	if loaded.Port != 9191 {
		t.Errorf("env override failed: got port %d, want 9191", loaded.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"flat mode", func(c *Config) { c.Mode = ModeFlat }, false},
		{"unknown mode", func(c *Config) { c.Mode = "tree" }, true},
		{"empty input", func(c *Config) { c.Input = "" }, true},
		{"empty output_dir", func(c *Config) { c.OutputDir = "" }, true},
		{"output_file with directory", func(c *Config) { c.OutputFile = "a/b.html" }, true},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	if got, want := cfg.OutputPath(), filepath.Join("export", "process-navigator.html"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}

	cfg.ProjectName = "Order Handling"
	if got, want := cfg.OutputPath(), filepath.Join("export", "order-handling-navigator.html"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}

	cfg.OutputFile = "index.html"
	if got, want := cfg.OutputPath(), filepath.Join("export", "index.html"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" a/** , ,b.svg,")
	if len(got) != 2 || got[0] != "a/**" || got[1] != "b.svg" {
		t.Errorf("splitAndTrim = %v", got)
	}
}
