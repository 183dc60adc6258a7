package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/bpmnav/internal/config"
	"github.com/ziadkadry99/bpmnav/internal/export"
)

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected default logger without one attached")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("attached logger not returned")
	}
	loggerFromContext(ctx).Debug("hello", "k", "v")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output = %q", buf.String())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStoreFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.svg"), "<svg/>")
	writeFile(t, filepath.Join(dir, "sub", "pay.svg"), "<svg><rect/></svg>")
	manifest := filepath.Join(dir, "diagrams.yml")
	writeFile(t, manifest, `project: Orders
description: From manifest.
diagrams:
  - title: Main Process
    svg: main.svg
  - title: Payment Subprocess
    svg: sub/pay.svg
`)

	cfg := config.DefaultConfig()
	cfg.Input = manifest
	cfg.Description = "From config."
	store, err := loadStore(cfg)
	if err != nil {
		t.Fatalf("loadStore: %v", err)
	}
	meta := store.Metadata()
	if meta.ProjectName != "Orders" || meta.Description != "From config." {
		t.Errorf("metadata = %+v", meta)
	}
	if store.Count() != 2 {
		t.Errorf("Count = %d", store.Count())
	}
}

func TestLoadStoreFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_subprocess.svg"), "<svg/>")
	writeFile(t, filepath.Join(dir, "main.svg"), "<svg/>")

	cfg := config.DefaultConfig()
	cfg.Input = dir
	store, err := loadStore(cfg)
	if err != nil {
		t.Fatalf("loadStore: %v", err)
	}
	first, _ := store.Get(0)
	if first.Title != "Main Process" {
		t.Errorf("entry 0 = %+v", first)
	}
}

func TestHistoryEntry(t *testing.T) {
	res := &export.Result{
		Path:  "out.html",
		Mode:  "flat",
		Bytes: 42,
		Diagrams: []export.DiagramReport{
			{Index: 0, Title: "Main", Shapes: 2},
			{Index: 1, Title: "Pay", Shapes: 1},
		},
	}
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.svg"), "<svg/>")
	writeFile(t, filepath.Join(dir, "pay.svg"), "<svg/>")
	cfg.Input = dir
	store, err := loadStore(cfg)
	if err != nil {
		t.Fatal(err)
	}

	h := historyEntry("Orders", res, store.Entries())
	if h.TotalProcesses != 2 || h.TotalShapes != 3 || h.Mode != "flat" || h.Bytes != 42 {
		t.Errorf("entry = %+v", h)
	}
	if h.Diagrams[1].Filename != "pay.svg" {
		t.Errorf("diagrams = %+v", h.Diagrams)
	}
}

func TestExportOptionsRejectsUnknownMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = "tree"
	if _, err := exportOptions(cfg); err == nil {
		t.Error("expected error")
	}
}
