package diagram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/bpmnav/internal/errs"
)

const subprocessSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <g data-element-id="Task_1"><rect width="100" height="80"/></g>
  <g data-element-id="SubProcess_Payment">
    <rect class="hit" width="100" height="80"/>
    <g class="djs-visual">
      <rect width="100" height="80"/>
      <rect width="14" height="14"/>
      <path data-marker="sub-process" d="M0 0"/>
    </g>
  </g>
  <g>
    <path data-marker="sub-process" d="M1 1"/>
  </g>
</svg>`

func TestNewStore(t *testing.T) {
	store, err := NewStore([]Record{
		{Title: "Main", Filename: "main.svg", Content: "<svg/>"},
		{Title: "Sub", Filename: "sub.svg", Content: "<svg/>"},
	}, Metadata{ProjectName: "Orders"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}
	for i := 0; i < store.Count(); i++ {
		e, err := store.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if e.Index != i {
			t.Errorf("entry %d has Index %d", i, e.Index)
		}
	}
	meta := store.Metadata()
	if meta.TotalProcesses != 2 {
		t.Errorf("TotalProcesses = %d, want 2", meta.TotalProcesses)
	}
	if meta.ExportedAt.IsZero() {
		t.Error("ExportedAt should default to now")
	}
}

func TestNewStoreEmpty(t *testing.T) {
	if _, err := NewStore(nil, Metadata{}); !errs.Is(err, errs.ErrCodeInvalidManifest) {
		t.Errorf("NewStore(nil) error = %v, want INVALID_MANIFEST", err)
	}
}

func TestStoreGetOutOfRange(t *testing.T) {
	store, _ := NewStore([]Record{{Title: "Main"}}, Metadata{})
	for _, idx := range []int{-1, 1, 42} {
		if _, err := store.Get(idx); !errs.Is(err, errs.ErrCodeOutOfRange) {
			t.Errorf("Get(%d) error = %v, want OUT_OF_RANGE", idx, err)
		}
	}
}

func TestStoreEntriesIsCopy(t *testing.T) {
	store, _ := NewStore([]Record{{Title: "Main"}}, Metadata{})
	entries := store.Entries()
	entries[0].Title = "changed"
	if e, _ := store.Get(0); e.Title != "Main" {
		t.Errorf("store mutated through Entries(): title = %q", e.Title)
	}
}

func TestScanShapes(t *testing.T) {
	shapes, err := ScanShapes(subprocessSVG)
	if err != nil {
		t.Fatalf("ScanShapes: %v", err)
	}

	// Two markers, then the non-first rect of the first marker's group.
	if len(shapes) != 3 {
		t.Fatalf("got %d shapes, want 3: %+v", len(shapes), shapes)
	}
	if !shapes[0].Marker || shapes[0].ID != "SubProcess_Payment" {
		t.Errorf("shape 0 = %+v, want marker inside SubProcess_Payment", shapes[0])
	}
	if !shapes[1].Marker || shapes[1].ID != "" {
		t.Errorf("shape 1 = %+v, want marker without identifier", shapes[1])
	}
	if s := shapes[2]; s.Marker || s.Tag != "rect" || s.ID != "SubProcess_Payment" {
		t.Errorf("rect shape = %+v, want rect resolved to SubProcess_Payment", s)
	}

	ids := ShapeIDs(shapes)
	if len(ids) != 2 || ids[0] != "SubProcess_Payment" || ids[1] != "" {
		t.Errorf("ShapeIDs = %q", ids)
	}
}

func TestScanShapesNone(t *testing.T) {
	shapes, err := ScanShapes(`<svg><g data-element-id="Task_1"><rect/><rect/></g></svg>`)
	if err != nil {
		t.Fatalf("ScanShapes: %v", err)
	}
	if len(shapes) != 0 {
		t.Errorf("expected no shapes, got %+v", shapes)
	}
}

func TestScanShapesInvalidMarkup(t *testing.T) {
	if _, err := ScanShapes("not markup at all"); !errs.Is(err, errs.ErrCodeRenderFailure) {
		t.Errorf("ScanShapes error = %v, want RENDER_FAILURE", err)
	}
}

func TestCheckSelfContained(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", subprocessSVG, false},
		{"fragment href", `<svg xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="#marker"/></svg>`, false},
		{"data uri", `<svg><image href="data:image/png;base64,AAAA"/></svg>`, false},
		{"remote image", `<svg><image href="https://example.com/a.png"/></svg>`, true},
		{"remote xlink", `<svg xmlns:xlink="http://www.w3.org/1999/xlink"><image xlink:href="logo.png"/></svg>`, true},
		{"style url", `<svg><rect style="fill: url('http://x/y.svg#p')"/></svg>`, true},
		{"unparseable", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSelfContained(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckSelfContained() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.svg"), "<svg/>")
	mustWrite(t, filepath.Join(dir, "sub", "payment_flow.svg"), subprocessSVG)
	mustWrite(t, filepath.Join(dir, "export.yml"), `project: Orders
description: Orders from intake to invoice.
diagrams:
  - title: Main Process
    svg: main.svg
  - svg: sub/payment_flow.svg
`)

	m, records, err := LoadManifest(filepath.Join(dir, "export.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Project != "Orders" {
		t.Errorf("Project = %q", m.Project)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Title != "Payment Flow" {
		t.Errorf("default title = %q, want %q", records[1].Title, "Payment Flow")
	}
	if records[1].Filename != "payment_flow.svg" {
		t.Errorf("default filename = %q", records[1].Filename)
	}
	if records[1].Content != subprocessSVG {
		t.Error("content was not inlined")
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yml")
	mustWrite(t, empty, "project: x\n")
	if _, _, err := LoadManifest(empty); !errs.Is(err, errs.ErrCodeInvalidManifest) {
		t.Errorf("empty manifest error = %v, want INVALID_MANIFEST", err)
	}

	missing := filepath.Join(dir, "missing.yml")
	mustWrite(t, missing, "diagrams:\n  - svg: nope.svg\n")
	if _, _, err := LoadManifest(missing); err == nil {
		t.Error("expected error for missing svg file")
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "approval.svg"), "<svg/>")
	mustWrite(t, filepath.Join(dir, "main.svg"), "<svg/>")
	mustWrite(t, filepath.Join(dir, "shipping.svg"), "<svg/>")

	records, err := Collect(dir, CollectOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"main.svg", "approval.svg", "shipping.svg"}
	for i, w := range want {
		if records[i].Filename != w {
			t.Errorf("record %d = %q, want %q", i, records[i].Filename, w)
		}
	}
	if records[0].Title != "Main Process" {
		t.Errorf("main title = %q", records[0].Title)
	}

	if _, err := Collect(dir, CollectOptions{Main: "nope.svg"}); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Collect with unknown main error = %v, want NOT_FOUND", err)
	}
}

func TestHumanizeAndSlug(t *testing.T) {
	if got := Humanize("order_sub-process"); got != "Order Sub Process" {
		t.Errorf("Humanize = %q", got)
	}
	if got := Slug("Order Sub-Process (v2)"); got != "order-sub-process-v2" {
		t.Errorf("Slug = %q", got)
	}
	if got := Slug("???"); got != "diagram" {
		t.Errorf("Slug(???) = %q", got)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
