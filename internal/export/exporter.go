package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/errs"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
	"github.com/ziadkadry99/bpmnav/internal/progress"
)

// DiagramReport describes one exported diagram.
type DiagramReport struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Shapes int    `json:"shapes"`
}

// Result summarizes a written document.
type Result struct {
	Path     string          `json:"path"`
	Mode     navigation.Mode `json:"mode"`
	Bytes    int             `json:"bytes"`
	Diagrams []DiagramReport `json:"diagrams"`
}

// Shapes returns the number of clickable sub-process shapes in the document.
func (r *Result) Shapes() int {
	n := 0
	for _, d := range r.Diagrams {
		n += d.Shapes
	}
	return n
}

// Exporter validates a store and writes its document.
type Exporter struct {
	Logger   *log.Logger
	Reporter progress.Reporter
}

// Export checks every diagram for external references, counts its
// clickable shapes and writes the document to path.
func (x *Exporter) Export(ctx context.Context, store *diagram.Store, path string, opts Options) (*Result, error) {
	logger := x.Logger
	if logger == nil {
		logger = log.Default()
	}
	rep := x.Reporter
	if rep == nil {
		rep = progress.Discard()
	}

	entries := store.Entries()
	res := &Result{Path: path, Mode: opts.Mode, Diagrams: make([]DiagramReport, 0, len(entries))}
	if res.Mode == "" {
		res.Mode = navigation.ModeHierarchical
	}

	rep.Start(len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep.Update(i+1, e.Title)

		if err := diagram.CheckSelfContained(e.Content); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidContent, err, "diagram %d (%s)", e.Index, e.Title)
		}
		shapes, err := diagram.ScanShapes(e.Content)
		if err != nil {
			return nil, fmt.Errorf("scanning diagram %d (%s): %w", e.Index, e.Title, err)
		}
		if e.Index > 0 && len(shapes) == 0 {
			logger.Debug("sub-process diagram has no nested sub-processes", "title", e.Title)
		}
		res.Diagrams = append(res.Diagrams, DiagramReport{Index: e.Index, Title: e.Title, Shapes: len(shapes)})
	}
	rep.Finish()

	if res.Shapes() > 0 && store.Count() == 1 {
		logger.Warn("diagram has sub-process shapes but no sub-process diagrams were exported",
			"shapes", res.Shapes())
	}

	doc, err := Render(store, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	res.Bytes = len(doc)

	logger.Info("document written", "path", path, "diagrams", len(entries), "shapes", res.Shapes(), "mode", res.Mode)
	return res, nil
}
