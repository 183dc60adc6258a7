package diagram

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/bpmnav/internal/errs"
	"github.com/ziadkadry99/bpmnav/internal/walker"
)

// DefaultMain is the file treated as the main process when collecting a
// directory without an explicit choice.
const DefaultMain = "main.svg"

// Manifest describes one export: project metadata and the ordered diagram
// list. The first diagram is the main process.
//
//	project: Order Handling
//	description: Orders from intake to invoice.
//	diagrams:
//	  - title: Main Process
//	    svg: main.svg
//	  - title: Payment Subprocess
//	    filename: payment.svg
//	    svg: sub/payment.svg
type Manifest struct {
	Project     string          `yaml:"project"`
	Description string          `yaml:"description"`
	Diagrams    []ManifestEntry `yaml:"diagrams"`
}

// ManifestEntry points at one rendered SVG file, relative to the manifest.
type ManifestEntry struct {
	Title    string `yaml:"title"`
	Filename string `yaml:"filename"`
	SVG      string `yaml:"svg"`
}

// LoadManifest reads a YAML manifest and inlines every referenced SVG.
func LoadManifest(path string) (*Manifest, []Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parsing manifest %s", path)
	}
	if len(m.Diagrams) == 0 {
		return nil, nil, errs.New(errs.ErrCodeInvalidManifest, "manifest %s lists no diagrams", path)
	}

	base := filepath.Dir(path)
	records := make([]Record, 0, len(m.Diagrams))
	for i, d := range m.Diagrams {
		if d.SVG == "" {
			return nil, nil, errs.New(errs.ErrCodeInvalidManifest, "diagram %d has no svg path", i)
		}
		svgPath := d.SVG
		if !filepath.IsAbs(svgPath) {
			svgPath = filepath.Join(base, filepath.FromSlash(svgPath))
		}
		content, err := os.ReadFile(svgPath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading diagram %s: %w", d.SVG, err)
		}
		records = append(records, newRecord(d.Title, d.Filename, filepath.Base(svgPath), string(content)))
	}
	return &m, records, nil
}

// CollectOptions controls directory collection.
type CollectOptions struct {
	Include []string
	Exclude []string
	// Main is the relative path or base name of the main process diagram.
	// Empty means DefaultMain, falling back to the first file.
	Main string
}

// Collect builds records from every SVG under dir. The main diagram comes
// first, the rest follow in sorted path order.
func Collect(dir string, opts CollectOptions) ([]Record, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: dir,
		Include: opts.Include,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "no diagrams found in %s", dir)
	}

	main := opts.Main
	if main == "" {
		main = DefaultMain
	}
	mainIdx := -1
	for i, f := range files {
		if f.RelPath == filepath.ToSlash(main) || filepath.Base(f.RelPath) == main {
			mainIdx = i
			break
		}
	}
	if mainIdx < 0 {
		if opts.Main != "" {
			return nil, errs.New(errs.ErrCodeNotFound, "main diagram %q not found in %s", opts.Main, dir)
		}
		mainIdx = 0
	}

	ordered := make([]walker.FileInfo, 0, len(files))
	ordered = append(ordered, files[mainIdx])
	ordered = append(ordered, files[:mainIdx]...)
	ordered = append(ordered, files[mainIdx+1:]...)

	records := make([]Record, 0, len(ordered))
	for i, f := range ordered {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading diagram %s: %w", f.RelPath, err)
		}
		title := ""
		if i == 0 {
			title = "Main Process"
		}
		records = append(records, newRecord(title, "", filepath.Base(f.RelPath), string(content)))
	}
	return records, nil
}

func newRecord(title, filename, sourceName, content string) Record {
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	if title == "" {
		title = Humanize(stem)
	}
	if filename == "" {
		if sourceName != "" {
			filename = sourceName
		} else {
			filename = Slug(title) + ".svg"
		}
	}
	return Record{Title: title, Filename: filename, Content: content}
}

// Humanize turns a file stem like "order_sub-process" into "Order Sub Process".
func Humanize(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "diagram"
	}
	return out
}
