// Package export writes the navigator document and carries the download
// bridge used by hosts that display one diagram at a time.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
)

// Markers in viewerHTML replaced when a document is built.
const (
	dataMarker  = "/*__NAV_DATA__*/null"
	titleMarker = "__NAV_TITLE__"
)

// Options controls the presentation of a document.
type Options struct {
	Mode      navigation.Mode
	RootLabel string
	// Description is markdown shown under the header.
	Description string
}

type docDiagram struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type docData struct {
	Project         string          `json:"project"`
	DescriptionHTML string          `json:"description_html"`
	ExportedAt      time.Time       `json:"exported_at"`
	TotalProcesses  int             `json:"total_processes"`
	Mode            navigation.Mode `json:"mode"`
	RootLabel       string          `json:"root_label"`
	RenderFailure   string          `json:"render_failure"`
	NotFound        string          `json:"not_found"`
	Diagrams        []docDiagram    `json:"diagrams"`
}

// DocumentSource is the read side of the record store a document is built
// from. *diagram.Store satisfies it.
type DocumentSource interface {
	Entries() []diagram.Entry
	Metadata() diagram.Metadata
}

// Render builds the self-contained navigator document for store. The
// diagram records are inlined as JSON so the file opens from disk without
// any request.
func Render(store DocumentSource, opts Options) ([]byte, error) {
	mode, err := navigation.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.RootLabel == "" {
		opts.RootLabel = navigation.DefaultRootLabel
	}

	meta := store.Metadata()
	desc := meta.Description
	if opts.Description != "" {
		desc = opts.Description
	}
	descHTML, err := RenderMarkdown(desc)
	if err != nil {
		return nil, err
	}

	entries := store.Entries()
	data := docData{
		Project:         meta.ProjectName,
		DescriptionHTML: descHTML,
		ExportedAt:      meta.ExportedAt,
		TotalProcesses:  meta.TotalProcesses,
		Mode:            mode,
		RootLabel:       opts.RootLabel,
		RenderFailure:   navigation.RenderFailureText,
		NotFound:        navigation.NotFoundNoticeText,
		Diagrams:        make([]docDiagram, 0, len(entries)),
	}
	for _, e := range entries {
		data.Diagrams = append(data.Diagrams, docDiagram{
			Index:    e.Index,
			Title:    e.Title,
			Filename: SafeFilename(e.Filename),
			Content:  e.Content,
		})
	}

	// encoding/json escapes <, > and & so markup cannot close the script.
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling document data: %w", err)
	}

	title := meta.ProjectName
	if title == "" {
		title = "Process Navigator"
	}
	out := strings.Replace(viewerHTML, dataMarker, string(jsonBytes), 1)
	out = strings.Replace(out, titleMarker, html.EscapeString(title), 1)
	return []byte(out), nil
}

// RenderMarkdown converts a markdown description to HTML. Raw HTML in the
// input is dropped.
func RenderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering description: %w", err)
	}
	return buf.String(), nil
}
