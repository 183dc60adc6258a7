package preview

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/export"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
	"github.com/ziadkadry99/bpmnav/internal/resolver"
)

// RegisterRoutes mounts the document, diagram and session endpoints.
func (p *Preview) RegisterRoutes(r chi.Router) {
	r.Get("/", p.handleDocument)

	r.Route("/api/diagrams", func(r chi.Router) {
		r.Get("/", p.handleListDiagrams)
		r.Get("/{index}", p.handleDiagram)
		r.Get("/{index}/download", p.handleDiagramDownload)
	})
	r.Get("/api/resolve", p.handleResolve)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", p.handleCreateSession)
		r.Get("/{id}", p.handleGetSession)
		r.Delete("/{id}", p.handleDeleteSession)
		r.Get("/{id}/download", p.handleSessionDownload)
		r.Get("/{id}/ws", p.handleWebSocket)
	})
}

func (p *Preview) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := export.Render(p.store, p.opts)
	if err != nil {
		p.logger.Error("rendering document", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

// diagramInfo is a record without its markup.
type diagramInfo struct {
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Shapes   []string `json:"shapes"`
}

func (p *Preview) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	entries := p.store.Entries()
	out := make([]diagramInfo, 0, len(entries))
	for _, e := range entries {
		info := diagramInfo{Index: e.Index, Title: e.Title, Filename: e.Filename, Shapes: []string{}}
		if shapes, err := diagram.ScanShapes(e.Content); err == nil {
			info.Shapes = diagram.ShapeIDs(shapes)
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// entryParam resolves the {index} URL parameter, writing the error response
// itself when it fails.
func (p *Preview) entryParam(w http.ResponseWriter, r *http.Request) (diagram.Entry, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return diagram.Entry{}, false
	}
	entry, err := p.store.Get(index)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return diagram.Entry{}, false
	}
	return entry, true
}

func (p *Preview) handleDiagram(w http.ResponseWriter, r *http.Request) {
	entry, ok := p.entryParam(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(entry.Content))
}

type fixedEntry diagram.Entry

func (e fixedEntry) Current() (diagram.Entry, bool) { return diagram.Entry(e), true }

func (p *Preview) handleDiagramDownload(w http.ResponseWriter, r *http.Request) {
	entry, ok := p.entryParam(w, r)
	if !ok {
		return
	}
	p.download(w, fixedEntry(entry))
}

func (p *Preview) handleSessionDownload(w http.ResponseWriter, r *http.Request) {
	s, ok := p.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	p.download(w, s.Engine)
}

func (p *Preview) download(w http.ResponseWriter, src export.Source) {
	saved, err := export.NewBridge(src, p.logger).DownloadCurrent(responseSink{w: w})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !saved {
		w.WriteHeader(http.StatusNoContent)
	}
}

// responseSink streams a download as an attachment.
type responseSink struct {
	w http.ResponseWriter
}

func (s responseSink) Save(filename string, content []byte) error {
	s.w.Header().Set("Content-Type", "image/svg+xml")
	s.w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, err := s.w.Write(content)
	return err
}

type resolveResponse struct {
	ID    string        `json:"id"`
	Index int           `json:"index"`
	Rule  resolver.Rule `json:"rule"`
	Title string        `json:"title,omitempty"`
}

func (p *Preview) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	m := resolver.New(p.store).Explain(id)
	resp := resolveResponse{ID: id, Index: m.Index, Rule: m.Rule}
	if m.Found() {
		if e, err := p.store.Get(m.Index); err == nil {
			resp.Title = e.Title
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type sessionResponse struct {
	ID string `json:"id"`
	navigation.Snapshot
}

func (p *Preview) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := p.NewSession()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: s.ID, Snapshot: s.Engine.Snapshot()})
}

func (p *Preview) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := p.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: s.ID, Snapshot: s.Engine.Snapshot()})
}

func (p *Preview) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !p.CloseSession(chi.URLParam(r, "id")) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
