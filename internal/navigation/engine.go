// Package navigation drives which diagram is displayed and how the viewer
// got there.
//
// An Engine owns the navigation state (current index plus drill-down
// history), one viewport.Controller and the table of clickable sub-process
// shapes of the displayed diagram. Nothing is package level, so any number
// of engines, one per open document or preview session, can coexist.
package navigation

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/errs"
	"github.com/ziadkadry99/bpmnav/internal/resolver"
	"github.com/ziadkadry99/bpmnav/internal/viewport"
)

// Mode selects the presentation of the navigation trail.
type Mode string

const (
	// ModeHierarchical shows a breadcrumb trail built by drilling into
	// sub-process shapes.
	ModeHierarchical Mode = "hierarchical"
	// ModeFlat shows every diagram in a sidebar list.
	ModeFlat Mode = "flat"
)

// ParseMode validates a mode name. The empty string means hierarchical.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeHierarchical:
		return ModeHierarchical, nil
	case ModeFlat:
		return ModeFlat, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be hierarchical or flat", s)
}

// User-visible texts.
const (
	DefaultRootLabel   = "Main Process"
	RenderFailureText  = "Error loading diagram"
	NotFoundNoticeText = "Subprocess content not found in exported data."
)

// Store is the read side of the diagram record store.
type Store interface {
	Count() int
	Get(index int) (diagram.Entry, error)
}

// Renderer attaches an entry's markup to the host view. A returned error
// (or panic) puts the engine into the placeholder state.
type Renderer interface {
	Render(entry diagram.Entry) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(entry diagram.Entry) error

// Render implements Renderer.
func (f RendererFunc) Render(entry diagram.Entry) error { return f(entry) }

// Notifier surfaces blocking notices such as a failed sub-process lookup.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Notify implements Notifier.
func (f NotifierFunc) Notify(err error) { f(err) }

// Step is one entry of the drill-down history.
type Step struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// Handler runs when a registered shape is clicked.
type Handler func() error

// Options configures an Engine. Every field is optional.
type Options struct {
	Mode      Mode
	RootLabel string
	Renderer  Renderer
	Notifier  Notifier
	Logger    *log.Logger
}

// Engine is the navigation controller of one document view.
type Engine struct {
	mu       sync.Mutex
	store    Store
	resolver *resolver.Resolver
	viewport *viewport.Controller

	mode      Mode
	rootLabel string
	renderer  Renderer
	notifier  Notifier
	logger    *log.Logger

	loaded      bool
	current     int
	history     []Step
	placeholder string
	shapes      []diagram.Shape
	handlers    map[string]Handler
}

// New creates an engine over store. Nothing is displayed until Start or
// Load is called.
func New(store Store, opts Options) *Engine {
	if opts.Mode == "" {
		opts.Mode = ModeHierarchical
	}
	if opts.RootLabel == "" {
		opts.RootLabel = DefaultRootLabel
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{
		store:     store,
		resolver:  resolver.New(store),
		viewport:  viewport.New(),
		mode:      opts.Mode,
		rootLabel: opts.RootLabel,
		renderer:  opts.Renderer,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		handlers:  map[string]Handler{},
	}
}

// Start displays the main process.
func (e *Engine) Start() error { return e.Load(0) }

// Mode returns the presentation mode.
func (e *Engine) Mode() Mode { return e.mode }

// Viewport returns the engine's viewport controller.
func (e *Engine) Viewport() *viewport.Controller { return e.viewport }

// Resolver returns the engine's sub-process resolver.
func (e *Engine) Resolver() *resolver.Resolver { return e.resolver }

// Load displays the entry at index. An out-of-range index returns
// INVALID_INDEX and leaves everything unchanged. A render failure still
// moves to index but shows the placeholder and returns RENDER_FAILURE;
// breadcrumbs and other entries stay usable.
func (e *Engine) Load(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(index)
}

func (e *Engine) checkIndex(index int) error {
	if n := e.store.Count(); index < 0 || index >= n {
		return errs.New(errs.ErrCodeInvalidIndex, "diagram index %d outside [0, %d)", index, n)
	}
	return nil
}

func (e *Engine) loadLocked(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	entry, err := e.store.Get(index)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidIndex, err, "loading diagram %d", index)
	}

	// Unbind the previous diagram before anything of the new one exists.
	e.viewport.Detach()
	e.shapes = nil
	e.handlers = map[string]Handler{}

	e.current = index
	e.loaded = true
	e.placeholder = ""

	if err := e.render(entry); err != nil {
		e.placeholder = RenderFailureText
		e.logger.Warn("diagram failed to render", "index", index, "title", entry.Title, "err", err)
		return err
	}

	shapes, err := diagram.ScanShapes(entry.Content)
	if err != nil {
		e.placeholder = RenderFailureText
		e.logger.Warn("diagram markup could not be scanned", "index", index, "err", err)
		return err
	}

	e.viewport.Attach()
	e.shapes = shapes
	for _, id := range diagram.ShapeIDs(shapes) {
		e.handlers[id] = func() error { return e.ClickShape(id) }
	}

	e.logger.Debug("diagram loaded", "index", index, "title", entry.Title, "shapes", len(shapes), "depth", len(e.history))
	return nil
}

func (e *Engine) render(entry diagram.Entry) (err error) {
	if e.renderer == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(errs.ErrCodeRenderFailure, "rendering %q panicked: %v", entry.Title, r)
		}
	}()
	if rerr := e.renderer.Render(entry); rerr != nil {
		if errs.GetCode(rerr) == "" {
			return errs.Wrap(errs.ErrCodeRenderFailure, rerr, "rendering %q", entry.Title)
		}
		return rerr
	}
	return nil
}

// DrillInto records the current diagram on the history and loads index.
// Drilling into the displayed diagram reloads it without a new history
// step. An invalid index changes nothing.
func (e *Engine) DrillInto(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drillLocked(index)
}

func (e *Engine) drillLocked(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if e.loaded && index != e.current {
		e.history = append(e.history, Step{Index: e.current, Title: e.titleOf(e.current)})
	}
	return e.loadLocked(index)
}

// NavigateTo jumps to a diagram on the breadcrumb trail. The history is cut
// just before the first occurrence of index, and the main-process root is
// dropped from what remains since the root crumb is always displayed on its
// own. Index 0 clears the history. Any other index not on the trail is
// ignored.
func (e *Engine) NavigateTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkIndex(index); err != nil {
		return err
	}
	if index == 0 {
		e.history = nil
		return e.loadLocked(0)
	}

	pos := -1
	for i, s := range e.history {
		if s.Index == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		e.logger.Debug("breadcrumb target not on trail", "index", index)
		return nil
	}

	trail := make([]Step, 0, pos)
	for _, s := range e.history[:pos] {
		if s.Index != 0 {
			trail = append(trail, s)
		}
	}
	e.history = trail
	return e.loadLocked(index)
}

// GoBack pops the last history entry and loads it. It reports false when
// the history was empty.
func (e *Engine) GoBack() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 {
		return false, nil
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	return true, e.loadLocked(last.Index)
}

// Select loads index directly and clears the history, as a click in the
// flat sidebar list does.
func (e *Engine) Select(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.history = nil
	return e.loadLocked(index)
}

// ClickShape resolves a shape identifier and drills into the match. When
// the document holds no sub-process diagrams it returns RESOLUTION_FAILED,
// notifies, and stays put.
func (e *Engine) ClickShape(shapeID string) error {
	e.mu.Lock()
	match := e.resolver.Explain(shapeID)
	if !match.Found() {
		e.mu.Unlock()
		err := errs.New(errs.ErrCodeResolutionFailed, NotFoundNoticeText)
		e.logger.Info("sub-process not resolved", "shape", shapeID)
		if e.notifier != nil {
			e.notifier.Notify(err)
		}
		return err
	}
	e.logger.Debug("sub-process resolved", "shape", shapeID, "index", match.Index, "rule", match.Rule)
	err := e.drillLocked(match.Index)
	e.mu.Unlock()
	return err
}

// Click dispatches through the shape registration table of the displayed
// diagram. Identifiers not registered on it return NOT_FOUND.
func (e *Engine) Click(shapeID string) error {
	e.mu.Lock()
	h, ok := e.handlers[shapeID]
	e.mu.Unlock()
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "no sub-process shape %q on the displayed diagram", shapeID)
	}
	return h()
}

// Shapes returns the clickable shapes of the displayed diagram.
func (e *Engine) Shapes() []diagram.Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]diagram.Shape, len(e.shapes))
	copy(out, e.shapes)
	return out
}

// Registered reports whether shapeID has a handler on the displayed diagram.
func (e *Engine) Registered(shapeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.handlers[shapeID]
	return ok
}

// Current returns the displayed entry; false when nothing is loaded.
func (e *Engine) Current() (diagram.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return diagram.Entry{}, false
	}
	entry, err := e.store.Get(e.current)
	if err != nil {
		return diagram.Entry{}, false
	}
	return entry, true
}

// CurrentIndex returns the displayed index (0 before the first load).
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// History returns a copy of the drill-down history, oldest first.
func (e *Engine) History() []Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Step, len(e.history))
	copy(out, e.history)
	return out
}

// Placeholder returns the text shown instead of a diagram that failed to
// render, or "" when the diagram is displayed.
func (e *Engine) Placeholder() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeholder
}

func (e *Engine) titleOf(index int) string {
	entry, err := e.store.Get(index)
	if err != nil {
		return ""
	}
	return entry.Title
}
