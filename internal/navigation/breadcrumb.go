package navigation

import (
	"iter"
	"slices"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/viewport"
)

// Crumb is one element of the navigation trail or the flat list.
// The active crumb is the displayed diagram and is not navigable.
type Crumb struct {
	Label       string `json:"label"`
	TargetIndex int    `json:"target_index"`
	Active      bool   `json:"active"`
}

// BreadcrumbTrail returns the path root -> ... -> current as of the call.
// The sequence can be ranged over any number of times and always yields the
// same crumbs; the last one is active. History entries for the main process
// are folded into the leading root crumb.
func (e *Engine) BreadcrumbTrail() iter.Seq[Crumb] {
	e.mu.Lock()
	crumbs := e.trailLocked()
	e.mu.Unlock()
	return slices.Values(crumbs)
}

func (e *Engine) trailLocked() []Crumb {
	var middle []Step
	for _, s := range e.history {
		if s.Index != 0 {
			middle = append(middle, s)
		}
	}
	if e.current == 0 && len(middle) == 0 {
		return []Crumb{{Label: e.rootLabel, TargetIndex: 0, Active: true}}
	}

	crumbs := make([]Crumb, 0, len(middle)+2)
	crumbs = append(crumbs, Crumb{Label: e.rootLabel, TargetIndex: 0})
	for _, s := range middle {
		crumbs = append(crumbs, Crumb{Label: s.Title, TargetIndex: s.Index})
	}
	label := e.titleOf(e.current)
	if e.current == 0 {
		label = e.rootLabel
	}
	return append(crumbs, Crumb{Label: label, TargetIndex: e.current, Active: true})
}

// Items returns every diagram in index order for the flat presentation,
// marking the displayed one active.
func (e *Engine) Items() iter.Seq[Crumb] {
	e.mu.Lock()
	items := e.itemsLocked()
	e.mu.Unlock()
	return slices.Values(items)
}

func (e *Engine) itemsLocked() []Crumb {
	n := e.store.Count()
	items := make([]Crumb, 0, n)
	for i := 0; i < n; i++ {
		entry, err := e.store.Get(i)
		if err != nil {
			break
		}
		items = append(items, Crumb{Label: entry.Title, TargetIndex: i, Active: e.loaded && i == e.current})
	}
	return items
}

// Snapshot is a serializable view of an engine.
type Snapshot struct {
	Mode         Mode           `json:"mode"`
	Loaded       bool           `json:"loaded"`
	CurrentIndex int            `json:"current_index"`
	Title        string         `json:"title"`
	Filename     string         `json:"filename"`
	History      []Step         `json:"history"`
	Breadcrumbs  []Crumb        `json:"breadcrumbs"`
	Items        []Crumb        `json:"items,omitempty"`
	Shapes       []string       `json:"shapes"`
	Placeholder  string         `json:"placeholder,omitempty"`
	Viewport     viewport.State `json:"viewport"`
	Transform    string         `json:"transform"`
	Fullscreen   bool           `json:"fullscreen"`
}

// Snapshot captures the engine state for display in one critical section,
// so the history, trail and current diagram always agree.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]Step, len(e.history))
	copy(history, e.history)
	vp := e.viewport.Snapshot()
	s := Snapshot{
		Mode:         e.mode,
		Loaded:       e.loaded,
		CurrentIndex: e.current,
		History:      history,
		Breadcrumbs:  e.trailLocked(),
		Shapes:       diagram.ShapeIDs(e.shapes),
		Placeholder:  e.placeholder,
		Viewport:     vp,
		Transform:    vp.Transform(),
		Fullscreen:   e.viewport.Fullscreen(),
	}
	if e.loaded {
		if entry, err := e.store.Get(e.current); err == nil {
			s.Title, s.Filename = entry.Title, entry.Filename
		}
	}
	if e.mode == ModeFlat {
		s.Items = e.itemsLocked()
	}
	return s
}
