// Package viewport implements pan, zoom and drag over one displayed diagram.
//
// A Controller owns a single State. Attaching it to a freshly loaded diagram
// discards the previous State, so viewport transforms never carry over from
// one diagram to the next. All methods serialize on an internal mutex: the
// browser runs these handlers on one event loop, but the preview server
// drives a Controller from websocket goroutines.
package viewport

import (
	"fmt"
	"strconv"
	"sync"
)

// Zoom limits and per-notch factors.
const (
	MinScale    = 0.1
	MaxScale    = 5.0
	ZoomOutStep = 0.9
	ZoomInStep  = 1.1
)

// State is the viewport of the displayed diagram.
type State struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Dragging   bool    `json:"dragging"`
	LastX      float64 `json:"last_x"`
	LastY      float64 `json:"last_y"`
}

func newState() *State {
	return &State{Scale: 1}
}

// Transform renders the state as a CSS transform, translate then scale.
func (s State) Transform() string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", num(s.TranslateX), num(s.TranslateY), num(s.Scale))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Controller is the pan/zoom/drag state machine (Idle -> Dragging -> Idle).
type Controller struct {
	mu         sync.Mutex
	state      *State
	fullscreen bool
	generation int
}

// New returns a detached controller. Input is ignored until Attach.
func New() *Controller {
	return &Controller{}
}

// Attach discards any previous viewport and allocates a fresh one at
// scale 1, offset 0. It returns the attachment generation, which increases
// on every call.
func (c *Controller) Attach() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = newState()
	c.generation++
	return c.generation
}

// Detach drops the viewport; subsequent input is ignored until Attach.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
}

// Attached reports whether a diagram viewport is active.
func (c *Controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != nil
}

// Snapshot returns a copy of the current state. The zero-scale State is
// returned when detached.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return State{}
	}
	return *c.state
}

// Wheel zooms out for positive deltaY and in otherwise, clamped to
// [MinScale, MaxScale]. The return value tells the host to suppress the
// page's native scrolling; it is false only when detached.
func (c *Controller) Wheel(deltaY float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return false
	}
	if deltaY > 0 {
		c.state.Scale *= ZoomOutStep
	} else {
		c.state.Scale *= ZoomInStep
	}
	c.state.Scale = clamp(c.state.Scale, MinScale, MaxScale)
	return true
}

// PointerDown starts a drag at (x, y) unless the pointer is on a
// sub-process shape, which is reserved for navigation.
func (c *Controller) PointerDown(x, y float64, onShape bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || onShape {
		return false
	}
	c.state.Dragging = true
	c.state.LastX, c.state.LastY = x, y
	return true
}

// PointerMove pans by the delta since the last recorded pointer position
// while dragging. Panning is additive and independent of scale.
func (c *Controller) PointerMove(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || !c.state.Dragging {
		return false
	}
	c.state.TranslateX += x - c.state.LastX
	c.state.TranslateY += y - c.state.LastY
	c.state.LastX, c.state.LastY = x, y
	return true
}

// PointerUp ends any drag. It is accepted anywhere, not only over the
// diagram.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil {
		c.state.Dragging = false
	}
}

// Reset restores scale 1 and offset 0.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return
	}
	c.state.Scale = 1
	c.state.TranslateX = 0
	c.state.TranslateY = 0
}

// ToggleFullscreen flips the fullscreen presentation flag and returns the
// new value. It does not touch the viewport state.
func (c *Controller) ToggleFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = !c.fullscreen
	return c.fullscreen
}

// Fullscreen reports the presentation flag.
func (c *Controller) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
