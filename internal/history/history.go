// Package history keeps a catalog of written navigator documents.
package history

import "time"

// Entry is one recorded export.
type Entry struct {
	ID             string    `json:"id"`
	ExportedAt     time.Time `json:"exported_at"`
	Project        string    `json:"project"`
	Path           string    `json:"path"`
	Mode           string    `json:"mode"`
	TotalProcesses int       `json:"total_processes"`
	TotalShapes    int       `json:"total_shapes"`
	Bytes          int       `json:"bytes"`
	Diagrams       []Diagram `json:"diagrams,omitempty"`
}

// Diagram is one diagram of a recorded export.
type Diagram struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Shapes   int    `json:"shapes"`
}
