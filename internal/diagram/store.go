package diagram

import (
	"time"

	"github.com/ziadkadry99/bpmnav/internal/errs"
)

// Record is one rendered process or sub-process as produced by the
// authoring tool: a title, a suggested standalone filename and the
// self-contained SVG markup.
type Record struct {
	Title    string `json:"title" yaml:"title"`
	Filename string `json:"filename" yaml:"filename"`
	Content  string `json:"content" yaml:"-"`
}

// Entry is a Record fixed at its position in the Store. Index 0 is always
// the main process.
type Entry struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Metadata is document-level information shown in the header only.
type Metadata struct {
	ProjectName    string    `json:"projectName"`
	Description    string    `json:"description,omitempty"`
	ExportedAt     time.Time `json:"exportedAt"`
	TotalProcesses int       `json:"totalProcesses"`
}

// Store is the ordered, immutable list of diagram entries. It is safe for
// concurrent readers since nothing mutates it after NewStore returns.
type Store struct {
	entries []Entry
	meta    Metadata
}

// NewStore fixes records into entries 0..n-1. The record list must not be
// empty. TotalProcesses is filled in from the record count.
func NewStore(records []Record, meta Metadata) (*Store, error) {
	if len(records) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidManifest, "no diagrams to export")
	}

	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{
			Index:    i,
			Title:    r.Title,
			Filename: r.Filename,
			Content:  r.Content,
		}
	}
	meta.TotalProcesses = len(entries)
	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = time.Now()
	}
	return &Store{entries: entries, meta: meta}, nil
}

// Count returns the number of entries.
func (s *Store) Count() int { return len(s.entries) }

// Get returns the entry at index, or an OUT_OF_RANGE error.
func (s *Store) Get(index int) (Entry, error) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, errs.New(errs.ErrCodeOutOfRange, "diagram index %d outside [0, %d)", index, len(s.entries))
	}
	return s.entries[index], nil
}

// Entries returns a copy of all entries in index order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Metadata returns the header metadata.
func (s *Store) Metadata() Metadata { return s.meta }
