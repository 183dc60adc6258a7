package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/errs"
)

// FallbackFilename is used when an entry's filename cannot name a file.
const FallbackFilename = "diagram.svg"

// Sink receives a downloaded diagram.
type Sink interface {
	Save(filename string, content []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(filename string, content []byte) error

// Save implements Sink.
func (f SinkFunc) Save(filename string, content []byte) error { return f(filename, content) }

// Source reports the displayed diagram. *navigation.Engine satisfies it.
type Source interface {
	Current() (diagram.Entry, bool)
}

// Bridge hands the displayed diagram's raw markup to a Sink.
type Bridge struct {
	source Source
	logger *log.Logger
}

// NewBridge returns a Bridge over source.
func NewBridge(source Source, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{source: source, logger: logger}
}

// DownloadCurrent saves the displayed diagram under its filename. It reports
// false without error when nothing is displayed. Sink failures, including
// panics, come back as errors.
func (b *Bridge) DownloadCurrent(sink Sink) (saved bool, err error) {
	entry, ok := b.source.Current()
	if !ok {
		b.logger.Debug("download skipped, nothing displayed")
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			saved = false
			err = errs.New(errs.ErrCodeInternal, "saving %q panicked: %v", entry.Filename, r)
		}
	}()

	name := SafeFilename(entry.Filename)
	if err := sink.Save(name, []byte(entry.Content)); err != nil {
		b.logger.Warn("download failed", "filename", name, "err", err)
		return false, fmt.Errorf("saving %s: %w", name, err)
	}
	b.logger.Info("diagram downloaded", "index", entry.Index, "filename", name)
	return true, nil
}

// SafeFilename reduces name to a single path element.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return FallbackFilename
	}
	return base
}

// DirSink writes downloads into a directory, creating it when needed.
type DirSink struct {
	Dir string
}

// Save implements Sink.
func (s DirSink) Save(filename string, content []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	return os.WriteFile(filepath.Join(s.Dir, SafeFilename(filename)), content, 0o644)
}
