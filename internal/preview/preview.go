// Package preview serves an exported document and hosts server-side
// navigation sessions driven over a websocket.
package preview

import (
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/errs"
	"github.com/ziadkadry99/bpmnav/internal/export"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
)

// Session is one server-side document view.
type Session struct {
	ID      string
	Created time.Time
	Engine  *navigation.Engine

	mu     sync.Mutex
	notice string
}

// takeNotice returns and clears the pending blocking notice.
func (s *Session) takeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

func (s *Session) setNotice(msg string) {
	s.mu.Lock()
	s.notice = msg
	s.mu.Unlock()
}

// Preview holds the record store and the open sessions.
type Preview struct {
	store  *diagram.Store
	opts   export.Options
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New returns a Preview over store. opts controls both the served document
// and the mode of new sessions.
func New(store *diagram.Store, opts export.Options, logger *log.Logger) *Preview {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Mode == "" {
		opts.Mode = navigation.ModeHierarchical
	}
	return &Preview{
		store:    store,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// NewSession opens a session showing the main process.
func (p *Preview) NewSession() *Session {
	s := &Session{ID: uuid.New().String(), Created: time.Now()}
	s.Engine = navigation.New(p.store, navigation.Options{
		Mode:      p.opts.Mode,
		RootLabel: p.opts.RootLabel,
		Logger:    p.logger.With("session", s.ID[:8]),
		Notifier:  navigation.NotifierFunc(func(err error) { s.setNotice(errs.UserMessage(err)) }),
	})
	if err := s.Engine.Start(); err != nil {
		// The main process failed to render; the session still opens on
		// the placeholder so the other diagrams stay reachable.
		p.logger.Warn("main process failed to render", "session", s.ID, "err", err)
	}

	p.mu.Lock()
	p.sessions[s.ID] = s
	p.mu.Unlock()

	p.logger.Debug("session opened", "session", s.ID)
	return s
}

// Session looks up an open session.
func (p *Preview) Session(id string) (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	return s, ok
}

// CloseSession drops a session. It reports whether it existed.
func (p *Preview) CloseSession(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; !ok {
		return false
	}
	delete(p.sessions, id)
	p.logger.Debug("session closed", "session", id)
	return true
}

// Sessions returns the IDs of the open sessions, oldest first.
func (p *Preview) Sessions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	all := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Created.Before(all[j].Created) })
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}

// Prune closes sessions created before cutoff and returns how many went.
func (p *Preview) Prune(cutoff time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, s := range p.sessions {
		if s.Created.Before(cutoff) {
			delete(p.sessions, id)
			n++
		}
	}
	return n
}
