// Package session keeps uploaded workbooks in memory, per browser session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/locvowork/excel_intelligence/internal/domain"
	"github.com/locvowork/excel_intelligence/internal/logger"
)

// CookieName is the cookie carrying the session id.
const CookieName = "sheetboard_session"

type entry struct {
	workbooks []domain.Workbook
	lastSeen  time.Time
}

// Store is an in-memory domain.WorkbookStore. Sessions idle for longer than
// the TTL are dropped by Prune.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id handed out by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) Put(ctx context.Context, sessionID string, limit int, workbooks ...domain.Workbook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
	}

	if limit > 0 {
		names := make(map[string]bool, len(e.workbooks)+len(workbooks))
		for _, wb := range e.workbooks {
			names[wb.Name] = true
		}
		for _, wb := range workbooks {
			names[wb.Name] = true
		}
		if len(names) > limit {
			return fmt.Errorf("%w: at most %d files per session", domain.ErrTooManyWorkbooks, limit)
		}
	}

	for _, wb := range workbooks {
		replaced := false
		for i := range e.workbooks {
			if e.workbooks[i].Name == wb.Name {
				e.workbooks[i] = wb
				replaced = true
				break
			}
		}
		if !replaced {
			e.workbooks = append(e.workbooks, wb)
		}
	}
	e.lastSeen = s.now()
	s.sessions[sessionID] = e
	return nil
}

func (s *Store) List(ctx context.Context, sessionID string) ([]domain.Workbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Workbook, len(e.workbooks))
	copy(out, e.workbooks)
	return out, nil
}

func (s *Store) Get(ctx context.Context, sessionID, name string) (domain.Workbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.sessions[sessionID]; ok {
		for _, wb := range e.workbooks {
			if wb.Name == name {
				return wb, nil
			}
		}
	}
	return domain.Workbook{}, domain.ErrWorkbookNotFound
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Touch marks a session as active.
func (s *Store) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		e.lastSeen = s.now()
	}
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops every session idle for longer than the TTL and returns how
// many were dropped. A zero TTL keeps sessions forever.
func (s *Store) Prune() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run prunes the store every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				logger.InfoLog(ctx, "Pruned %d idle sessions", n)
			}
		}
	}
}
