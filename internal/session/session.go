// Package session holds editing sessions in memory. Each session owns one CVData value
// that is replaced, never mutated, on every edit.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/types"
)

var (
	// ErrNotFound is returned for unknown or expired session ids
	ErrNotFound = errors.New("session not found")
	// ErrPolishInProgress is returned when a polish is already running for the session
	ErrPolishInProgress = errors.New("polish already in progress")
)

// PolishFunc rewrites a CV; see polish.Polisher.Polish
type PolishFunc func(ctx context.Context, cv types.CVData) (types.CVData, error)

// Session is one editing session
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	cv        types.CVData
	touched   time.Time
	polishing *semaphore.Weighted
	newID     editor.IDFunc
	now       func() time.Time
}

func newSession(id string, cv types.CVData, now func() time.Time, newID editor.IDFunc) *Session {
	created := now()
	return &Session{
		ID:        id,
		CreatedAt: created,
		cv:        cv,
		touched:   created,
		polishing: semaphore.NewWeighted(1),
		newID:     newID,
		now:       now,
	}
}

// Snapshot returns the current value. Callers may keep it; later edits never change it.
func (s *Session) Snapshot() types.CVData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cv
}

// Apply dispatches one intent and stores the result. On error the stored value is unchanged.
func (s *Session) Apply(in editor.Intent) (types.CVData, string, error) {
	return s.update(func(cv types.CVData) (types.CVData, string, error) {
		return editor.Apply(cv, in, s.newID)
	})
}

// Replace stores cv as the session's value.
func (s *Session) Replace(cv types.CVData) types.CVData {
	out, _, _ := s.update(func(types.CVData) (types.CVData, string, error) {
		return cv.Normalize(), "", nil
	})
	return out
}

// Polish runs fn on a snapshot and stores its result. Only one polish runs per session;
// a second concurrent call fails fast with ErrPolishInProgress. The result replaces the
// stored value wholesale, including any edits made while the call was in flight.
func (s *Session) Polish(ctx context.Context, fn PolishFunc) (types.CVData, error) {
	if !s.polishing.TryAcquire(1) {
		return s.Snapshot(), ErrPolishInProgress
	}
	defer s.polishing.Release(1)

	polished, err := fn(ctx, s.Snapshot())
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Replace(polished), nil
}

// Polishing reports whether a polish call is running
func (s *Session) Polishing() bool {
	if s.polishing.TryAcquire(1) {
		s.polishing.Release(1)
		return false
	}
	return true
}

func (s *Session) update(fn func(types.CVData) (types.CVData, string, error)) (types.CVData, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, id, err := fn(s.cv)
	if err != nil {
		return s.cv, id, err
	}
	s.cv = out
	s.touched = s.now()
	return out, id, nil
}

func (s *Session) lastTouched() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched
}
