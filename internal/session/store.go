package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/types"
)

// DefaultTTL is how long an untouched session is kept
const DefaultTTL = 24 * time.Hour

// Config holds store settings
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Logger          *zap.Logger
	// IDFunc generates item ids for AddItem; nil uses editor.NewID
	IDFunc editor.IDFunc
}

// Store is an in-memory session registry with idle expiry
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	newID    editor.IDFunc
	logger   *zap.Logger
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store and starts its expiry sweeper. Call Stop to end it.
func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = min(cfg.TTL, 10*time.Minute)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.IDFunc == nil {
		cfg.IDFunc = editor.NewID
	}

	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      cfg.TTL,
		newID:    cfg.IDFunc,
		logger:   cfg.Logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go s.cleanup(cfg.CleanupInterval)

	return s
}

// Create starts a session seeded with cv, or with a fresh CV when seed is nil.
func (s *Store) Create(seed *types.CVData) *Session {
	cv := types.NewCVData()
	if seed != nil {
		cv = seed.Clone().Normalize()
		if cv.ThemeColor == "" {
			cv.ThemeColor = types.DefaultThemeColor
		}
	}

	sess := newSession(uuid.NewString(), cv, s.now, s.newID)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", sess.ID))
	return sess
}

// Get returns a live session
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.expired(sess) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete ends a session
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included until swept
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop ends the expiry sweeper
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Store) expired(sess *Session) bool {
	return s.now().Sub(sess.lastTouched()) > s.ttl
}

// cleanup periodically removes expired sessions
func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		// Never drop a session while its polish call is running
		if s.expired(sess) && !sess.Polishing() {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", removed))
	}
	return removed
}
