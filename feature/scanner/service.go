package scanner

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"qr-registry/core/reconcile"
	"qr-registry/core/session"
	"qr-registry/feature/media"

	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or closed session ids.
var ErrSessionNotFound = errors.New("scan session not found")

// Service manages HTTP scan sessions and the media spooled for them.
type Service struct {
	sessions *session.Manager
	spool    *media.Spool
	logger   *zap.Logger

	mu      sync.Mutex
	spooled map[string][]string
}

// NewService creates a scanner service. Media spooled for a session is
// released once the session commits, closes or expires.
func NewService(sessions *session.Manager, spool *media.Spool, logger *zap.Logger) *Service {
	s := &Service{
		sessions: sessions,
		spool:    spool,
		logger:   logger,
		spooled:  make(map[string][]string),
	}
	sessions.OnSaved(func(id string, _ reconcile.Record) {
		s.release(id)
	})
	return s
}

// Create mounts a new session.
func (s *Service) Create() *session.Session {
	return s.sessions.Create()
}

// Get returns a live session.
func (s *Service) Get(id string) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close unmounts a session and releases its spooled media once in-flight
// effects have completed. A commit in flight still reaches the listing.
func (s *Service) Close(id string) error {
	sess, ok := s.sessions.Get(id)
	if !ok || !s.sessions.Close(id) {
		return ErrSessionNotFound
	}
	sess.Wait()
	s.release(id)
	return nil
}

// AttachMedia spools r and sets it as the draft media of the session.
func (s *Service) AttachMedia(id, name string, r io.Reader) (*session.Session, session.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, session.State{}, err
	}

	handle, err := s.spool.Write(name, r)
	if err != nil {
		return sess, sess.State(), err
	}

	st, err := sess.Try(session.SetMedia{Handle: handle})
	if err != nil {
		s.spool.Release(handle)
		return sess, st, err
	}

	s.mu.Lock()
	s.spooled[id] = append(s.spooled[id], handle)
	s.mu.Unlock()

	return sess, st, nil
}

// Sweep closes sessions idle for longer than ttl.
func (s *Service) Sweep(ttl time.Duration) int {
	ids := s.sessions.Expire(ttl)
	for _, id := range ids {
		s.release(id)
	}
	return len(ids)
}

// Run sweeps idle sessions until ctx is done. A non-positive ttl disables it.
func (s *Service) Run(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ttl)
		}
	}
}

func (s *Service) release(id string) {
	s.mu.Lock()
	handles := s.spooled[id]
	delete(s.spooled, id)
	s.mu.Unlock()

	for _, h := range handles {
		s.spool.Release(h)
	}
	if len(handles) > 0 {
		s.logger.Debug("Released spooled media", zap.String("session", id), zap.Int("files", len(handles)))
	}
}
