package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"qr-registry/core/listing"
	"qr-registry/core/reconcile"

	"go.uber.org/zap"
)

var (
	// ErrBusy is returned by Try while a lookup or commit is in flight.
	ErrBusy = errors.New("session busy")
	// ErrNotApplicable is returned by Try for events the current phase does not accept.
	ErrNotApplicable = errors.New("event not applicable in current phase")
	// ErrClosed is returned by Try on a closed session.
	ErrClosed = errors.New("session closed")
)

// Engine is the part of the reconciliation engine a session drives.
type Engine interface {
	Lookup(ctx context.Context, code string) (reconcile.LookupResult, error)
	Commit(ctx context.Context, draft reconcile.Draft, targetID string) (reconcile.Record, error)
}

// Session runs the scan state machine. Lookup and commit effects execute on
// their own goroutines and report back through Dispatch; the Resolving and
// Saving phases model the wait. In-flight effects are never cancelled.
type Session struct {
	id      string
	engine  Engine
	listing *listing.Cache
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	settled  *sync.Cond
	state    State
	closed   bool
	touched  time.Time
	inflight int
	onSaved  func(id string, rec reconcile.Record)
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds each lookup and commit. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithID sets the session identifier used in logs.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithSavedHook registers fn to run after each successful commit has been
// applied, before Wait returns.
func WithSavedHook(fn func(id string, rec reconcile.Record)) Option {
	return func(s *Session) {
		s.onSaved = fn
	}
}

// New creates a session in the Idle phase. Committed records are applied to cache.
func New(engine Engine, cache *listing.Cache, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		engine:  engine,
		listing: cache,
		logger:  logger,
		state:   Initial(),
		touched: time.Now(),
	}
	s.settled = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Touched returns the time of the last dispatched event.
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Dispatch feeds an event to the state machine, starts any requested effect
// and returns the resulting state. User events are ignored once the session
// is closed; completions of in-flight effects are still applied.
func (s *Session) Dispatch(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed && !isCompletion(ev) {
		return s.state
	}
	return s.dispatchLocked(ev)
}

// Try is Dispatch for user events that must apply: it fails with ErrClosed,
// ErrBusy or ErrNotApplicable instead of silently ignoring the event.
func (s *Session) Try(ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return s.state, ErrClosed
	case Accepts(s.state, ev):
		return s.dispatchLocked(ev), nil
	case s.state.Busy():
		return s.state, ErrBusy
	default:
		return s.state, ErrNotApplicable
	}
}

func (s *Session) dispatchLocked(ev Event) State {
	prev := s.state.Phase
	next, eff := Transition(s.state, ev)
	s.state = next
	s.touched = time.Now()

	if prev != next.Phase {
		s.logger.Debug("Session transition",
			zap.String("from", string(prev)),
			zap.String("to", string(next.Phase)),
			zap.String("code", next.Code),
		)
		if next.Err != nil {
			s.logger.Warn("Session operation failed", zap.String("phase", string(next.Phase)), zap.Error(next.Err))
		}
	}

	switch e := eff.(type) {
	case ApplyEffect:
		s.listing.Upsert(e.Record)
	case LookupEffect, CommitEffect:
		s.inflight++
		go s.run(e)
	}

	return next
}

// Decode submits a decoded code.
func (s *Session) Decode(code string) State { return s.Dispatch(Decode{Code: code}) }

// Edit starts drafting changes to the matched record.
func (s *Session) Edit() State { return s.Dispatch(Edit{}) }

// SetNote updates the draft note.
func (s *Session) SetNote(note string) State { return s.Dispatch(SetNote{Note: note}) }

// SetAuthor updates the draft author.
func (s *Session) SetAuthor(author string) State { return s.Dispatch(SetAuthor{Author: author}) }

// SetMedia updates the draft media handle.
func (s *Session) SetMedia(handle string) State { return s.Dispatch(SetMedia{Handle: handle}) }

// Save commits the draft.
func (s *Session) Save() State { return s.Dispatch(Save{}) }

// Rescan returns to Idle, abandoning any view or draft.
func (s *Session) Rescan() State { return s.Dispatch(Rescan{}) }

// Wait blocks until no effect is in flight.
func (s *Session) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.settled.Wait()
	}
}

// Close discards the session. Effects already in flight run to completion.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) run(eff Effect) {
	defer func() {
		s.mu.Lock()
		s.inflight--
		if s.inflight == 0 {
			s.settled.Broadcast()
		}
		s.mu.Unlock()
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	switch e := eff.(type) {
	case LookupEffect:
		res, err := s.engine.Lookup(ctx, e.Code)
		s.Dispatch(LookupDone{Result: res, Err: err})
	case CommitEffect:
		rec, err := s.engine.Commit(ctx, e.Draft, e.TargetID)
		s.Dispatch(CommitDone{Record: rec, Err: err})
		if err == nil && s.onSaved != nil {
			s.onSaved(s.id, rec)
		}
	}
}

func isCompletion(ev Event) bool {
	switch ev.(type) {
	case LookupDone, CommitDone:
		return true
	}
	return false
}
