package session

import (
	"strings"

	"qr-registry/core/reconcile"
)

// Phase is the stage of the scan cycle a session is in.
type Phase string

const (
	// PhaseIdle awaits a decoded code. It is the initial and re-entry phase.
	PhaseIdle Phase = "idle"
	// PhaseResolving has a lookup in flight.
	PhaseResolving Phase = "resolving"
	// PhaseViewing shows the matched record read-only.
	PhaseViewing Phase = "viewing"
	// PhaseDrafting collects metadata for a new or edited record.
	PhaseDrafting Phase = "drafting"
	// PhaseSaving has a commit in flight.
	PhaseSaving Phase = "saving"
)

// State is the complete transient state of a scan session.
type State struct {
	Phase Phase `json:"phase"`
	// Code is the code being resolved, viewed or drafted.
	Code string `json:"code,omitempty"`
	// Draft holds the pending fields while drafting or saving.
	Draft reconcile.Draft `json:"draft"`
	// Matched is the record found by the last lookup.
	Matched *reconcile.Record `json:"matched,omitempty"`
	// TargetID is set when the draft edits an existing record.
	TargetID string `json:"target_id,omitempty"`
	// Saved is the record produced by the last successful commit.
	Saved *reconcile.Record `json:"saved,omitempty"`
	// Err is the failure of the last operation, nil after a success.
	Err error `json:"-"`
}

// Initial returns the state of a freshly mounted session.
func Initial() State {
	return State{Phase: PhaseIdle}
}

// Busy reports whether an operation is in flight.
func (s State) Busy() bool {
	return s.Phase == PhaseResolving || s.Phase == PhaseSaving
}

// ErrorMessage returns the text of Err, or "".
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Event is an input to the state machine.
type Event interface{ event() }

// Decode carries a code emitted by the decoder surface.
type Decode struct{ Code string }

// LookupDone reports the outcome of a lookup effect.
type LookupDone struct {
	Result reconcile.LookupResult
	Err    error
}

// Edit switches from viewing a match to drafting changes to it.
type Edit struct{}

// SetNote updates the draft note.
type SetNote struct{ Note string }

// SetAuthor updates the draft author.
type SetAuthor struct{ Author string }

// SetMedia updates the draft media handle.
type SetMedia struct{ Handle string }

// Save requests a commit of the current draft.
type Save struct{}

// CommitDone reports the outcome of a commit effect.
type CommitDone struct {
	Record reconcile.Record
	Err    error
}

// Rescan abandons the current view or draft.
type Rescan struct{}

func (Decode) event()     {}
func (LookupDone) event() {}
func (Edit) event()       {}
func (SetNote) event()    {}
func (SetAuthor) event()  {}
func (SetMedia) event()   {}
func (Save) event()       {}
func (CommitDone) event() {}
func (Rescan) event()     {}

// Effect is a side effect requested by a transition. A nil Effect requests nothing.
type Effect interface{ effect() }

// LookupEffect asks the runner to look up a code.
type LookupEffect struct{ Code string }

// CommitEffect asks the runner to commit a draft.
type CommitEffect struct {
	Draft    reconcile.Draft
	TargetID string
}

// ApplyEffect asks the runner to apply a committed record to the listing.
type ApplyEffect struct{ Record reconcile.Record }

func (LookupEffect) effect() {}
func (CommitEffect) effect() {}
func (ApplyEffect) effect()  {}

// Accepts reports whether ev applies to s. Transition leaves s unchanged
// for events it does not accept.
func Accepts(s State, ev Event) bool {
	switch e := ev.(type) {
	case Decode:
		// Decodes outside Idle are dropped so a pending lookup is never duplicated
		return s.Phase == PhaseIdle && strings.TrimSpace(e.Code) != ""
	case LookupDone:
		return s.Phase == PhaseResolving
	case Edit:
		return s.Phase == PhaseViewing && s.Matched != nil
	case SetNote, SetAuthor, SetMedia, Save:
		return s.Phase == PhaseDrafting
	case CommitDone:
		return s.Phase == PhaseSaving
	case Rescan:
		return s.Phase == PhaseViewing || s.Phase == PhaseDrafting
	}
	return false
}

// Transition computes the next state and the requested effect.
// It is pure: events that do not apply to the current phase leave the
// state unchanged and request nothing.
func Transition(s State, ev Event) (State, Effect) {
	if !Accepts(s, ev) {
		return s, nil
	}

	switch e := ev.(type) {
	case Decode:
		return State{Phase: PhaseResolving, Code: e.Code}, LookupEffect{Code: e.Code}

	case LookupDone:
		if e.Err != nil {
			// Unknown is not absent: go back to Idle so the user can retry
			return State{Phase: PhaseIdle, Code: s.Code, Err: e.Err}, nil
		}
		if e.Result.Found() {
			matched := *e.Result.Record
			return State{Phase: PhaseViewing, Code: s.Code, Matched: &matched}, nil
		}
		return State{Phase: PhaseDrafting, Code: s.Code, Draft: reconcile.Draft{Code: s.Code}}, nil

	case Edit:
		return State{
			Phase:    PhaseDrafting,
			Code:     s.Code,
			Draft:    reconcile.DraftFrom(*s.Matched),
			Matched:  s.Matched,
			TargetID: s.Matched.ID,
		}, nil

	case SetNote:
		s.Draft.Note = e.Note
		s.Err = nil
		return s, nil

	case SetAuthor:
		s.Draft.Author = e.Author
		s.Err = nil
		return s, nil

	case SetMedia:
		s.Draft.Media = e.Handle
		s.Err = nil
		return s, nil

	case Save:
		if err := s.Draft.Validate(); err != nil {
			s.Err = err
			return s, nil
		}
		s.Phase = PhaseSaving
		s.Err = nil
		return s, CommitEffect{Draft: s.Draft, TargetID: s.TargetID}

	case CommitDone:
		if e.Err != nil {
			s.Phase = PhaseDrafting
			s.Err = e.Err
			return s, nil
		}
		saved := e.Record
		return State{Phase: PhaseIdle, Saved: &saved}, ApplyEffect{Record: saved}

	case Rescan:
		return Initial(), nil
	}

	return s, nil
}
