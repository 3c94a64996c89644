package session

import (
	"errors"
	"testing"

	"qr-registry/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_DecodeOnlyFromIdle(t *testing.T) {
	next, eff := Transition(Initial(), Decode{Code: "ABC123"})
	assert.Equal(t, PhaseResolving, next.Phase)
	assert.Equal(t, "ABC123", next.Code)
	assert.Equal(t, LookupEffect{Code: "ABC123"}, eff)

	// A second decode while resolving is dropped
	again, eff := Transition(next, Decode{Code: "ABC123"})
	assert.Equal(t, next, again)
	assert.Nil(t, eff)
}

func TestTransition_BlankDecodeIgnored(t *testing.T) {
	next, eff := Transition(Initial(), Decode{Code: "   "})
	assert.Equal(t, Initial(), next)
	assert.Nil(t, eff)
}

func TestTransition_LookupOutcomes(t *testing.T) {
	resolving := State{Phase: PhaseResolving, Code: "XYZ"}
	rec := reconcile.Record{ID: "r1", Code: "XYZ", Note: "n"}

	t.Run("found", func(t *testing.T) {
		next, eff := Transition(resolving, LookupDone{Result: reconcile.LookupResult{Code: "XYZ", Record: &rec, Matches: 1}})
		assert.Nil(t, eff)
		assert.Equal(t, PhaseViewing, next.Phase)
		require.NotNil(t, next.Matched)
		assert.Equal(t, rec, *next.Matched)
	})

	t.Run("not found", func(t *testing.T) {
		next, eff := Transition(resolving, LookupDone{Result: reconcile.LookupResult{Code: "XYZ"}})
		assert.Nil(t, eff)
		assert.Equal(t, PhaseDrafting, next.Phase)
		assert.Equal(t, reconcile.Draft{Code: "XYZ"}, next.Draft)
		assert.Empty(t, next.TargetID)
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("timeout")
		next, eff := Transition(resolving, LookupDone{Err: boom})
		assert.Nil(t, eff)
		assert.Equal(t, PhaseIdle, next.Phase)
		assert.Equal(t, "XYZ", next.Code)
		assert.ErrorIs(t, next.Err, boom)
		assert.Equal(t, "timeout", next.ErrorMessage())
	})

	t.Run("stale", func(t *testing.T) {
		next, eff := Transition(Initial(), LookupDone{Result: reconcile.LookupResult{Code: "XYZ"}})
		assert.Equal(t, Initial(), next)
		assert.Nil(t, eff)
	})
}

func TestTransition_EditPrefillsDraft(t *testing.T) {
	rec := reconcile.Record{ID: "r1", Code: "XYZ", MediaRef: "https://cdn/x.jpg", Note: "old", Author: "Bob"}
	viewing := State{Phase: PhaseViewing, Code: "XYZ", Matched: &rec}

	next, eff := Transition(viewing, Edit{})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseDrafting, next.Phase)
	assert.Equal(t, "r1", next.TargetID)
	assert.Equal(t, reconcile.Draft{Code: "XYZ", Media: "https://cdn/x.jpg", Note: "old", Author: "Bob"}, next.Draft)
}

func TestTransition_FieldEditsOnlyWhileDrafting(t *testing.T) {
	drafting := State{Phase: PhaseDrafting, Code: "A", Draft: reconcile.Draft{Code: "A"}, Err: errors.New("stale")}

	next, _ := Transition(drafting, SetNote{Note: "n"})
	next, _ = Transition(next, SetAuthor{Author: "Alice"})
	next, _ = Transition(next, SetMedia{Handle: "/tmp/a.jpg"})
	assert.Equal(t, reconcile.Draft{Code: "A", Note: "n", Author: "Alice", Media: "/tmp/a.jpg"}, next.Draft)
	assert.NoError(t, next.Err)

	idle, eff := Transition(Initial(), SetNote{Note: "ignored"})
	assert.Equal(t, Initial(), idle)
	assert.Nil(t, eff)
}

func TestTransition_SaveIncompleteStaysDrafting(t *testing.T) {
	drafting := State{Phase: PhaseDrafting, Code: "A", Draft: reconcile.Draft{Code: "A", Note: "n"}}

	next, eff := Transition(drafting, Save{})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseDrafting, next.Phase)
	assert.ErrorIs(t, next.Err, reconcile.ErrIncompleteDraft)
	assert.Equal(t, drafting.Draft, next.Draft)
}

func TestTransition_SaveAndCommit(t *testing.T) {
	draft := reconcile.Draft{Code: "A", Media: "/tmp/a.jpg", Note: "n", Author: "Alice"}
	drafting := State{Phase: PhaseDrafting, Code: "A", Draft: draft, TargetID: "r1"}

	saving, eff := Transition(drafting, Save{})
	assert.Equal(t, PhaseSaving, saving.Phase)
	assert.True(t, saving.Busy())
	assert.Equal(t, CommitEffect{Draft: draft, TargetID: "r1"}, eff)

	t.Run("failure keeps draft", func(t *testing.T) {
		boom := errors.New("upload failed")
		next, eff := Transition(saving, CommitDone{Err: boom})
		assert.Nil(t, eff)
		assert.Equal(t, PhaseDrafting, next.Phase)
		assert.Equal(t, draft, next.Draft)
		assert.Equal(t, "r1", next.TargetID)
		assert.ErrorIs(t, next.Err, boom)
	})

	t.Run("success resets and applies", func(t *testing.T) {
		rec := reconcile.Record{ID: "r1", Code: "A"}
		next, eff := Transition(saving, CommitDone{Record: rec})
		assert.Equal(t, ApplyEffect{Record: rec}, eff)
		assert.Equal(t, PhaseIdle, next.Phase)
		assert.Empty(t, next.Draft)
		require.NotNil(t, next.Saved)
		assert.Equal(t, rec, *next.Saved)
	})
}

func TestTransition_Rescan(t *testing.T) {
	rec := reconcile.Record{ID: "r1", Code: "XYZ"}
	for _, s := range []State{
		{Phase: PhaseViewing, Code: "XYZ", Matched: &rec},
		{Phase: PhaseDrafting, Code: "XYZ", Draft: reconcile.Draft{Code: "XYZ", Note: "x"}},
	} {
		next, eff := Transition(s, Rescan{})
		assert.Equal(t, Initial(), next)
		assert.Nil(t, eff)
	}

	// Rescan cannot interrupt an in-flight operation
	saving := State{Phase: PhaseSaving, Code: "XYZ"}
	next, _ := Transition(saving, Rescan{})
	assert.Equal(t, saving, next)
}
