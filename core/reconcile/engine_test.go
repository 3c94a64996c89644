package reconcile_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"qr-registry/core/reconcile"
	"qr-registry/core/reconcile/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine() (*reconcile.Engine, *mocks.RecordStore, *mocks.MediaUploader) {
	store := new(mocks.RecordStore)
	uploader := new(mocks.MediaUploader)
	return reconcile.NewEngine(store, uploader, zap.NewNop()), store, uploader
}

func validDraft() reconcile.Draft {
	return reconcile.Draft{
		Code:   "ABC123",
		Media:  "/tmp/h1.jpg",
		Note:   "hallway",
		Author: "Alice",
	}
}

func TestLookup_NotFound(t *testing.T) {
	engine, store, _ := newEngine()
	store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").Return([]reconcile.Record{}, nil)

	res, err := engine.Lookup(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Equal(t, 0, res.Matches)
	assert.Equal(t, "ABC123", res.Code)
}

func TestLookup_FirstMatchWins(t *testing.T) {
	engine, store, _ := newEngine()
	newest := reconcile.Record{ID: "02", Code: "XYZ", Note: "newest"}
	older := reconcile.Record{ID: "01", Code: "XYZ", Note: "older"}
	store.On("Query", mock.Anything, reconcile.FieldCode, "XYZ").Return([]reconcile.Record{newest, older}, nil)

	res, err := engine.Lookup(context.Background(), "XYZ")
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, newest, *res.Record)
	assert.Equal(t, 2, res.Matches)
}

func TestLookup_StoreFailureIsNotNotFound(t *testing.T) {
	engine, store, _ := newEngine()
	store.On("Query", mock.Anything, reconcile.FieldCode, "ABC123").
		Return(nil, fmt.Errorf("%w: connection refused", reconcile.ErrStoreUnavailable))

	res, err := engine.Lookup(context.Background(), "ABC123")
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrLookupFailed)
	assert.ErrorIs(t, err, reconcile.ErrStoreUnavailable)
	assert.False(t, res.Found())
}

// blockingStore answers Query only once released, or fails when its ctx ends.
type blockingStore struct {
	reconcile.RecordStore
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *blockingStore) Query(ctx context.Context, field reconcile.Field, value string) ([]reconcile.Record, error) {
	if s.calls.Add(1) == 1 {
		close(s.started)
	}
	select {
	case <-s.release:
		return []reconcile.Record{{ID: "01", Code: value}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestLookup_SharedQueryOutlivesCallerDeadline(t *testing.T) {
	store := &blockingStore{started: make(chan struct{}), release: make(chan struct{})}
	engine := reconcile.NewEngine(store, new(mocks.MediaUploader), zap.NewNop())

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	shortErr := make(chan error, 1)
	go func() {
		_, err := engine.Lookup(short, "ABC123")
		shortErr <- err
	}()
	<-store.started

	type outcome struct {
		res reconcile.LookupResult
		err error
	}
	patient := make(chan outcome, 1)
	go func() {
		res, err := engine.Lookup(context.Background(), "ABC123")
		patient <- outcome{res, err}
	}()

	err := <-shortErr
	assert.ErrorIs(t, err, reconcile.ErrLookupFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(store.release)
	select {
	case out := <-patient:
		require.NoError(t, out.err)
		assert.True(t, out.res.Found())
	case <-time.After(time.Second):
		t.Fatal("lookup without deadline did not complete")
	}
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestLookup_BlankCodeSkipsStore(t *testing.T) {
	engine, store, _ := newEngine()

	res, err := engine.Lookup(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, res.Found())
	store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_IncompleteDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *reconcile.Draft)
		field  string
	}{
		{"Missing Code", func(d *reconcile.Draft) { d.Code = "" }, "code"},
		{"Missing Media", func(d *reconcile.Draft) { d.Media = "" }, "media"},
		{"Missing Note", func(d *reconcile.Draft) { d.Note = "" }, "note"},
		{"Blank Author", func(d *reconcile.Draft) { d.Author = "   " }, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store, uploader := newEngine()
			draft := validDraft()
			tt.mutate(&draft)

			_, err := engine.Commit(context.Background(), draft, "")
			assert.ErrorIs(t, err, reconcile.ErrIncompleteDraft)
			assert.Contains(t, err.Error(), tt.field)

			uploader.AssertNumberOfCalls(t, "Upload", 0)
			store.AssertNumberOfCalls(t, "Create", 0)
			store.AssertNumberOfCalls(t, "Update", 0)
		})
	}
}

func TestCommit_CreateUploadsFirst(t *testing.T) {
	engine, store, uploader := newEngine()
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	ref := "https://cdn.example.com/qr/uuid-h1.jpg"

	var order []string
	uploader.On("Upload", mock.Anything, "/tmp/h1.jpg").
		Run(func(mock.Arguments) { order = append(order, "upload") }).
		Return(ref, nil)

	expected := reconcile.Payload{Code: "ABC123", MediaRef: ref, Note: "hallway", Author: "Alice"}
	store.On("Create", mock.Anything, expected).
		Run(func(mock.Arguments) { order = append(order, "create") }).
		Return(reconcile.Record{
			ID: "01J", Code: "ABC123", MediaRef: ref, Note: "hallway", Author: "Alice", CreatedAt: created,
		}, nil)

	rec, err := engine.Commit(context.Background(), validDraft(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "create"}, order)
	assert.Equal(t, "01J", rec.ID)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, ref, rec.MediaRef)
	assert.Equal(t, "ABC123", rec.Code)
	assert.Equal(t, "hallway", rec.Note)
	assert.Equal(t, "Alice", rec.Author)
	store.AssertNumberOfCalls(t, "Update", 0)
}

func TestCommit_UpdateWithRemoteMediaSkipsUpload(t *testing.T) {
	engine, store, uploader := newEngine()
	draft := validDraft()
	draft.Media = "https://cdn.example.com/qr/existing.jpg"
	draft.Note = "moved to lobby"

	payload := reconcile.Payload{Code: "ABC123", MediaRef: draft.Media, Note: "moved to lobby", Author: "Alice"}
	store.On("Update", mock.Anything, "01J", payload).
		Return(reconcile.Record{ID: "01J", Code: "ABC123", MediaRef: draft.Media, Note: "moved to lobby", Author: "Alice"}, nil)

	rec, err := engine.Commit(context.Background(), draft, "01J")
	require.NoError(t, err)
	assert.Equal(t, "moved to lobby", rec.Note)

	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	store.AssertNumberOfCalls(t, "Create", 0)
}

func TestCommit_UploadFailureWritesNothing(t *testing.T) {
	engine, store, uploader := newEngine()
	uploader.On("Upload", mock.Anything, "/tmp/h1.jpg").
		Return("", fmt.Errorf("%w: no such file", reconcile.ErrUploadFailed))

	_, err := engine.Commit(context.Background(), validDraft(), "")
	assert.ErrorIs(t, err, reconcile.ErrMediaUploadFailed)
	assert.ErrorIs(t, err, reconcile.ErrUploadFailed)

	store.AssertNumberOfCalls(t, "Create", 0)
	store.AssertNumberOfCalls(t, "Update", 0)
}

func TestCommit_StoreFailurePropagates(t *testing.T) {
	engine, store, uploader := newEngine()
	uploader.On("Upload", mock.Anything, mock.Anything).Return("https://cdn/x.jpg", nil)
	store.On("Update", mock.Anything, "gone", mock.Anything).Return(nil, reconcile.ErrNotFound)

	_, err := engine.Commit(context.Background(), validDraft(), "gone")
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
}

func TestRemove(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		engine, store, _ := newEngine()
		store.On("Delete", mock.Anything, "01J").Return(nil)

		assert.NoError(t, engine.Remove(context.Background(), "01J"))
		store.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		engine, store, _ := newEngine()
		store.On("Delete", mock.Anything, "nope").Return(reconcile.ErrNotFound)

		err := engine.Remove(context.Background(), "nope")
		assert.ErrorIs(t, err, reconcile.ErrRemoveFailed)
		assert.ErrorIs(t, err, reconcile.ErrNotFound)
	})
}

func TestRemoveByCode(t *testing.T) {
	engine, store, _ := newEngine()
	store.On("Query", mock.Anything, reconcile.FieldCode, "DUP").Return([]reconcile.Record{
		{ID: "a", Code: "DUP"}, {ID: "b", Code: "DUP"}, {ID: "c", Code: "DUP"},
	}, nil)
	store.On("Delete", mock.Anything, "a").Return(nil)
	store.On("Delete", mock.Anything, "b").Return(reconcile.ErrStoreUnavailable)

	removed, err := engine.RemoveByCode(context.Background(), "DUP")
	assert.ErrorIs(t, err, reconcile.ErrRemoveFailed)
	assert.Equal(t, []string{"a"}, removed)
	store.AssertNotCalled(t, "Delete", mock.Anything, "c")
}

func TestRecentAndAll(t *testing.T) {
	engine, store, _ := newEngine()
	recs := []reconcile.Record{{ID: "2"}, {ID: "1"}}
	store.On("Recent", mock.Anything, 10).Return(recs, nil)
	store.On("GetAll", mock.Anything).Return(recs, nil)

	got, err := engine.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	got, err = engine.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}
