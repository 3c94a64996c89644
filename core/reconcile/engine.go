package reconcile

import (
	"context"
	"fmt"
	"strings"

	"qr-registry/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine maps scanned codes to records and sequences media uploads with
// record writes. It never mutates a listing; callers apply the outcomes.
type Engine struct {
	store    RecordStore
	uploader MediaUploader
	logger   *zap.Logger
	lookups  singleflight.Group
}

// NewEngine creates a reconciliation engine.
func NewEngine(store RecordStore, uploader MediaUploader, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		uploader: uploader,
		logger:   logger,
	}
}

// Lookup resolves a code to its canonical record.
// Zero matches is a NotFound result; one or more yields the first match,
// which the store orders newest first. Store failures wrap ErrLookupFailed
// and are never reported as NotFound.
func (e *Engine) Lookup(ctx context.Context, code string) (LookupResult, error) {
	result := LookupResult{Code: code}

	// No record can carry a blank code, so absence is confirmed without a query
	if strings.TrimSpace(code) == "" {
		return result, nil
	}

	// Identical lookups from concurrent sessions share one store query. The
	// query is detached from the caller's deadline so one session's timeout
	// cannot fail another's lookup; each caller still gives up on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := e.lookups.DoChan(code, func() (any, error) {
		return e.store.Query(shared, FieldCode, code)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		e.logger.Warn("Lookup abandoned", zap.String("code", code), zap.Error(ctx.Err()))
		return result, fmt.Errorf("%w: %w", ErrLookupFailed, ctx.Err())
	}
	if res.Err != nil {
		e.logger.Warn("Lookup failed", zap.String("code", code), zap.Error(res.Err))
		return result, fmt.Errorf("%w: %w", ErrLookupFailed, res.Err)
	}

	matches := res.Val.([]Record)
	result.Matches = len(matches)
	if len(matches) == 0 {
		return result, nil
	}

	if len(matches) > 1 {
		e.logger.Warn("Multiple records share a code, using the newest",
			zap.String("code", code),
			zap.Int("matches", len(matches)),
			zap.String("id", matches[0].ID),
		)
	}

	rec := matches[0]
	result.Record = &rec
	return result, nil
}

// Commit persists a draft. A local media handle is uploaded before any
// record write; an upload failure aborts the commit with
// ErrMediaUploadFailed and nothing is written. With a targetID the record
// is updated, otherwise a new one is created.
func (e *Engine) Commit(ctx context.Context, draft Draft, targetID string) (Record, error) {
	if err := draft.Validate(); err != nil {
		return Record{}, err
	}

	l := e.logger.With(zap.String("code", draft.Code), zap.String("target_id", targetID))

	mediaRef := draft.Media
	if !utils.IsRemoteRef(draft.Media) {
		ref, err := e.uploader.Upload(ctx, draft.Media)
		if err != nil {
			l.Warn("Media upload failed, commit aborted", zap.Error(err))
			return Record{}, fmt.Errorf("%w: %w", ErrMediaUploadFailed, err)
		}
		mediaRef = ref
	}

	payload := Payload{
		Code:     draft.Code,
		MediaRef: mediaRef,
		Note:     draft.Note,
		Author:   draft.Author,
	}

	if targetID != "" {
		rec, err := e.store.Update(ctx, targetID, payload)
		if err != nil {
			l.Error("Record update failed", zap.Error(err))
			return Record{}, err
		}
		l.Info("Record updated")
		return rec, nil
	}

	rec, err := e.store.Create(ctx, payload)
	if err != nil {
		l.Error("Record create failed", zap.Error(err))
		return Record{}, err
	}
	l.Info("Record created", zap.String("id", rec.ID))
	return rec, nil
}

// Remove deletes a record by id. Associated media is left in the blob store.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		e.logger.Error("Record remove failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRemoveFailed, err)
	}
	e.logger.Info("Record removed", zap.String("id", id))
	return nil
}

// RemoveByCode deletes every record matching code and returns the removed ids.
// On failure the ids removed so far are returned with the error.
func (e *Engine) RemoveByCode(ctx context.Context, code string) ([]string, error) {
	matches, err := e.store.Query(ctx, FieldCode, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoveFailed, err)
	}

	removed := make([]string, 0, len(matches))
	for _, rec := range matches {
		if err := e.Remove(ctx, rec.ID); err != nil {
			return removed, err
		}
		removed = append(removed, rec.ID)
	}
	return removed, nil
}

// Recent returns the newest records, at most limit of them.
func (e *Engine) Recent(ctx context.Context, limit int) ([]Record, error) {
	return e.store.Recent(ctx, limit)
}

// All returns every record, newest first.
func (e *Engine) All(ctx context.Context) ([]Record, error) {
	return e.store.GetAll(ctx)
}
