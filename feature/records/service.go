package records

import (
	"context"

	"qr-registry/core/listing"
	"qr-registry/core/reconcile"

	"go.uber.org/zap"
)

// Service exposes record operations and keeps the listing in step with them.
type Service struct {
	engine      *reconcile.Engine
	listing     *listing.Cache
	recentLimit int
	logger      *zap.Logger
}

// NewService creates a records service.
func NewService(engine *reconcile.Engine, cache *listing.Cache, recentLimit int, logger *zap.Logger) *Service {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &Service{
		engine:      engine,
		listing:     cache,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// Lookup resolves a code to its canonical record.
func (s *Service) Lookup(ctx context.Context, code string) (reconcile.LookupResult, error) {
	return s.engine.Lookup(ctx, code)
}

// List returns the listing. It is loaded from the store on first use or when refresh is set.
func (s *Service) List(ctx context.Context, refresh bool) ([]reconcile.Record, error) {
	if refresh || s.listing.Refreshed().IsZero() {
		return s.listing.Refresh(ctx, s.engine.All)
	}
	return s.listing.All(), nil
}

// Recent returns the newest records. A non-positive limit uses the configured default.
func (s *Service) Recent(ctx context.Context, limit int) ([]reconcile.Record, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	return s.engine.Recent(ctx, limit)
}

// Create commits a new record from draft.
func (s *Service) Create(ctx context.Context, draft reconcile.Draft) (reconcile.Record, error) {
	return s.commit(ctx, draft, "")
}

// Update commits draft over the record with the given id.
func (s *Service) Update(ctx context.Context, id string, draft reconcile.Draft) (reconcile.Record, error) {
	return s.commit(ctx, draft, id)
}

// Delete removes a record and drops it from the listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.engine.Remove(ctx, id); err != nil {
		return err
	}
	s.listing.Remove(id)
	return nil
}

// DeleteByCode removes every record with the given code and returns their ids.
// Records removed before a failure are dropped from the listing too.
func (s *Service) DeleteByCode(ctx context.Context, code string) ([]string, error) {
	removed, err := s.engine.RemoveByCode(ctx, code)
	s.listing.Remove(removed...)
	return removed, err
}

func (s *Service) commit(ctx context.Context, draft reconcile.Draft, id string) (reconcile.Record, error) {
	rec, err := s.engine.Commit(ctx, draft, id)
	if err != nil {
		return reconcile.Record{}, err
	}
	s.listing.Upsert(rec)
	return rec, nil
}
