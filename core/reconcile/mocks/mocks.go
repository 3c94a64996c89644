package mocks

import (
	"context"

	"qr-registry/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// RecordStore is a mock implementation of reconcile.RecordStore
type RecordStore struct {
	mock.Mock
}

func (m *RecordStore) Query(ctx context.Context, field reconcile.Field, value string) ([]reconcile.Record, error) {
	args := m.Called(ctx, field, value)
	recs, _ := args.Get(0).([]reconcile.Record)
	return recs, args.Error(1)
}

func (m *RecordStore) GetAll(ctx context.Context) ([]reconcile.Record, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]reconcile.Record)
	return recs, args.Error(1)
}

func (m *RecordStore) Recent(ctx context.Context, limit int) ([]reconcile.Record, error) {
	args := m.Called(ctx, limit)
	recs, _ := args.Get(0).([]reconcile.Record)
	return recs, args.Error(1)
}

func (m *RecordStore) Create(ctx context.Context, payload reconcile.Payload) (reconcile.Record, error) {
	args := m.Called(ctx, payload)
	rec, _ := args.Get(0).(reconcile.Record)
	return rec, args.Error(1)
}

func (m *RecordStore) Update(ctx context.Context, id string, payload reconcile.Payload) (reconcile.Record, error) {
	args := m.Called(ctx, id, payload)
	rec, _ := args.Get(0).(reconcile.Record)
	return rec, args.Error(1)
}

func (m *RecordStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MediaUploader is a mock implementation of reconcile.MediaUploader
type MediaUploader struct {
	mock.Mock
}

func (m *MediaUploader) Upload(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}
