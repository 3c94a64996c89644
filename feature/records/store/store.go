package store

import (
	"context"
	"errors"
	"fmt"

	"qr-registry/core/reconcile"
	"qr-registry/feature/records/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

// Store is a GORM backed reconcile.RecordStore.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a record store on db.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the qr_records table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Record{}); err != nil {
		return unavailable("migrate", err)
	}
	return nil
}

// Query returns the records whose field equals value, newest first.
func (s *Store) Query(ctx context.Context, field reconcile.Field, value string) ([]reconcile.Record, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: %q", reconcile.ErrInvalidField, field)
	}

	var rows []models.Record
	err := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", field), value).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, unavailable("query", err)
	}
	return models.ToDomainList(rows), nil
}

// GetAll returns every record, newest first.
func (s *Store) GetAll(ctx context.Context) ([]reconcile.Record, error) {
	var rows []models.Record
	if err := s.db.WithContext(ctx).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, unavailable("list", err)
	}
	return models.ToDomainList(rows), nil
}

// Recent returns at most limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]reconcile.Record, error) {
	if limit <= 0 {
		return []reconcile.Record{}, nil
	}

	var rows []models.Record
	if err := s.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&rows).Error; err != nil {
		return nil, unavailable("recent", err)
	}
	return models.ToDomainList(rows), nil
}

// Create inserts a new record. The store assigns id and timestamps.
func (s *Store) Create(ctx context.Context, payload reconcile.Payload) (reconcile.Record, error) {
	row := models.FromPayload(payload)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return reconcile.Record{}, unavailable("create", err)
	}
	s.logger.Debug("Record inserted", zap.String("id", row.ID), zap.String("code", row.Code))
	return row.ToDomain(), nil
}

// Update rewrites the mutable fields of the record with the given id.
func (s *Store) Update(ctx context.Context, id string, payload reconcile.Payload) (reconcile.Record, error) {
	var out models.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Existence is checked by read: MySQL reports zero affected rows for a no-op update
		if err := tx.Where("id = ?", id).Take(&out).Error; err != nil {
			return mapReadError(id, err)
		}
		if err := tx.Model(&models.Record{}).Where("id = ?", id).Updates(models.Columns(payload)).Error; err != nil {
			return unavailable("update", err)
		}
		if err := tx.Where("id = ?", id).Take(&out).Error; err != nil {
			return mapReadError(id, err)
		}
		return nil
	})
	if err != nil {
		return reconcile.Record{}, err
	}
	return out.ToDomain(), nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Record{})
	if res.Error != nil {
		return unavailable("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", reconcile.ErrNotFound, id)
	}
	return nil
}

func mapReadError(id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", reconcile.ErrNotFound, id)
	}
	return unavailable("read", err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", reconcile.ErrStoreUnavailable, op, err)
}
