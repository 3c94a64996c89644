package integrity

import (
	"context"

	"qr-registry/core/listing"
	"qr-registry/core/storage"
	"qr-registry/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	prefix  string
	logger  *zap.Logger
	db      *gorm.DB
	records listing.Loader
}

// NewService creates a new integrity service. records loads the full record
// set for the media cross-check.
func NewService(client storage.Client, bucket, prefix string, logger *zap.Logger, db *gorm.DB, records listing.Loader) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		logger:  logger,
		db:      db,
		records: records,
	}
}

// CheckStorage inspects the media bucket and prefix.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, s.prefix)
}

// FixStorage creates the bucket or prefix folder reported missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	return checks.FixStorage(ctx, s.client, s.logger, report)
}

// CheckMedia matches record media refs against stored objects.
func (s *Service) CheckMedia(ctx context.Context) (*checks.MediaReport, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckMedia(ctx, s.client, s.bucket, s.prefix, recs)
}

// CheckSchema verifies the record table columns.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}
