package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"qr-registry/core/reconcile"
	"qr-registry/core/storage"
	"qr-registry/core/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// maxPresignExpiry is the longest validity S3 accepts for a presigned URL.
const maxPresignExpiry = 7 * 24 * time.Hour

// Uploader pushes local media files to the blob store.
type Uploader struct {
	client    storage.Client
	bucket    string
	prefix    string
	publicURL string
	expiry    time.Duration
	logger    *zap.Logger
}

// NewUploader creates a media uploader from the storage configuration.
func NewUploader(client storage.Client, cfg storage.Config, logger *zap.Logger) *Uploader {
	expiry := time.Duration(cfg.PresignExpiryHours) * time.Hour
	if expiry <= 0 || expiry > maxPresignExpiry {
		expiry = maxPresignExpiry
	}
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.MediaPrefix, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		expiry:    expiry,
		logger:    logger,
	}
}

// EnsureBucket creates the media bucket when it does not exist.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}

	u.logger.Info("Creating media bucket", zap.String("bucket", u.bucket))
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	return nil
}

// Upload stores the image behind a local handle and returns its durable URL.
// Every call writes a new object; nothing is retried.
func (u *Uploader) Upload(ctx context.Context, handle string) (string, error) {
	if strings.TrimSpace(handle) == "" {
		return "", fmt.Errorf("%w: empty media handle", reconcile.ErrUploadFailed)
	}

	path := utils.LocalPath(handle)
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", reconcile.ErrUploadFailed, path)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported content type %s", reconcile.ErrUploadFailed, mtype.String())
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}

	key := u.objectKey(path)
	l := u.logger.With(zap.String("bucket", u.bucket), zap.String("key", key))

	_, err = u.client.PutObject(ctx, u.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: mtype.String(),
	})
	if err != nil {
		l.Warn("Media upload failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}

	ref, err := u.remoteRef(ctx, key)
	if err != nil {
		l.Warn("Media URL resolution failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", reconcile.ErrUploadFailed, err)
	}

	l.Info("Media uploaded", zap.Int64("size", info.Size()), zap.String("content_type", mtype.String()))
	return ref, nil
}

// objectKey builds <prefix>/<uuid>-<basename>. The uuid keeps distinct
// handles with equal base names apart.
func (u *Uploader) objectKey(path string) string {
	name := utils.SafeKeySegment(utils.BaseName(path))
	if name == "" {
		name = "media"
	}
	key := uuid.New().String() + "-" + name
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}
	return key
}

func (u *Uploader) remoteRef(ctx context.Context, key string) (string, error) {
	if u.publicURL != "" {
		return u.publicURL + "/" + u.bucket + "/" + key, nil
	}
	signed, err := u.client.PresignedGetObject(ctx, u.bucket, key, u.expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}
