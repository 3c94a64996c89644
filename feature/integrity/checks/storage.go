package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"qr-registry/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the media bucket.
type StorageReport struct {
	Bucket        string `json:"bucket"`
	BucketExists  bool   `json:"bucket_exists"`
	Prefix        string `json:"prefix"`
	PrefixPresent bool   `json:"prefix_present"`
}

// Healthy reports whether media can be written under the prefix.
func (r StorageReport) Healthy() bool {
	return r.BucketExists && r.PrefixPresent
}

// CheckStorage inspects the bucket and the media prefix folder.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Prefix: folderOf(prefix)}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    report.Prefix,
		Recursive: false,
		MaxKeys:   1,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", report.Prefix, obj.Err)
		}
		report.PrefixPresent = true
		break
	}

	return report, nil
}

// FixStorage creates whatever CheckStorage found missing.
func FixStorage(ctx context.Context, client storage.Client, logger *zap.Logger, report *StorageReport) error {
	if !report.BucketExists {
		if err := client.MakeBucket(ctx, report.Bucket, minio.MakeBucketOptions{}); err != nil {
			logger.Error("Failed to create bucket", zap.String("bucket", report.Bucket), zap.Error(err))
			return err
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
		report.BucketExists = true
	}

	if !report.PrefixPresent {
		_, err := client.PutObject(ctx, report.Bucket, report.Prefix, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", report.Prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", report.Prefix))
		report.PrefixPresent = true
	}
	return nil
}

func folderOf(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
