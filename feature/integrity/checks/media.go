package checks

import (
	"context"
	"fmt"
	"sort"

	"qr-registry/core/reconcile"
	"qr-registry/core/storage"
	"qr-registry/core/utils"

	"github.com/minio/minio-go/v7"
)

// MediaReport cross-checks record media refs against the bucket contents.
type MediaReport struct {
	Records int `json:"records"`
	Objects int `json:"objects"`
	// MissingMedia lists ids of records whose media object is gone.
	MissingMedia []string `json:"missing_media"`
	// Foreign lists ids of records whose media lives outside the bucket.
	Foreign []string `json:"foreign"`
	// Orphans lists object keys no record refers to, e.g. uploads whose
	// record write never happened.
	Orphans []string `json:"orphans"`
}

// CheckMedia lists every object under prefix and matches it against records.
func CheckMedia(ctx context.Context, client storage.Client, bucket, prefix string, records []reconcile.Record) (*MediaReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	folder := folderOf(prefix)
	objects := make(map[string]bool)
	opts := minio.ListObjectsOptions{Prefix: folder, Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		// Folder markers are not media
		if obj.Key == folder {
			continue
		}
		objects[obj.Key] = false
	}

	report := &MediaReport{
		Records:      len(records),
		Objects:      len(objects),
		MissingMedia: []string{},
		Foreign:      []string{},
		Orphans:      []string{},
	}

	for _, rec := range records {
		key, ok := utils.ObjectKeyFromRef(rec.MediaRef, bucket)
		if !ok {
			report.Foreign = append(report.Foreign, rec.ID)
			continue
		}
		if _, found := objects[key]; !found {
			report.MissingMedia = append(report.MissingMedia, rec.ID)
			continue
		}
		objects[key] = true
	}

	for key, referenced := range objects {
		if !referenced {
			report.Orphans = append(report.Orphans, key)
		}
	}
	sort.Strings(report.Orphans)

	return report, nil
}
