// Package storage provides an abstraction layer for the media blob store.
//
// It wraps the MinIO Go client behind a narrow Client interface covering the
// operations the registry needs: bucket bootstrap, uploads, listing and
// presigned download URLs. Both AWS S3 and self-hosted MinIO are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
