package reconcile

import "context"

// RecordStore is the typed façade over the remote document store.
// Implementations perform no retries; retry policy belongs to the caller.
type RecordStore interface {
	// Query returns every record whose field equals value, newest first.
	// An unknown field yields ErrInvalidField.
	Query(ctx context.Context, field Field, value string) ([]Record, error)

	// GetAll returns every record, newest first.
	GetAll(ctx context.Context) ([]Record, error)

	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Create inserts a record. The store assigns ID and CreatedAt.
	Create(ctx context.Context, payload Payload) (Record, error)

	// Update overwrites the writable fields of the record with the given id
	// and returns the stored record. A missing id yields ErrNotFound.
	// CreatedAt is never modified.
	Update(ctx context.Context, id string, payload Payload) (Record, error)

	// Delete removes the record with the given id. A missing id yields ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// MediaUploader turns a local media handle into a durable remote reference.
type MediaUploader interface {
	// Upload stores the media behind handle and returns its download URL.
	// Failures wrap ErrUploadFailed. Implementations never retry.
	Upload(ctx context.Context, handle string) (string, error)
}
