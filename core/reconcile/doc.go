// Package reconcile maps scanned QR codes to canonical records and
// sequences the two-step commit (media upload, then record write).
//
// # Architecture
//
// The package consists of three parts:
//
// 1. Types: Record, Draft, Payload and LookupResult plus the sentinel error
//    taxonomy (ErrIncompleteDraft, ErrLookupFailed, ErrStoreUnavailable,
//    ErrNotFound, ErrUploadFailed, ErrMediaUploadFailed, ErrRemoveFailed).
//
// 2. Adapters: the RecordStore and MediaUploader interfaces the engine talks
//    to. Concrete implementations live in feature/records/store (GORM) and
//    feature/media (MinIO).
//
// 3. Engine: Lookup, Commit and Remove. The engine owns no listing state;
//    callers apply commit and remove outcomes to core/listing themselves.
//
// # Guarantees
//
//   - Lookup distinguishes "confirmed absent" from "store unreachable".
//   - Commit validates drafts before any remote call.
//   - A local media handle is uploaded before any record write, and a failed
//     upload leaves the store untouched.
//   - Upload and write are not atomic across the two services. An
//     interruption between them leaves an orphaned blob.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(recordStore, uploader, logger)
//
//	res, err := engine.Lookup(ctx, "ABC123")
//	if err != nil {
//	    // store unreachable: offer a retry, not a new record
//	}
//	if !res.Found() {
//	    rec, err := engine.Commit(ctx, reconcile.Draft{Code: "ABC123", Media: path, Note: "hallway", Author: "Alice"}, "")
//	}
package reconcile
