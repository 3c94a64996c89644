// Package integrity provides system health checks for the record registry.
//
// It validates the infrastructure the reconciliation engine writes to: the
// media bucket, the record table, and the agreement between the two.
//
// # Checks Provided
//
//   - Storage: Checks that the media bucket and prefix folder exist (fixable).
//   - Schema: Validates that the qr_records table carries every column of the record model.
//   - Media: Lists records whose media object is missing and objects no record refers to.
//     Orphans are expected after an upload whose record write failed.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs storage check (supports ?fix=true).
//   - GET /integrity/media : Runs media cross-check.
//   - GET /integrity/schema : Runs schema check.
package integrity
