// Package records implements the record listing and management feature.
//
// It is the HTTP face of the reconciliation engine for everything that does
// not need a scan session: listing, lookup, direct create, edit and delete.
// Writes go through the engine and are then applied to the shared listing
// cache, so scanner sessions and this feature always show the same set.
//
// # HTTP Endpoints
//
//   - GET /records : Listing, newest first (?refresh=true reloads from the store).
//   - GET /records/recent : Newest records (?limit=N, default from config).
//   - GET /records/lookup?code= : Resolve a code; 404 when absent.
//   - POST /records : Create a record from a complete draft.
//   - PUT /records/:id : Edit a record in place.
//   - DELETE /records/:id : Delete one record.
//   - DELETE /records?code= : Delete every record with a code.
package records
