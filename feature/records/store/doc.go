// Package store implements the record document store on GORM.
//
// Any GORM dialector works; core/database opens MySQL, Postgres or SQLite.
// Reads are ordered created_at DESC, id DESC so the first match of a lookup
// is the newest record. Driver failures wrap reconcile.ErrStoreUnavailable,
// and updates or deletes that touch no row return reconcile.ErrNotFound.
package store
