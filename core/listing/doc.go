// Package listing holds the in-memory record listing shared by the listing
// view and scan sessions.
//
// The Cache keeps insertion/refresh order for display and guarantees at most
// one entry per id. A full refresh (ReplaceAll / Refresh) and incremental
// Upsert / Remove calls may interleave; the last writer wins.
package listing
