// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: Requires the configured API key, sent as X-API-Key or as a Bearer
//     token. An empty key disables the check for local use.
//   - RayID: Reuses the caller's X-Ray-ID or generates one, stores it in the
//     request locals and echoes it in the response so logs can be correlated.
//
// RayID is registered first so that every log line, including auth failures,
// carries the id.
package middleware
