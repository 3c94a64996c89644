// Package server holds the HTTP server configuration and error mapping.
//
// While the cmd package handles server startup, this package defines the
// configuration structure and its validation helpers.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key that protects
// every route except the swagger UI.
//
// # Errors
//
// StatusFor translates engine sentinels into status codes: an incomplete
// draft is 422, a missing record 404, and any store or blob store failure 502.
package server
