// Package logger builds the zap logger shared by the server, the CLI
// commands and the scan sessions.
//
// Debug level selects zap's development preset, everything else the
// production preset. Format "console" gives colored human output for local
// runs; the default is JSON with time, level and message keys.
//
// Request handlers derive a child logger with WithRayID so lines emitted
// while serving a scan or a record write carry the request's ray_id.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithRayID(log, c)
//	l.Warn("Lookup failed", zap.String("code", code), zap.Error(err))
package logger
