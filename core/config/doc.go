// Package config provides configuration management for the QR registry.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: record store driver and connection details
//   - Storage: S3/MinIO credentials, bucket and media key prefix
//   - Log: Logging level and format
//   - Scan: spool directory, recent listing size, per-operation timeout, session TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
