// Package database handles record store connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, Postgres or SQLite
// connections based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies connection timeouts
// and pool limits, and verifies the connection with a bounded ping. SQLite is
// limited to a single open connection so ":memory:" databases stay coherent.
//
// # Schema Inspection
//
// GetTableColumns backs the integrity feature, which verifies that the records
// table carries every column the record store writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	cols, err := database.GetTableColumns(db, "qr_records")
package database
