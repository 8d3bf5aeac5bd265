// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections from the application's configuration.
// The street registry lives in this database; the engine only reads it.
//
// # Connect
//
// Connect opens the connection, configures the pool and pings the server
// within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the registry loader verify that the
// tables it reads carry the columns it expects before a run starts.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "streets", []string{"id", "is_valid"})
package database
