// Package config provides configuration management for the street sync service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of every
// section, so a bare environment still yields a runnable configuration.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: registry database connection (MySQL or SQLite)
//   - Storage: S3/MinIO credentials and snapshot bucket
//   - Log: Logging level and format
//   - Feed: location of the raw address feed (path, URL or object)
//   - Snapshot: page size, folders, retention and failure policy
//
// Environment keys are the upper-cased dotted path with underscores,
// e.g. SNAPSHOT_PAGE_SIZE or FEED_URL.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Snapshot.PageSize)
package config
