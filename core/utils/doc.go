// Package utils converts loosely typed values scanned from database rows.
//
// The registry is read through raw rows whose driver types differ between
// MySQL ([]byte for most columns) and SQLite (int64, string); these helpers
// normalize them.
package utils
