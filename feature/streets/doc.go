// Package streets runs the street address reconciliation.
//
// A run reads the fixed-width street feed, loads the canonical registry from
// the database, matches every feed range to a registry range and writes the
// result as a paginated JSON snapshot to object storage. The package exposes
// the run over HTTP (POST /streets/reconcile) and to the CLI.
//
// Concurrent runs with the same options are collapsed into one; the report of
// the last completed run is kept in memory and served at /streets/status.
package streets
