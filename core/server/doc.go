// Package server holds the HTTP server configuration.
//
// The main application entry point (cmd/start.go) starts the Fiber server;
// this package only defines the listen port and the API key that protects
// the streets endpoints.
package server
