// Package server holds the HTTP server configuration.
//
// It is kept separate from core/config so features can depend on the server
// settings (host name for access URLs, private-instance mode) without
// importing the full configuration tree.
package server
