// Package api implements the HTTP client for the forge REST API.
//
// It owns transport concerns only: authentication headers, JSON
// round-tripping, per-client proxy configuration, retry with exponential
// backoff, and the mapping of HTTP failures onto typed errors. The public
// SDK package wraps it and exposes domain operations.
package api
