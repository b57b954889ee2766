// Package handlers contains the HTTP handlers of `docsite serve`.
//
// This package provides handlers for:
//   - Documentation pages (assembled per request)
//   - Health and readiness probes
//   - The navigation JSON API
//
// Errors are classified with the foundation/errors package and written through
// its HTTPErrorAdapter; JSON payloads are defined in server/responses.
package handlers
