// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, and request parsing.
//
// Error and confirmation bodies use a single {"message": ...} shape so
// that every endpoint speaks the same contract.
package httputil
