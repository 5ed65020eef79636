// Package errors collects the sentinel errors used across the resolution
// engine, matching the error-kind taxonomy (§7): each kind is absorbed at a
// specific boundary rather than surfaced as a panic, so resolution stays
// total over all inputs.
package errors

import "errors"

// Common errors.
var (
	ErrParseFailed         = errors.New("uri parse failed")
	ErrConfigUnavailable   = errors.New("config source unavailable")
	ErrDownloadFailed      = errors.New("pac download failed")
	ErrResponseTooLarge    = errors.New("pac response exceeded max size")
	ErrUnexpectedStatus    = errors.New("pac fetch unexpected status code")
	ErrPacCompileFailed    = errors.New("pac compile failed")
	ErrPacRunFailed        = errors.New("pac evaluation failed")
	ErrNetworkDown         = errors.New("network unavailable")
	ErrNoRuntime           = errors.New("no pac runtime installed")
	ErrDBusUnknownMethod   = errors.New("unknown method")
	ErrDBusNameTaken       = errors.New("bus name already owned")
	ErrForcedSourceUnknown = errors.New("forced config source not registered")
)
