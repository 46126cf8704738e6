// Package store holds the locally-cached views of flights and seal scans
// and keeps them reconciled with the remote store. All remote failures are
// mapped to the sentinel errors below before they reach handler code; no
// raw driver errors cross this boundary.
package store

import "errors"

var (
	// ErrValidation is a local, pre-network rejection of malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrRemoteUnavailable means the backing store cannot be reached;
	// cached state is preserved and the caller may retry.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrPersistFailed means the store rejected or failed to apply a
	// write; any optimistic local state has been rolled back.
	ErrPersistFailed = errors.New("persist failed")
	// ErrRateLimited is returned by the account-request relay only.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotFound marks operations referencing a since-deleted id.
	ErrNotFound = errors.New("not found")
)
