package kv

import "errors"

// Errors returned by the store.
var (
	ErrCorrupt     = errors.New("kv: store file is corrupt")
	ErrLockTimeout = errors.New("kv: lock timeout")
	ErrKeyEmpty    = errors.New("kv: key cannot be empty")
)
