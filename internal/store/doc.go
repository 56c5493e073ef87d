// Package store provides file-based persistence for the CLI's local state.
//
// Data is serialised as JSON under the configured home directory and written
// atomically through a temp file and rename. All methods are
// concurrency-safe via internal locking.
package store
