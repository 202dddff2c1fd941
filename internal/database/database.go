// Package database implements the Database Lifecycle (spec §4.6):
// create/open the on-disk index directory layout and hand out handles.
package database

import (
	"os"
	"path/filepath"

	"github.com/jarrod-lowe/mailthread/internal/apperr"
	"github.com/jarrod-lowe/mailthread/internal/backend"
	"github.com/jarrod-lowe/mailthread/internal/pebbleidx"
)

// Handle owns an opened index and the path it was created from.
type Handle struct {
	path  string
	index backend.Index
}

// Create requires path to be an existing directory, creates path/.notmuch
// with mode 0755, and opens the index rooted there.
func Create(path string) (*Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.New(apperr.InputPathMissing, "create", err)
		}
		return nil, apperr.New(apperr.IoError, "create", err)
	}
	if !info.IsDir() {
		return nil, apperr.New(apperr.InputPathNotDirectory, "create", nil)
	}

	notmuchDir := filepath.Join(path, ".notmuch")
	if err := os.MkdirAll(notmuchDir, 0o755); err != nil {
		return nil, apperr.New(apperr.CreateFailure, "create", err)
	}

	return Open(path)
}

// Open requires path/.notmuch to already exist and opens (creating if
// absent) a writable index rooted at path/.notmuch/xapian.
func Open(path string) (*Handle, error) {
	notmuchDir := filepath.Join(path, ".notmuch")
	if _, err := os.Stat(notmuchDir); err != nil {
		return nil, apperr.New(apperr.InputPathMissing, "open", err)
	}

	// The directory is still named "xapian" even though pebble backs it:
	// the name is part of the persisted, spec-mandated on-disk layout.
	xapianDir := filepath.Join(notmuchDir, "xapian")
	idx, err := pebbleidx.Open(xapianDir)
	if err != nil {
		return nil, apperr.New(apperr.BackendException, "open", err)
	}

	return &Handle{path: path, index: idx}, nil
}

// Close releases the index and frees the handle.
func (h *Handle) Close() error {
	if err := h.index.Close(); err != nil {
		return apperr.New(apperr.BackendException, "close", err)
	}
	return nil
}

// GetPath returns the originally supplied path.
func (h *Handle) GetPath() string {
	return h.path
}

// Index returns the handle's backend, for the indexer and query layers.
func (h *Handle) Index() backend.Index {
	return h.index
}
