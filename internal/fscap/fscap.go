// Package fscap implements Stof's filesystem capability (spec.md §4.J):
// a revocable wrapper around a billy.Filesystem that format plugins and
// library functions consult before doing any file I/O. Grounded on the
// teacher's internal/fs/root.go (a single rooted filesystem handle shared
// across the ingest pipeline), generalized from the teacher's own ingest
// domain to Stof's format-plugin file import/export contract.
package fscap

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

// Capability wraps a billy.Filesystem. A nil *Capability (or one built with
// Disabled()) denies every operation — this is the "revoked" state an
// embedder leaves a Document in in order to sandbox it (spec.md §4.J: a
// Document with no filesystem capability simply can't import/export files,
// full stop, regardless of what formats are registered).
type Capability struct {
	fs billy.Filesystem
}

// Disabled returns a Capability that denies all filesystem access.
func Disabled() *Capability { return &Capability{} }

// OS grants access rooted at root on the real filesystem.
func OS(root string) *Capability { return &Capability{fs: osfs.New(root)} }

// Mem grants access to a throwaway in-memory filesystem, useful for tests
// and for embedders that want "file" semantics without touching disk.
func Mem() *Capability { return &Capability{fs: memfs.New()} }

func (c *Capability) enabled() bool { return c != nil && c.fs != nil }

func (c *Capability) ReadFile(path string) ([]byte, *stoferrors.Error) {
	if !c.enabled() {
		return nil, stoferrors.New(stoferrors.KindFilesystemNotAllowed, "filesystem capability not granted")
	}
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFilesystemNotFound, err, "open %s", path)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "read %s", path)
	}
	return data, nil
}

func (c *Capability) WriteFile(path string, data []byte) *stoferrors.Error {
	if !c.enabled() {
		return stoferrors.New(stoferrors.KindFilesystemNotAllowed, "filesystem capability not granted")
	}
	f, err := c.fs.Create(path)
	if err != nil {
		return stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "create %s", path)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "write %s", path)
	}
	return nil
}

// Billy exposes the underlying billy.Filesystem for tools (cmd/stofmount)
// that need the full filesystem interface rather than the read/write pair
// above.
func (c *Capability) Billy() (billy.Filesystem, *stoferrors.Error) {
	if !c.enabled() {
		return nil, stoferrors.New(stoferrors.KindFilesystemNotAllowed, "filesystem capability not granted")
	}
	return c.fs, nil
}
