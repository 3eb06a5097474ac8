// Package filesystem provides the *os.Root backed library implementation:
// confined stat/list/open operations over the manga collection. The root
// sandbox prevents any resolution outside the configured directory even if
// path validation were bypassed.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"syscall"

	"github.com/comixd/comixd"
)

// Catalog lists and opens files inside a sandboxed manga root.
type Catalog struct {
	root  *os.Root
	rules comixd.Rules
}

// NewCatalog creates a Catalog over a sandboxed root. The root provides
// confined file operations preventing path traversal.
func NewCatalog(root *os.Root, rules comixd.Rules) *Catalog {
	return &Catalog{root: root, rules: rules}
}

// Stat returns file information for a path relative to the root. An empty
// path addresses the root directory itself. Missing paths map to
// comixd.ErrNotFound and permission failures to comixd.ErrAccessDenied.
func (c *Catalog) Stat(ctx context.Context, p string) (comixd.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return comixd.FileInfo{}, err
	}

	info, err := c.root.Stat(rootRelative(p))
	if err != nil {
		return comixd.FileInfo{}, mapPathError("stat", p, err)
	}

	return comixd.FileInfo{Size: info.Size(), IsDir: info.IsDir()}, nil
}

// List returns the filtered immediate children of a directory in canonical
// order: hidden names and patterns removed, only directories and supported
// file types kept, directories first, natural order within each group.
// An empty directory returns an empty slice.
func (c *Catalog) List(ctx context.Context, p string) ([]comixd.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := rootRelative(p)
	dirEntries, err := fs.ReadDir(c.root.FS(), rel)
	if err != nil {
		return nil, mapPathError("list", p, err)
	}

	entries := make([]comixd.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := de.Name()
		if c.rules.IsHidden(name) {
			continue
		}

		// Stat through the root rather than trusting the dir entry so that
		// symlinked directories classify correctly and dangling links drop out.
		info, statErr := c.root.Stat(path.Join(rel, name))
		if statErr != nil {
			continue
		}

		switch {
		case info.IsDir():
			entries = append(entries, comixd.Entry{Name: name, Kind: comixd.KindDirectory, Size: -1})
		case !info.Mode().IsRegular():
			// Sockets, devices and other specials are never listed.
		case c.rules.IsArchive(name):
			entries = append(entries, comixd.Entry{Name: name, Kind: comixd.KindArchive, Size: info.Size()})
		case c.rules.IsImage(name):
			entries = append(entries, comixd.Entry{Name: name, Kind: comixd.KindImage, Size: info.Size()})
		}
	}

	comixd.SortEntries(entries)
	return entries, nil
}

// Open opens a regular file for reading. The returned handle supports
// random access for container reading; the caller closes it.
func (c *Catalog) Open(ctx context.Context, p string) (comixd.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := c.root.Open(rootRelative(p))
	if err != nil {
		return nil, mapPathError("open", p, err)
	}

	return f, nil
}

// rootRelative converts the resolver's root-relative path convention
// (empty string means root) to the form *os.Root expects.
func rootRelative(p string) string {
	if p == "" {
		return "."
	}
	return p
}

func mapPathError(op, p string, err error) error {
	switch {
	// ENOTDIR is raised when a path component names a regular file, e.g.
	// "cover.jpg/extra.jpg". It does not match fs.ErrNotExist but the path
	// equally does not exist from the client's point of view.
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%s %q: %w", op, p, comixd.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %q: %w", op, p, comixd.ErrAccessDenied)
	default:
		return fmt.Errorf("%s %q: %w: %w", op, p, comixd.ErrInternal, err)
	}
}
