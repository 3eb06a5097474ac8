// Package archive opens ZIP-, RAR- and 7z-family comic containers, filters
// and orders their image entries, and extracts single entries for streaming.
//
// The container format is selected by file extension; format-specific reader
// types never leak out of this package. Entry names are normalized from
// legacy byte encodings to UTF-8 (see Normalizer) so that listings and
// extraction agree on one canonical name per entry.
package archive

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/comixd/comixd"
)

// Opener opens containers by extension. It satisfies comixd.ArchiveOpener.
type Opener struct {
	norm  *Normalizer
	rules comixd.Rules
}

// NewOpener creates an Opener using the given name normalizer and the rules
// that decide which entry extensions count as images.
func NewOpener(norm *Normalizer, rules comixd.Rules) *Opener {
	return &Opener{norm: norm, rules: rules}
}

// Open opens the container held in src. name is used only for format
// selection and diagnostics. Failures map to comixd.ErrArchive; an extension
// without a container backend maps to comixd.ErrUnsupportedFormat.
func (o *Opener) Open(name string, src io.ReaderAt, size int64) (comixd.Archive, error) {
	switch ext := comixd.Ext(name); ext {
	case "zip", "cbz":
		return o.openZip(name, src, size)
	case "rar", "cbr":
		return o.openRar(name, src, size)
	case "7z", "cb7":
		return o.openSevenZip(name, src, size)
	default:
		return nil, fmt.Errorf("open archive %q: extension %q: %w", name, ext, comixd.ErrUnsupportedFormat)
	}
}

// entry is one image entry of an open container. display is the normalized
// base name shown in listings; path is the normalized full entry path kept
// for extraction and suffix matching.
type entry struct {
	display string
	path    string
	size    int64
	open    func() (io.ReadCloser, error)
}

// container is the shared comixd.Archive implementation backed by a
// per-format entry table. Entries are held in natural display order, which
// also makes the first-match-wins rule for colliding normalized names
// deterministic.
type container struct {
	entries []entry
	closer  func() error
}

func (c *container) Entries() []comixd.Entry {
	out := make([]comixd.Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = comixd.Entry{Name: e.display, Kind: comixd.KindImage, Size: e.size}
	}
	return out
}

// OpenEntry locates an entry by the normalized name the listing produced:
// exact entry path first, then exact display name, then a path-suffix match
// so clients may address nested entries by base name alone. The first entry
// in natural order wins every tier.
func (c *container) OpenEntry(name string) (io.ReadCloser, int64, error) {
	match := c.find(name)
	if match == nil {
		return nil, 0, fmt.Errorf("archive entry %q: %w", name, comixd.ErrNotFound)
	}

	rc, err := match.open()
	if err != nil {
		return nil, 0, fmt.Errorf("archive entry %q: %w: %w", name, comixd.ErrArchive, err)
	}
	return rc, match.size, nil
}

func (c *container) find(name string) *entry {
	for i := range c.entries {
		if c.entries[i].path == name {
			return &c.entries[i]
		}
	}
	for i := range c.entries {
		if c.entries[i].display == name {
			return &c.entries[i]
		}
	}
	for i := range c.entries {
		if strings.HasSuffix(c.entries[i].path, "/"+name) {
			return &c.entries[i]
		}
	}
	return nil
}

func (c *container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// sortEntries orders the entry table naturally by display name, full path
// breaking ties between colliding display names.
func sortEntries(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].display != entries[j].display {
			return comixd.NaturalLess(entries[i].display, entries[j].display)
		}
		return entries[i].path < entries[j].path
	})
}
