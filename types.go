package comixd

import (
	"io"
	"path"
	"strings"
)

// Classification is the outcome of resolving a client path. It determines
// which producer handles the request.
type Classification string

const (
	// ClassDirectory addresses a filesystem directory; the response is a listing.
	ClassDirectory Classification = "directory"
	// ClassDirectImage addresses a standalone image file on disk.
	ClassDirectImage Classification = "image"
	// ClassArchiveListing addresses an archive file with no in-archive remainder.
	ClassArchiveListing Classification = "archive-listing"
	// ClassArchiveImage addresses an image entry inside an archive.
	ClassArchiveImage Classification = "archive-image"
)

// EntryKind describes one listing row.
type EntryKind string

const (
	KindDirectory EntryKind = "directory"
	KindImage     EntryKind = "image"
	KindArchive   EntryKind = "archive"
)

// Entry is one row in a directory or archive listing. Name is the display
// name after encoding normalization. Size is -1 when unknown.
type Entry struct {
	Name string
	Kind EntryKind
	Size int64
}

// Resolved is a validated, classified client path. Path, ArchivePath and
// EntryName are slash-separated and relative to the manga root; an empty
// Path means the root itself.
type Resolved struct {
	Class       Classification
	Path        string
	ArchivePath string // set for archive classifications
	EntryName   string // set for ClassArchiveImage
}

// ImageStream is a resolved image ready for streaming. Size is -1 when not
// cheaply knowable in advance. The caller must close Body; closing releases
// any archive handle backing the stream.
type ImageStream struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// Response is the result of serving one client path: either an ordered
// listing or exactly one image stream, depending on Class.
type Response struct {
	Class   Classification
	Entries []Entry
	Image   *ImageStream
}

// FileInfo is the minimal stat result the resolver needs.
type FileInfo struct {
	Size  int64
	IsDir bool
}

// File is an open file handle suitable both for chunked streaming and for
// random-access container reading. *os.File satisfies it.
type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

// Rules holds the filtering configuration applied to listings: hidden-name
// and hidden-pattern lists plus the supported extension allowlists.
// Extensions are matched case-insensitively without the leading dot.
// Immutable after construction.
type Rules struct {
	HiddenNames    []string
	HiddenPatterns []string
	ImageExts      []string
	ArchiveExts    []string
}

// DefaultRules returns the filtering defaults: OS metadata files hidden,
// resource-fork directories hidden, and the stock image/archive formats.
func DefaultRules() Rules {
	return Rules{
		HiddenNames:    []string{".", "..", "@eaDir", "Thumbs.db", ".DS_Store", ".thumbnails"},
		HiddenPatterns: []string{"__MACOSX"},
		ImageExts:      []string{"jpg", "jpeg", "gif", "png", "tif", "tiff", "bmp"},
		ArchiveExts:    []string{"zip", "cbz", "rar", "cbr", "7z", "cb7"},
	}
}

// Ext returns the lowercase extension of name without the leading dot.
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}

func (r Rules) hasExt(name string, exts []string) bool {
	ext := Ext(name)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == strings.TrimPrefix(strings.ToLower(e), ".") {
			return true
		}
	}
	return false
}

// IsImage reports whether name has a supported image extension.
func (r Rules) IsImage(name string) bool { return r.hasExt(name, r.ImageExts) }

// IsArchive reports whether name has a supported archive extension.
func (r Rules) IsArchive(name string) bool { return r.hasExt(name, r.ArchiveExts) }

// IsSupported reports whether name has a supported image or archive extension.
func (r Rules) IsSupported(name string) bool { return r.IsImage(name) || r.IsArchive(name) }

// IsHidden reports whether name is excluded from listings, either by exact
// match against the hidden-name list or by substring match against the
// hidden-pattern list.
func (r Rules) IsHidden(name string) bool {
	for _, h := range r.HiddenNames {
		if name == h {
			return true
		}
	}
	for _, p := range r.HiddenPatterns {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// mimeTypes is the static extension to MIME mapping for the supported image
// set. Content is never sniffed; the extension alone decides.
var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
}

// MIMEType returns the MIME type for an image file name, falling back to
// application/octet-stream for unknown extensions.
func MIMEType(name string) string {
	if mt, ok := mimeTypes[Ext(name)]; ok {
		return mt
	}
	return "application/octet-stream"
}
