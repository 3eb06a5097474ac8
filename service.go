package comixd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
)

// Library defines confined filesystem access relative to the manga root.
// Implementations must never resolve paths outside the root; see the
// filesystem package for the *os.Root backed implementation.
//
// All methods accept a context for cancellation and map failures onto the
// package sentinel errors: ErrNotFound for missing paths and ErrAccessDenied
// for permission failures.
type Library interface {
	// Stat returns size and kind information for a path. An empty path
	// addresses the manga root itself.
	Stat(ctx context.Context, path string) (FileInfo, error)

	// List returns the filtered, naturally ordered immediate children of a
	// directory. An empty directory yields an empty slice, not an error.
	List(ctx context.Context, path string) ([]Entry, error)

	// Open opens a regular file for reading. The caller closes the handle.
	Open(ctx context.Context, path string) (File, error)
}

// Archive is a request-scoped accessor to an open container. Entries returns
// the image entries in natural order; OpenEntry locates an entry by the same
// normalized display name the listing produced. An Archive must be closed on
// every exit path and is never shared across requests.
type Archive interface {
	Entries() []Entry
	OpenEntry(name string) (io.ReadCloser, int64, error)
	Close() error
}

// ArchiveOpener opens a container from random-access bytes. The format is
// selected from the file name's extension; format-specific types never leak
// past this interface.
type ArchiveOpener interface {
	Open(name string, src io.ReaderAt, size int64) (Archive, error)
}

// Service is the content resolver: it classifies client paths and routes
// them to the matching listing or streaming producer. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	library Library
	opener  ArchiveOpener
	rules   Rules
}

// NewService creates a Service over the given library and archive opener.
func NewService(library Library, opener ArchiveOpener, rules Rules) (*Service, error) {
	if library == nil {
		return nil, errors.New("new service: library is nil")
	}
	if opener == nil {
		return nil, errors.New("new service: archive opener is nil")
	}
	return &Service{library: library, opener: opener, rules: rules}, nil
}

// Resolve validates rawPath and classifies it. The classification is derived
// fresh from filesystem probing on every call; nothing is cached between
// requests because the collection can change on disk at any time.
func (s *Service) Resolve(ctx context.Context, rawPath string) (Resolved, error) {
	if err := ctx.Err(); err != nil {
		return Resolved{}, fmt.Errorf("resolve: %w", err)
	}

	cleaned, err := CleanPath(rawPath)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve: %w", err)
	}

	archivePath, entryPath := splitArchiveBoundary(cleaned, s.rules, func(p string) (FileInfo, bool) {
		info, statErr := s.library.Stat(ctx, p)
		return info, statErr == nil
	})

	if archivePath != "" {
		if entryPath == "" {
			return Resolved{Class: ClassArchiveListing, Path: cleaned, ArchivePath: archivePath}, nil
		}
		if !s.rules.IsImage(entryPath) {
			return Resolved{}, fmt.Errorf("resolve %q: entry is not a supported image: %w", rawPath, ErrNotFound)
		}
		return Resolved{
			Class:       ClassArchiveImage,
			Path:        cleaned,
			ArchivePath: archivePath,
			EntryName:   entryPath,
		}, nil
	}

	info, err := s.library.Stat(ctx, cleaned)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve %q: %w", rawPath, err)
	}

	switch {
	case info.IsDir:
		return Resolved{Class: ClassDirectory, Path: cleaned}, nil
	case s.rules.IsImage(cleaned):
		return Resolved{Class: ClassDirectImage, Path: cleaned}, nil
	default:
		// Exists but is neither a directory, an image, nor an archive.
		return Resolved{}, fmt.Errorf("resolve %q: unsupported file type: %w", rawPath, ErrNotFound)
	}
}

// Serve resolves rawPath and produces the response payload: an ordered
// listing for directory and archive-listing classifications, or an image
// stream otherwise. When a Response carries an Image the caller owns its
// Body and must close it.
func (s *Service) Serve(ctx context.Context, rawPath string) (*Response, error) {
	res, err := s.Resolve(ctx, rawPath)
	if err != nil {
		return nil, err
	}

	switch res.Class {
	case ClassDirectory:
		entries, err := s.library.List(ctx, res.Path)
		if err != nil {
			return nil, fmt.Errorf("serve %q: %w", rawPath, err)
		}
		return &Response{Class: res.Class, Entries: entries}, nil

	case ClassArchiveListing:
		entries, err := s.ListArchive(ctx, res.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("serve %q: %w", rawPath, err)
		}
		return &Response{Class: res.Class, Entries: entries}, nil

	case ClassDirectImage:
		img, err := s.openDirectImage(ctx, res.Path)
		if err != nil {
			return nil, fmt.Errorf("serve %q: %w", rawPath, err)
		}
		return &Response{Class: res.Class, Image: img}, nil

	case ClassArchiveImage:
		img, err := s.openArchiveImage(ctx, res.ArchivePath, res.EntryName)
		if err != nil {
			return nil, fmt.Errorf("serve %q: %w", rawPath, err)
		}
		return &Response{Class: res.Class, Image: img}, nil

	default:
		return nil, fmt.Errorf("serve %q: unknown classification %q: %w", rawPath, res.Class, ErrInternal)
	}
}

// ListArchive opens the container at archivePath and returns its image
// entries in natural order. The container handle is closed before returning.
func (s *Service) ListArchive(ctx context.Context, archivePath string) ([]Entry, error) {
	ar, release, err := s.openContainer(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	defer release()

	return ar.Entries(), nil
}

// openContainer opens the archive file through the library and hands it to
// the format opener. release closes the container and the underlying file;
// it must be called on every exit path.
func (s *Service) openContainer(ctx context.Context, archivePath string) (ar Archive, release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	info, err := s.library.Stat(ctx, archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open container %q: %w", archivePath, err)
	}

	f, err := s.library.Open(ctx, archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open container %q: %w", archivePath, err)
	}

	ar, err = s.opener.Open(archivePath, f, info.Size)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("open container %q: %w", archivePath, err)
	}

	release = func() {
		_ = ar.Close()
		_ = f.Close()
	}
	return ar, release, nil
}

func (s *Service) openDirectImage(ctx context.Context, imagePath string) (*ImageStream, error) {
	info, err := s.library.Stat(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	if info.IsDir {
		return nil, fmt.Errorf("image %q is a directory: %w", imagePath, ErrNotFound)
	}

	f, err := s.library.Open(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	return &ImageStream{
		Name:        baseName(imagePath),
		ContentType: MIMEType(imagePath),
		Size:        info.Size,
		Body:        &ctxReadCloser{ctx: ctx, rc: f},
	}, nil
}

// openArchiveImage opens the container, locates the entry by its normalized
// name, and returns a stream whose Close releases both the entry reader and
// the container handle. Listing always precedes extraction within the
// request: OpenEntry resolves against the same normalized entry table the
// listing produced.
func (s *Service) openArchiveImage(ctx context.Context, archivePath, entryName string) (*ImageStream, error) {
	ar, release, err := s.openContainer(ctx, archivePath)
	if err != nil {
		return nil, err
	}

	rc, size, err := ar.OpenEntry(entryName)
	if err != nil {
		release()
		return nil, err
	}

	body := &archiveEntryBody{
		reader:  &ctxReadCloser{ctx: ctx, rc: rc},
		release: release,
	}
	return &ImageStream{
		Name:        baseName(entryName),
		ContentType: MIMEType(entryName),
		Size:        size,
		Body:        body,
	}, nil
}

// archiveEntryBody ties the lifetime of an archive handle to the streamed
// entry: closing the body closes the entry reader, the container, and the
// archive file, in that order.
type archiveEntryBody struct {
	reader  io.ReadCloser
	release func()
	closed  bool
}

func (b *archiveEntryBody) Read(p []byte) (int, error) { return b.reader.Read(p) }

func (b *archiveEntryBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	err := b.reader.Close()
	b.release()
	return err
}

// ctxReadCloser stops reading as soon as the request context is cancelled so
// a disconnected client does not keep pulling chunks from disk or an
// open container.
type ctxReadCloser struct {
	ctx context.Context
	rc  io.ReadCloser
}

func (r *ctxReadCloser) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.rc.Read(p)
}

func (r *ctxReadCloser) Close() error { return r.rc.Close() }

func baseName(p string) string { return path.Base(p) }
