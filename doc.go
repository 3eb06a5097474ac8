// Package comixd implements the content-resolution core of an
// AirComix-compatible comic streaming server.
//
// Given a client path relative to a single confined manga root, the core
// classifies it as a directory, a standalone image, an archive file, or an
// image nested inside an archive, and produces either an ordered plain-text
// listing or an image byte stream.
//
// # Key Components
//
//   - Service: validates and classifies paths, then routes to the matching
//     listing or streaming producer
//   - Library: interface for confined filesystem access (see the filesystem
//     package for the *os.Root backed implementation)
//   - ArchiveOpener / Archive: interfaces over ZIP-, RAR- and 7z-family
//     containers (see the archive package)
//
// # Path Confinement
//
// Client paths are always interpreted relative to the manga root. Paths
// containing NUL bytes, backslashes, traversal segments, or absolute prefixes
// are rejected with ErrInvalidPath before any filesystem access happens, and
// the filesystem implementation is additionally sandboxed with *os.Root.
//
// # Listings
//
// Directory and archive listings are ordered with a natural sort so that
// numbered pages and volumes read in the intended order (page2 before
// page10). Archive entry names stored in legacy byte encodings are
// normalized to UTF-8 on a best-effort basis.
//
// The core is request-scoped and stateless between requests: no caches, no
// shared mutable state, no persistence. See the http package for the wire
// protocol and the config package for configuration loading.
package comixd
