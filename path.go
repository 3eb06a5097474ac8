package comixd

import (
	"fmt"
	"path"
	"strings"
)

// CleanPath validates and normalizes a URL-decoded client path. The result
// is slash-separated and relative to the manga root; an empty string means
// the root itself.
//
// It returns ErrInvalidPath when the path:
//   - contains a NUL byte or a backslash
//   - is absolute (client paths are always relative to the manga root)
//   - escapes the root after `.` and `..` normalization
//
// Validation is purely lexical; no filesystem access happens here. A
// rejected path is never silently corrected.
func CleanPath(raw string) (string, error) {
	p := strings.TrimSpace(raw)

	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("clean path: NUL byte in path: %w", ErrInvalidPath)
	}
	if strings.ContainsRune(p, '\\') {
		return "", fmt.Errorf("clean path: backslash in path: %w", ErrInvalidPath)
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("clean path: absolute path: %w", ErrInvalidPath)
	}

	if p == "" {
		return "", nil
	}

	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", nil
	}
	// path.Clean resolves interior . and .. segments; anything still
	// starting with .. climbs out of the root.
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("clean path: path escapes root: %w", ErrInvalidPath)
	}

	return cleaned, nil
}

// splitArchiveBoundary scans the components of a cleaned path left to right
// and returns the archive boundary: the shortest prefix that stats as a
// regular file with a supported archive extension. The remainder is the
// in-archive path (empty for a bare archive path). When no boundary exists
// the whole path is a plain filesystem path and archivePath is empty.
func splitArchiveBoundary(cleaned string, rules Rules, stat func(string) (FileInfo, bool)) (archivePath, entryPath string) {
	if cleaned == "" {
		return "", ""
	}

	parts := strings.Split(cleaned, "/")
	for i, part := range parts {
		if !rules.IsArchive(part) {
			continue
		}
		prefix := strings.Join(parts[:i+1], "/")
		info, ok := stat(prefix)
		if !ok || info.IsDir {
			continue
		}
		return prefix, strings.Join(parts[i+1:], "/")
	}

	return "", ""
}
