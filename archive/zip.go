package archive

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/comixd/comixd"
)

// openZip reads a ZIP/CBZ central directory and builds the image entry
// table. Entry names flagged non-UTF-8 in the ZIP header carry raw legacy
// bytes and go through full encoding detection; flagged names are trusted
// as-is.
func (o *Opener) openZip(name string, src io.ReaderAt, size int64) (comixd.Archive, error) {
	zr, err := zip.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("open zip %q: %w: %w", name, comixd.ErrArchive, err)
	}

	entries := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		var entryPath string
		if f.NonUTF8 {
			entryPath = o.norm.Decode([]byte(f.Name))
		} else {
			entryPath = o.norm.String(f.Name)
		}

		if !o.rules.IsImage(entryPath) {
			continue
		}

		entries = append(entries, entry{
			display: path.Base(entryPath),
			path:    entryPath,
			size:    int64(f.UncompressedSize64),
			open:    f.Open,
		})
	}

	sortEntries(entries)
	return &container{entries: entries}, nil
}
