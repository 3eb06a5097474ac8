package archive

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/comixd/comixd"
)

// openSevenZip reads a 7z/CB7 container and builds the image entry table.
// 7z stores names as UTF-16 internally, so they arrive correctly decoded
// and only pass through the validity check of the normalizer.
func (o *Opener) openSevenZip(name string, src io.ReaderAt, size int64) (comixd.Archive, error) {
	sz, err := sevenzip.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("open 7z %q: %w: %w", name, comixd.ErrArchive, err)
	}

	entries := make([]entry, 0, len(sz.File))
	for _, f := range sz.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		entryPath := o.norm.String(f.Name)
		if !o.rules.IsImage(entryPath) {
			continue
		}

		entries = append(entries, entry{
			display: path.Base(entryPath),
			path:    entryPath,
			size:    f.FileInfo().Size(),
			open:    f.Open,
		})
	}

	sortEntries(entries)
	return &container{entries: entries}, nil
}
