package archive

import (
	"fmt"
	"io"
	"path"

	"github.com/nwaples/rardecode/v2"

	"github.com/comixd/comixd"
)

// openRar scans a RAR/CBR container and builds the image entry table. RAR
// readers are sequential, so extraction re-scans the container from the
// start up to the wanted entry; a fresh section reader over src makes each
// pass independent. Multi-volume archives are not supported.
func (o *Opener) openRar(name string, src io.ReaderAt, size int64) (comixd.Archive, error) {
	rr, err := rardecode.NewReader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, fmt.Errorf("open rar %q: %w: %w", name, comixd.ErrArchive, err)
	}

	var entries []entry
	for index := 0; ; index++ {
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("open rar %q: read header: %w: %w", name, comixd.ErrArchive, err)
		}
		if hdr.IsDir {
			continue
		}

		entryPath := o.norm.String(hdr.Name)
		if !o.rules.IsImage(entryPath) {
			continue
		}

		entries = append(entries, entry{
			display: path.Base(entryPath),
			path:    entryPath,
			size:    hdr.UnPackedSize,
			open:    rarEntryOpener(src, size, index),
		})
	}

	sortEntries(entries)
	return &container{entries: entries}, nil
}

// rarEntryOpener returns an open func that re-scans the container and
// positions a fresh reader on the entry at the given header index.
func rarEntryOpener(src io.ReaderAt, size int64, index int) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		rr, err := rardecode.NewReader(io.NewSectionReader(src, 0, size))
		if err != nil {
			return nil, err
		}
		for i := 0; ; i++ {
			if _, err := rr.Next(); err != nil {
				return nil, err
			}
			if i == index {
				return io.NopCloser(rr), nil
			}
		}
	}
}
