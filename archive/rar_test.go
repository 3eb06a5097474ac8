package archive_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comixd/comixd"
)

// openFixture opens a pre-built container from testdata. The RAR fixture
// holds, in archive order: notes.txt, page10.jpg, an "art" directory,
// page2.jpg and art\bonus1.jpg, all stored uncompressed.
func openFixture(t *testing.T, name string) comixd.Archive {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	ar, err := newTestOpener(t).Open(name, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ar.Close() })
	return ar
}

func readEntry(t *testing.T, ar comixd.Archive, name string) (string, int64) {
	t.Helper()

	rc, size, err := ar.OpenEntry(name)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(got), size
}

func TestRar_Entries_NaturalOrderAndFiltering(t *testing.T) {
	ar := openFixture(t, "vol1.cbr")

	entries := ar.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	// notes.txt and the directory header are dropped; page2 precedes page10.
	assert.Equal(t, []string{"bonus1.jpg", "page2.jpg", "page10.jpg"}, names)

	for _, e := range entries {
		assert.Equal(t, comixd.KindImage, e.Kind)
	}
	assert.Equal(t, int64(12), entries[1].Size)
}

// Extraction re-scans the container by header position, so entries sitting
// after skipped non-image and directory headers must still come back with
// their own bytes.
func TestRar_OpenEntry_RoundTrip(t *testing.T) {
	ar := openFixture(t, "vol1.cbr")

	got, size := readEntry(t, ar, "page2.jpg")
	assert.Equal(t, "rar page two", got)
	assert.Equal(t, int64(12), size)

	got, _ = readEntry(t, ar, "page10.jpg")
	assert.Equal(t, "rar page ten!!", got)

	got, _ = readEntry(t, ar, "bonus1.jpg")
	assert.Equal(t, "rar bonus one", got)
}

// RAR 4.x stores nested entry names with backslash separators; they list and
// resolve with forward slashes.
func TestRar_OpenEntry_ByFullPath(t *testing.T) {
	ar := openFixture(t, "vol1.cbr")

	got, _ := readEntry(t, ar, "art/bonus1.jpg")
	assert.Equal(t, "rar bonus one", got)
}

func TestRar_OpenEntry_Missing(t *testing.T) {
	ar := openFixture(t, "vol1.cbr")

	_, _, err := ar.OpenEntry("ghost.jpg")
	assert.ErrorIs(t, err, comixd.ErrNotFound)
}
