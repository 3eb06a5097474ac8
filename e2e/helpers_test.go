package e2e_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/comixd/comixd"
	"github.com/comixd/comixd/archive"
	"github.com/comixd/comixd/filesystem"
	comixhttp "github.com/comixd/comixd/http"
)

// ServerConfig holds configuration for starting a test server.
type ServerConfig struct {
	RootName string
	Password string
	Debug    bool
}

// startServer wires the full stack over a collection directory and serves it
// from an in-process test server.
func startServer(t *testing.T, collectionDir string, cfg ServerConfig) *httptest.Server {
	t.Helper()

	root, err := os.OpenRoot(collectionDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	rules := comixd.DefaultRules()
	catalog := filesystem.NewCatalog(root, rules)

	norm, err := archive.NewNormalizer(nil)
	require.NoError(t, err)

	service, err := comixd.NewService(catalog, archive.NewOpener(norm, rules), rules)
	require.NoError(t, err)

	rootName := cfg.RootName
	if rootName == "" {
		rootName = filepath.Base(collectionDir)
	}

	handler := comixhttp.NewHandler(service, comixhttp.HandlerConfig{
		RootName: rootName,
		Banner:   "comixd test",
		Debug:    cfg.Debug,
		Auth: comixhttp.AuthConfig{
			Enabled:  cfg.Password != "",
			Password: cfg.Password,
		},
		Health: func(ctx context.Context) error {
			_, err := catalog.Stat(ctx, "")
			return err
		},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// writeZip creates a ZIP file on disk with the given entry contents.
func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
