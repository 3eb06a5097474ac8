package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/comixd/comixd"
	"github.com/comixd/comixd/archive"
	"github.com/comixd/comixd/config"
	"github.com/comixd/comixd/filesystem"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan the collection and verify archives",
	Long: `Walk the collection root and open every comic archive, reporting
containers that fail to open or contain no images. This is useful when:
  - Importing an existing collection
  - Hunting down a book the client refuses to show`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	rules := cfg.Rules()

	root, err := os.OpenRoot(cfg.Library.Root)
	if err != nil {
		return fmt.Errorf("open collection root: %w", err)
	}
	defer func() { _ = root.Close() }()

	catalog := filesystem.NewCatalog(root, rules)

	norm, err := archive.NewNormalizer(cfg.Encoding.Candidates)
	if err != nil {
		return fmt.Errorf("build encoding normalizer: %w", err)
	}

	service, err := comixd.NewService(catalog, archive.NewOpener(norm, rules), rules)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	slog.Info("scanning collection", "root", cfg.Library.Root)

	var checked, empty, failed int
	err = fs.WalkDir(root.FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("unreadable path", "path", p, "err", err)
			failed++
			return nil
		}
		if rules.IsHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !rules.IsArchive(d.Name()) {
			return nil
		}

		checked++
		rel := p
		if rel == "." {
			rel = ""
		}
		entries, err := service.ListArchive(ctx, rel)
		switch {
		case err != nil:
			slog.Error("broken archive", "path", p, "err", err)
			failed++
		case len(entries) == 0:
			slog.Warn("archive has no images", "path", p, "ext", path.Ext(p))
			empty++
		}
		return ctx.Err()
	})
	if err != nil {
		return fmt.Errorf("walk collection: %w", err)
	}

	slog.Info("check complete", "archives", checked, "empty", empty, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d archive(s) failed to open", failed)
	}
	return nil
}
