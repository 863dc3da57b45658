package localization

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"
)

// LoadDir ingests every .yml file under root, walking subdirectories.
// Files are read and scanned concurrently; entries from later-loaded
// files win on key collisions, in no defined order. A root that does
// not exist or is not a directory is a no-op: running without game
// data is supported, lookups then fall back to demangling.
func (l *Localizer) LoadDir(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("localization: stat %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".yml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("localization: walk %q: %w", root, err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			contents, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("localization: read %q: %w", path, err)
			}
			mu.Lock()
			l.AddSource(contents)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

type dirEnv struct {
	GameDir  string `env:"CK3SAVE_GAME_DIR"`
	Language string `env:"CK3SAVE_LANGUAGE"`
}

// FromEnv builds a localizer from the game directory named by the
// CK3SAVE_GAME_DIR environment variable, reading the language subtree
// selected by CK3SAVE_LANGUAGE (default english) and stripping markup.
// With the variable unset it returns an empty localizer, which
// demangles every key.
func FromEnv(ctx context.Context) (*Localizer, error) {
	var cfg dirEnv
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("localization: parse env: %w", err)
	}
	l := New()
	if strings.TrimSpace(cfg.GameDir) == "" {
		return l, nil
	}
	if cfg.Language == "" {
		cfg.Language = "english"
	}
	if err := l.LoadDir(ctx, filepath.Join(cfg.GameDir, "localization", cfg.Language)); err != nil {
		return nil, err
	}
	l.RemoveFormatting()
	return l, nil
}
