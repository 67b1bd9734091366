package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"dashlint/internal/config"
)

// Discover expands paths into the sorted list of files to check. Directories
// are walked recursively and filtered by the configured extensions and ignore
// patterns. Files named explicitly are always kept unless ignored.
func Discover(cfg *config.Config, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	root := cfg.Root()
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
		if !info.IsDir() {
			if !cfg.Ignored(relTo(root, p)) {
				add(p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := relTo(root, path)
			if d.IsDir() {
				if path != p && cfg.Ignored(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !cfg.WantsExt(filepath.Ext(path)) || cfg.Ignored(rel) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
	}

	slices.Sort(out)
	return out, nil
}

func relTo(root, p string) string {
	absRoot, err1 := filepath.Abs(root)
	absP, err2 := filepath.Abs(p)
	if err1 != nil || err2 != nil {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(absRoot, absP)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
