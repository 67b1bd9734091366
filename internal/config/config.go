package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"dashlint/internal/lint"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = ".dashlint.toml"

// DefaultExtensions are the file extensions checked when a directory is given.
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// DefaultIgnore are directory names never descended into.
var DefaultIgnore = []string{"node_modules", ".git"}

type Config struct {
	// Path is the file the config came from; empty for Default().
	Path           string            `toml:"-"`
	Extends        []string          `toml:"extends"`
	Rules          map[string]string `toml:"rules"`
	NoInlineConfig bool              `toml:"no_inline_config"`
	Files          FilesConfig       `toml:"files"`
	Output         OutputConfig      `toml:"output"`
}

type FilesConfig struct {
	Extensions []string `toml:"extensions"`
	Ignore     []string `toml:"ignore"`
}

type OutputConfig struct {
	Format      string `toml:"format"`
	Color       string `toml:"color"`
	MaxWarnings int    `toml:"max_warnings"`
}

// Default is the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Extends: []string{"recommended"},
		Files: FilesConfig{
			Extensions: slices.Clone(DefaultExtensions),
			Ignore:     slices.Clone(DefaultIgnore),
		},
		Output: OutputConfig{MaxWarnings: -1},
	}
}

// Load reads and validates a config file. Keys the file omits keep their
// defaults; unknown keys are an error.
func Load(p string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(p, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", p, strings.Join(keys, ", "))
	}
	if meta.IsDefined("files", "ignore") {
		cfg.Files.Ignore = append(slices.Clone(DefaultIgnore), cfg.Files.Ignore...)
	}
	for i, ext := range cfg.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Files.Extensions[i] = "." + ext
		}
	}
	for id, lvl := range cfg.Rules {
		if _, err := lint.ParseLevel(lvl); err != nil {
			return nil, fmt.Errorf("%s: [rules] %q: %w", p, id, err)
		}
	}
	for _, name := range cfg.Extends {
		if _, err := LookupBundle(name); err != nil {
			return nil, fmt.Errorf("%s: extends: %w", p, err)
		}
	}
	cfg.Path = p
	return cfg, nil
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit when set, otherwise the nearest FileName above
// startDir, otherwise Default().
func Discover(startDir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	p, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(p)
}

// Levels resolves extends (in order) and then [rules] into one rule level
// map. Extra bundles, e.g. from --bundle, are applied after extends.
func (c *Config) Levels(extra ...string) (map[string]lint.Level, error) {
	levels := make(map[string]lint.Level)
	for _, name := range append(slices.Clone(c.Extends), extra...) {
		b, err := LookupBundle(name)
		if err != nil {
			return nil, err
		}
		for id, lvl := range b.Rules {
			levels[id] = lvl
		}
	}
	for id, s := range c.Rules {
		lvl, err := lint.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		levels[id] = lvl
	}
	return levels, nil
}

// Root is the directory ignore patterns are relative to.
func (c *Config) Root() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// WantsExt reports whether files with extension ext are checked.
func (c *Config) WantsExt(ext string) bool {
	return slices.Contains(c.Files.Extensions, ext)
}

// Ignored reports whether rel (slash-separated, relative to Root) matches an
// ignore pattern. A pattern matches the whole path, any path element, or,
// with a trailing "/**", everything below a directory.
func (c *Config) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	elems := strings.Split(rel, "/")
	for _, pat := range c.Files.Ignore {
		if dir, ok := strings.CutSuffix(pat, "/**"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		for _, e := range elems {
			if ok, _ := path.Match(pat, e); ok {
				return true
			}
		}
	}
	return false
}
