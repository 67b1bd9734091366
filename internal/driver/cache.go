package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"dashlint/internal/diag"
	"dashlint/internal/lint"
	"dashlint/internal/source"
)

// Current schema version - increment when CacheEntry format changes
const cacheSchemaVersion uint16 = 1

// CacheKey identifies one cached lint result.
type CacheKey [32]byte

// Cache stores lint results on disk, keyed by file content and the active
// rule configuration. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is the payload written for one file.
type CacheEntry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash [32]byte
	Fatal       bool
	Suppressed  int
	// Spans keep their offsets; the file ID is rewritten on load.
	Diagnostics []diag.Diagnostic
}

// OpenCache opens (creating if needed) a cache directory. An empty dir
// selects $XDG_CACHE_HOME/dashlint or ~/.cache/dashlint.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "dashlint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Fingerprint summarises everything besides file content that changes lint
// output: the enabled rules with their levels and the inline-config switch.
func Fingerprint(rules []lint.Enabled, noInlineConfig bool) string {
	parts := make([]string, 0, len(rules))
	for _, en := range rules {
		parts = append(parts, en.Rule.Meta().ID()+"="+en.Level.String())
	}
	sort.Strings(parts)
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	if noInlineConfig {
		_, _ = h.Write([]byte("no-inline-config"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// KeyFor combines the schema, fingerprint, path and content hash. The path
// takes part because the extension selects the JSX dialect.
func KeyFor(fingerprint, path string, content [32]byte) CacheKey {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "v%d\x00%s\x00%s\x00", cacheSchemaVersion, fingerprint, path)
	_, _ = h.Write(content[:])
	var k CacheKey
	copy(k[:], h.Sum(nil))
	return k
}

func (c *Cache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes an entry.
func (c *Cache) Put(key CacheKey, entry *CacheEntry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = cacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// after a successful rename the temp name is gone
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads an entry. A missing entry or one written by another schema
// version is a miss, not an error.
func (c *Cache) Get(key CacheKey, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// rebind points every span of cached diagnostics at file id.
func rebind(diags []diag.Diagnostic, id source.FileID) []diag.Diagnostic {
	for i := range diags {
		d := &diags[i]
		d.Primary.File = id
		for j := range d.Notes {
			d.Notes[j].Span.File = id
		}
		for j := range d.Fixes {
			for k := range d.Fixes[j].Edits {
				d.Fixes[j].Edits[k].Span.File = id
			}
		}
	}
	return diags
}
