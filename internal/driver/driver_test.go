package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/config"
	"dashlint/internal/diag"
	"dashlint/internal/lint"
	"dashlint/internal/observ"
	"dashlint/internal/rules"
	"dashlint/internal/source"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func newRunner(t *testing.T) *lint.Runner {
	t.Helper()
	levels, err := config.Default().Levels()
	require.NoError(t, err)
	enabled, err := rules.NewRegistry().Resolve(levels)
	require.NoError(t, err)
	return lint.NewRunner(lint.RunnerConfig{Rules: enabled})
}

func TestDiscover(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.js":                "",
		"b.ts":                "",
		"notes.txt":           "",
		"node_modules/x/i.js": "",
		"sub/c.jsx":           "",
		"gen/out.js":          "",
	})
	cfg := config.Default()
	cfg.Path = filepath.Join(dir, config.FileName)
	cfg.Files.Ignore = append(cfg.Files.Ignore, "gen/**")

	got, err := Discover(cfg, []string{dir})
	require.NoError(t, err)
	want := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "b.ts"),
		filepath.Join(dir, "sub", "c.jsx"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverExplicitFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"script.txt": "", "a.js": ""})
	cfg := config.Default()
	cfg.Path = filepath.Join(dir, config.FileName)

	txt := filepath.Join(dir, "script.txt")
	got, err := Discover(cfg, []string{txt, txt, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.js"), txt}, got)

	_, err = Discover(cfg, []string{filepath.Join(dir, "missing.js")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.js":   "const a = 'x\u2014y';\n// one \u2014 two\n",
		"b.js":   "const b = 'clean';\n",
		"bad.js": "const s = 'oops\n",
	})
	paths := []string{
		filepath.Join(dir, "bad.js"),
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "missing.js"),
		filepath.Join(dir, "b.js"),
	}

	events := make(chan Event, 64)
	timer := observ.NewTimer()
	rep, err := CheckFiles(context.Background(), paths, Options{Runner: newRunner(t), Jobs: 2, Events: events, Timer: timer})
	require.NoError(t, err)
	close(events)

	require.Len(t, rep.Files, 4)
	assert.Equal(t, filepath.Join(dir, "a.js"), rep.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "missing.js"), rep.Files[3].Path)

	a := rep.Files[0]
	require.NoError(t, a.Err)
	require.Len(t, a.Diagnostics, 2)
	assert.Equal(t, "em-dash-checker/no-em-dash", a.Diagnostics[0].Rule)
	assert.Equal(t, uint32(12), a.Diagnostics[0].Primary.Start)
	assert.Len(t, a.Diagnostics[0].Fixes, 5)

	assert.Empty(t, rep.Files[1].Diagnostics)

	bad := rep.Files[2]
	assert.True(t, bad.Fatal)
	require.NotEmpty(t, bad.Diagnostics)
	assert.Equal(t, diag.SevError, bad.Diagnostics[0].Severity)

	missing := rep.Files[3]
	require.Error(t, missing.Err)
	assert.ErrorIs(t, missing.Err, os.ErrNotExist)

	assert.Equal(t, 2, rep.WarningCount())
	assert.Equal(t, len(bad.Diagnostics)+1, rep.ErrorCount())

	bag := rep.Bag(0)
	assert.Equal(t, 2+len(bad.Diagnostics)+1, bag.Len())
	last := bag.Items()[bag.Len()-1]
	assert.Equal(t, diag.IOLoadFileError, last.Code)
	assert.Equal(t, source.NoFile, last.Primary.File)

	final := map[string]Status{}
	for ev := range events {
		final[ev.File] = ev.Status
	}
	assert.Equal(t, StatusDone, final[paths[1]])
	assert.Equal(t, StatusError, final[paths[0]])
	assert.Equal(t, StatusError, final[paths[2]])

	phases := timer.Report().Phases
	require.Len(t, phases, 2)
	assert.Equal(t, "load", phases[0].Name)
	assert.Equal(t, "lint", phases[1].Name)
}

func TestCheckFilesCache(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.js": "const a = `x\u2014${y}\u2014z`;\n",
		"b.js": "/* \u2014 */\n",
	})
	paths := []string{filepath.Join(dir, "a.js"), filepath.Join(dir, "b.js")}
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	runner := newRunner(t)

	first, err := CheckFiles(context.Background(), paths, Options{Runner: runner, Cache: cache})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CachedCount())

	second, err := CheckFiles(context.Background(), paths, Options{Runner: runner, Cache: cache})
	require.NoError(t, err)
	assert.Equal(t, 2, second.CachedCount())
	for i := range first.Files {
		if diff := cmp.Diff(first.Files[i].Diagnostics, second.Files[i].Diagnostics, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: cached diagnostics differ (-fresh +cached):\n%s", paths[i], diff)
		}
	}

	require.NoError(t, os.WriteFile(paths[1], []byte("// clean\n"), 0o600))
	third, err := CheckFiles(context.Background(), paths, Options{Runner: runner, Cache: cache})
	require.NoError(t, err)
	assert.True(t, third.Files[0].Cached)
	assert.False(t, third.Files[1].Cached)
	assert.Empty(t, third.Files[1].Diagnostics)

	other, err := CheckFiles(context.Background(), paths, Options{Runner: runner, Cache: cache, Fingerprint: "other"})
	require.NoError(t, err)
	assert.Equal(t, 0, other.CachedCount())
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.js": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckFiles(ctx, []string{filepath.Join(dir, "a.js")}, Options{Runner: newRunner(t)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckFilesNoRunner(t *testing.T) {
	_, err := CheckFiles(context.Background(), nil, Options{})
	require.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)

	key := KeyFor("fp", "a.js", [32]byte{1})
	var out CacheEntry
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	in := &CacheEntry{
		Path:        "a.js",
		ContentHash: [32]byte{1},
		Suppressed:  1,
		Diagnostics: []diag.Diagnostic{{
			Severity: diag.SevWarning,
			Code:     diag.RuleNoEmDash,
			Rule:     "em-dash-checker/no-em-dash",
			Data:     map[string]string{"location": "string literal"},
			Message:  "found",
			Primary:  source.Span{File: 7, Start: 3, End: 6},
			Fixes: []diag.Fix{{
				ID:    "em-dash-checker/no-em-dash:3:remove",
				Edits: []diag.TextEdit{{Span: source.Span{File: 7, Start: 3, End: 6}}},
			}},
		}},
	}
	require.NoError(t, cache.Put(key, in))

	hit, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, in.Diagnostics[0].Data, out.Diagnostics[0].Data)

	got := rebind(out.Diagnostics, 2)
	assert.Equal(t, source.FileID(2), got[0].Primary.File)
	assert.Equal(t, source.FileID(2), got[0].Fixes[0].Edits[0].Span.File)

	require.NoError(t, cache.DropAll())
	hit, err = cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeyForSeparatesInputs(t *testing.T) {
	base := KeyFor("fp", "a.js", [32]byte{1})
	assert.NotEqual(t, base, KeyFor("fp2", "a.js", [32]byte{1}))
	assert.NotEqual(t, base, KeyFor("fp", "a.ts", [32]byte{1}))
	assert.NotEqual(t, base, KeyFor("fp", "a.js", [32]byte{2}))
	assert.Equal(t, base, KeyFor("fp", "a.js", [32]byte{1}))
}
