package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/lint"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestBundles(t *testing.T) {
	for _, name := range []string{"recommended", "flat/recommended", "em-dash-checker/recommended", "legacy-recommended", "plugin:em-dash-checker/legacy-recommended"} {
		b, err := LookupBundle(name)
		require.NoError(t, err, name)
		assert.Equal(t, map[string]lint.Level{"em-dash-checker/no-em-dash": lint.LevelWarn}, b.Rules, name)
	}

	flat, _ := LookupBundle("flat/recommended")
	rec, _ := LookupBundle("recommended")
	assert.Equal(t, rec, flat)
	assert.Equal(t, "em-dash-checker/recommended", rec.Name)

	legacy, _ := LookupBundle("legacy-recommended")
	assert.True(t, legacy.Legacy)
	assert.Equal(t, []string{"em-dash-checker"}, legacy.Plugins)

	_, err := LookupBundle("strict")
	assert.ErrorIs(t, err, ErrUnknownBundle)

	assert.Equal(t, []string{
		"em-dash-checker/recommended",
		"flat/recommended",
		"legacy-recommended",
		"plugin:em-dash-checker/legacy-recommended",
		"plugin:em-dash-checker/recommended",
		"recommended",
	}, BundleNames())
}

func TestLookupBundleReturnsCopy(t *testing.T) {
	b, _ := LookupBundle("recommended")
	b.Rules["em-dash-checker/no-em-dash"] = lint.LevelError
	again, _ := LookupBundle("recommended")
	assert.Equal(t, lint.LevelWarn, again.Rules["em-dash-checker/no-em-dash"])
}

func TestDefaultLevels(t *testing.T) {
	levels, err := Default().Levels()
	require.NoError(t, err)
	assert.Equal(t, map[string]lint.Level{"em-dash-checker/no-em-dash": lint.LevelWarn}, levels)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
extends = ["legacy-recommended"]

[rules]
"em-dash-checker/no-em-dash" = "error"

[files]
extensions = ["js", ".ts"]
ignore = ["dist/**"]

[output]
format = "short"
max_warnings = 3
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, p, cfg.Path)
	assert.Equal(t, dir, cfg.Root())
	if diff := cmp.Diff([]string{".js", ".ts"}, cfg.Files.Extensions); diff != "" {
		t.Errorf("extensions (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"node_modules", ".git", "dist/**"}, cfg.Files.Ignore)
	assert.Equal(t, "short", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Output.MaxWarnings)

	levels, err := cfg.Levels()
	require.NoError(t, err)
	assert.Equal(t, lint.LevelError, levels["em-dash-checker/no-em-dash"])
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "[rules]\n\"em-dash-checker/no-em-dash\" = \"off\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"recommended"}, cfg.Extends)
	assert.Equal(t, DefaultExtensions, cfg.Files.Extensions)
	assert.Equal(t, -1, cfg.Output.MaxWarnings)

	levels, err := cfg.Levels()
	require.NoError(t, err)
	assert.Equal(t, lint.LevelOff, levels["em-dash-checker/no-em-dash"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "colour = \"on\"\n", "unknown keys: colour"},
		{"unknown nested key", "[output]\nstyle = 1\n", "unknown keys: output.style"},
		{"bad level", "[rules]\nx = \"loud\"\n", "invalid rule level"},
		{"bad bundle", "extends = [\"strict\"]\n", "unknown bundle"},
		{"bad toml", "extends = [\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "extends = []\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), cfg.Path)
	assert.Empty(t, cfg.Extends)

	levels, err := cfg.Levels("flat/recommended")
	require.NoError(t, err)
	assert.Equal(t, lint.LevelWarn, levels["em-dash-checker/no-em-dash"])
}

func TestIgnored(t *testing.T) {
	cfg := Default()
	cfg.Files.Ignore = append(cfg.Files.Ignore, "dist/**", "*.min.js")

	assert.True(t, cfg.Ignored("node_modules/x/index.js"))
	assert.True(t, cfg.Ignored("dist/app.js"))
	assert.True(t, cfg.Ignored("src/vendor.min.js"))
	assert.False(t, cfg.Ignored("src/app.js"))
	assert.False(t, cfg.Ignored("distribution/app.js"))
	assert.True(t, cfg.WantsExt(".tsx"))
	assert.False(t, cfg.WantsExt(".md"))
}
