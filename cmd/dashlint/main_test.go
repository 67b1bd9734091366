package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashSource = "const s = \"a\u2014b\";\n"

// runCLI executes a fresh root command in dir and returns its exit code
// with captured stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(dir)
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := execute(root)
	return code, stdout.String(), stderr.String()
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestCheckShortReportsWarning(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/a.js":              dashSource,
		"src/clean.js":          "const s = \"a-b\";\n",
		"node_modules/dep/x.js": dashSource,
	})
	code, out, _ := runCLI(t, dir, "check", "--format", "short", "--ui", "off")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "a.js:1:13: warning RUL3001")
	assert.Contains(t, out, "[em-dash-checker/no-em-dash]")
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, out, "1 problem (0 errors, 1 warning)")
}

func TestCheckMaxWarnings(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, _, stderr := runCLI(t, dir, "check", "--format", "short", "--ui", "off", "--max-warnings", "0")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "too many warnings (1, maximum allowed is 0)")
}

func TestCheckConfigErrorLevel(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":           dashSource,
		".dashlint.toml": "[rules]\n\"em-dash-checker/no-em-dash\" = \"error\"\n",
	})
	code, out, _ := runCLI(t, dir, "check", "--format", "short", "--ui", "off")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "error RUL3001")
}

func TestCheckRuleOff(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":           dashSource,
		".dashlint.toml": "[rules]\n\"em-dash-checker/no-em-dash\" = \"off\"\n",
	})
	code, out, _ := runCLI(t, dir, "check", "--format", "short", "--ui", "off")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "1 file checked, no problems")
}

func TestCheckQuietHidesWarnings(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, out, _ := runCLI(t, dir, "check", "--format", "short", "--ui", "off", "--quiet")

	assert.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestCheckParseErrorFails(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.js": "let = \"a\u2014b\n"})
	code, out, _ := runCLI(t, dir, "check", "--format", "short", "--ui", "off")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Parsing error")
}

func TestCheckJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, out, _ := runCLI(t, dir, "check", "--format", "json", "--ui", "off", "--suggest")
	require.Equal(t, 0, code)

	var payload struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Rule  string `json:"rule"`
			Fixes []struct {
				ID string `json:"id"`
			} `json:"fixes"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, 1, payload.Count)
	require.Len(t, payload.Diagnostics, 1)
	assert.Equal(t, "em-dash-checker/no-em-dash", payload.Diagnostics[0].Rule)
	require.Len(t, payload.Diagnostics[0].Fixes, 5)
	assert.Equal(t, "no-em-dash:12:hyphen", payload.Diagnostics[0].Fixes[0].ID)
	assert.Equal(t, "no-em-dash:12:remove", payload.Diagnostics[0].Fixes[4].ID)
}

func TestCheckSarif(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, out, _ := runCLI(t, dir, "check", "--format", "sarif", "--ui", "off")
	require.Equal(t, 0, code)

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "em-dash-checker/no-em-dash", log.Runs[0].Results[0].RuleID)
}

func TestCheckUnknownFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, _, stderr := runCLI(t, dir, "check", "--format", "xml", "--ui", "off")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unsupported format "xml"`)
}

func TestCheckUnknownBundle(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, _, stderr := runCLI(t, dir, "check", "--bundle", "strict", "--ui", "off")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown bundle")
}

func TestFixWithOption(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource + "// x\u2014y\n"})
	code, out, stderr := runCLI(t, dir, "fix", "a.js", "--with", "spaced-hyphen")

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "const s = \"a - b\";\n// x - y\n", out)
	assert.Contains(t, stderr, "applied 2 suggestions")

	orig, err := os.ReadFile(filepath.Join(dir, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, dashSource+"// x\u2014y\n", string(orig))
}

func TestFixByIDToFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": dashSource})
	code, out, stderr := runCLI(t, dir, "fix", "a.js", "--id", "no-em-dash:12:remove", "--out", "b.js")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, out)

	got, err := os.ReadFile(filepath.Join(dir, "b.js"))
	require.NoError(t, err)
	assert.Equal(t, "const s = \"ab\";\n", string(got))
}

func TestFixPreservesCRLF(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "// a\u2014b\r\nlet x;\r\n"})
	code, out, _ := runCLI(t, dir, "fix", "a.js", "--with", "hyphen", "--quiet")

	require.Equal(t, 0, code)
	assert.Equal(t, "// a-b\r\nlet x;\r\n", out)
}

func TestFixErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no fixes", args: []string{"fix", "clean.js", "--with", "hyphen"}, wantCode: 1, wantErr: "no matching suggestions"},
		{name: "unknown id", args: []string{"fix", "a.js", "--id", "no-em-dash:99:hyphen"}, wantCode: 1, wantErr: "no matching suggestions"},
		{name: "unknown option", args: []string{"fix", "a.js", "--with", "dash"}, wantCode: 2, wantErr: `unknown replacement option "dash"`},
		{name: "out is input", args: []string{"fix", "a.js", "--with", "hyphen", "--out", "./a.js"}, wantCode: 2, wantErr: "--out must differ"},
		{name: "both selectors", args: []string{"fix", "a.js", "--with", "hyphen", "--id", "x"}, wantCode: 2, wantErr: "none of the others can be"},
		{name: "no selector", args: []string{"fix", "a.js"}, wantCode: 2, wantErr: "at least one of the flags"},
		{name: "missing file", args: []string{"fix", "nope.js", "--with", "hyphen"}, wantCode: 2, wantErr: "nope.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"a.js": dashSource, "clean.js": "let x = 1;\n"})
			code, out, stderr := runCLI(t, dir, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, out)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRulesJSON(t *testing.T) {
	code, out, _ := runCLI(t, t.TempDir(), "rules", "--format", "json")
	require.Equal(t, 0, code)

	var payload rulesPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Rules, 1)
	assert.Equal(t, "em-dash-checker/no-em-dash", payload.Rules[0].ID)
	assert.True(t, payload.Rules[0].HasSuggestions)

	names := make([]string, 0, len(payload.Options))
	for _, o := range payload.Options {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"hyphen", "double-hyphen", "triple-hyphen", "spaced-hyphen", "remove"}, names)

	var bundles []string
	for _, b := range payload.Bundles {
		bundles = append(bundles, b.Name)
	}
	assert.Contains(t, bundles, "recommended")
	assert.Contains(t, bundles, "legacy-recommended")
}

func TestRulesText(t *testing.T) {
	code, out, _ := runCLI(t, t.TempDir(), "rules")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "RULES\n"))
	assert.Contains(t, out, "em-dash-checker/no-em-dash")
	assert.Contains(t, out, `spaced-hyphen  " - "`)
}

func TestVersionJSON(t *testing.T) {
	code, out, _ := runCLI(t, t.TempDir(), "version", "--format", "json", "--full")
	require.Equal(t, 0, code)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "dashlint", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.Equal(t, "unknown", payload.GitCommit)
}

func TestVersionPrettyNoColor(t *testing.T) {
	code, out, _ := runCLI(t, t.TempDir(), "version", "--color", "off")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "dashlint "))
	assert.NotContains(t, out, "\x1b[")
}

func TestInvalidColor(t *testing.T) {
	code, _, stderr := runCLI(t, t.TempDir(), "version", "--color", "purple")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid --color value")
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("maybe")
	assert.Error(t, err)
	assert.False(t, shouldUseTUI(uiModeOff, false))
	assert.True(t, shouldUseTUI(uiModeOn, true))
}

func TestSamePath(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "x"})
	a := filepath.Join(dir, "a.js")

	same, err := samePath(a, filepath.Join(dir, ".", "a.js"))
	require.NoError(t, err)
	assert.True(t, same)

	same, err = samePath(a, filepath.Join(dir, "b.js"))
	require.NoError(t, err)
	assert.False(t, same)
}
