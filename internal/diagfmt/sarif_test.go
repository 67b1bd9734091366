package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

func sarifMeta() SarifRunMeta {
	return SarifRunMeta{
		ToolName:       "dashlint",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"check", "src"},
		Rules: []SarifRule{{
			ID:          ruleID,
			Name:        "no-em-dash",
			Description: "Disallow em-dash characters",
			Level:       "warning",
		}},
	}
}

func TestSarifDocument(t *testing.T) {
	fs, bag := emDashFixture()
	log := BuildSarif(bag, fs, sarifMeta())

	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]

	_, err := uuid.Parse(run.AutomationDetails.GUID)
	require.NoError(t, err)
	assert.Equal(t, "utf16CodeUnits", run.ColumnKind)
	assert.Equal(t, "dashlint", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "warning", run.Tool.Driver.Rules[0].DefaultConfiguration.Level)
	require.Len(t, run.Invocations, 1)
	assert.True(t, run.Invocations[0].ExecutionSuccessful)

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, ruleID, res.RuleID)
	require.NotNil(t, res.RuleIndex)
	assert.Equal(t, 0, *res.RuleIndex)
	assert.Equal(t, "warning", res.Level)

	region := res.Locations[0].PhysicalLocation.Region
	assert.Equal(t, sarifRegion{StartLine: 2, StartColumn: 13, EndLine: 2, EndColumn: 14, CharOffset: 23, CharLength: 1}, region)
	assert.Equal(t, "src/a.js", res.Locations[0].PhysicalLocation.ArtifactLocation.URI)

	require.Len(t, res.RelatedLocations, 1)
	assert.Equal(t, "U+2014 EM DASH", res.RelatedLocations[0].Message.Text)

	require.Len(t, res.Fixes, 2)
	rep := res.Fixes[0].ArtifactChanges[0].Replacements[0]
	require.NotNil(t, rep.InsertedContent)
	assert.Equal(t, "-", rep.InsertedContent.Text)
	assert.Nil(t, res.Fixes[1].ArtifactChanges[0].Replacements[0].InsertedContent, "removal inserts nothing")
}

func TestSarifRegionsCountUTF16OfStoredText(t *testing.T) {
	raw := "\xEF\xBB\xBF// \u00e9 \U0001F600\r\nconst s = \"a\u2014b\";\r\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("crlf.js", []byte(raw))
	f := fs.Get(id)
	start := uint32(strings.Index(string(f.Content), "\u2014"))
	span := source.Span{File: id, Start: start, End: start + 3}
	bag := diag.NewBag(1)
	d := diag.New(diag.SevWarning, diag.RuleNoEmDash, span, "found")
	d.Rule = ruleID
	d = d.WithFixSuggestion(diag.Fix{Title: "remove", Edits: []diag.TextEdit{{Span: span, OldText: "\u2014"}}})
	bag.Add(d)

	res := BuildSarif(bag, fs, sarifMeta()).Runs[0].Results[0]
	region := res.Locations[0].PhysicalLocation.Region
	assert.Equal(t, sarifRegion{StartLine: 2, StartColumn: 13, EndLine: 2, EndColumn: 14, CharOffset: 21, CharLength: 1}, region)
	assert.Equal(t, region, res.Fixes[0].ArtifactChanges[0].Replacements[0].DeletedRegion)

	// deleting the region from the decoded text removes exactly the em-dash
	text := utf16.Encode([]rune(strings.TrimPrefix(raw, "\xEF\xBB\xBF")))
	patched := append(append([]uint16{}, text[:region.CharOffset]...), text[region.CharOffset+region.CharLength:]...)
	assert.Equal(t, strings.Replace(strings.TrimPrefix(raw, "\xEF\xBB\xBF"), "\u2014", "", 1), string(utf16.Decode(patched)))
}

func TestSarifRunGUIDIsFresh(t *testing.T) {
	fs, bag := emDashFixture()
	a := BuildSarif(bag, fs, sarifMeta())
	b := BuildSarif(bag, fs, sarifMeta())
	assert.NotEqual(t, a.Runs[0].AutomationDetails.GUID, b.Runs[0].AutomationDetails.GUID)
}

func TestSarifRulelessDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.js", []byte("const s = 'oops\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: id, Start: 10, End: 15}, "Parsing error: Unterminated string literal"))

	run := BuildSarif(bag, fs, sarifMeta()).Runs[0]
	require.Len(t, run.Results, 1)
	assert.Equal(t, "LEX1002", run.Results[0].RuleID)
	assert.Nil(t, run.Results[0].RuleIndex)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
}

func TestSarifWritesJSON(t *testing.T) {
	fs, bag := emDashFixture()
	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, bag, fs, sarifMeta()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "2.1.0", raw["version"])
	assert.Contains(t, raw["$schema"], "sarif-2.1.0")
}
