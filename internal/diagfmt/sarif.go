package diagfmt

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/google/uuid"

	"dashlint/internal/diag"
	"dashlint/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	// regions count UTF-16 code units of the file as stored on disk
	sarifColumnKind = "utf16CodeUnits"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	ColumnKind        string                 `json:"columnKind"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Invocations       []sarifInvocation      `json:"invocations,omitempty"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string           `json:"name"`
	Version        string           `json:"version,omitempty"`
	InformationURI string           `json:"informationUri,omitempty"`
	Rules          []sarifRuleEntry `json:"rules,omitempty"`
}

type sarifRuleEntry struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name,omitempty"`
	ShortDescription     *sarifMessage      `json:"shortDescription,omitempty"`
	HelpURI              string             `json:"helpUri,omitempty"`
	DefaultConfiguration *sarifRuleDefaults `json:"defaultConfiguration,omitempty"`
}

type sarifRuleDefaults struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           *int              `json:"ruleIndex,omitempty"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	RelatedLocations    []sarifLocation   `json:"relatedLocations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Fixes               []sarifFix        `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	CharOffset  uint32 `json:"charOffset"`
	CharLength  uint32 `json:"charLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// Sarif writes diagnostics as a SARIF v2.1.0 log with a single run.
// Lexer and driver diagnostics without a rule are reported under their code.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	log := BuildSarif(bag, fs, meta)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(log)
}

// BuildSarif assembles the SARIF document. Each call gets a fresh run GUID.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	driver := sarifDriver{
		Name:           meta.ToolName,
		Version:        meta.ToolVersion,
		InformationURI: meta.InformationURI,
	}
	ruleIndex := make(map[string]int, len(meta.Rules))
	for i, r := range meta.Rules {
		entry := sarifRuleEntry{ID: r.ID, Name: r.Name, HelpURI: r.HelpURI}
		if r.Description != "" {
			entry.ShortDescription = &sarifMessage{Text: r.Description}
		}
		if r.Level != "" {
			entry.DefaultConfiguration = &sarifRuleDefaults{Level: r.Level}
		}
		driver.Rules = append(driver.Rules, entry)
		ruleIndex[r.ID] = i
	}

	results := make([]sarifResult, 0, bag.Len())
	for _, d := range bag.Items() {
		ruleID := d.Rule
		if ruleID == "" {
			ruleID = d.Code.ID()
		}
		res := sarifResult{
			RuleID:    ruleID,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{sarifLocationFor(fs, d.Primary, nil)},
			PartialFingerprints: map[string]string{
				"primaryLocationLineHash": ruleID + ":" + strconv.FormatUint(uint64(d.Primary.Start), 10),
			},
		}
		if idx, ok := ruleIndex[ruleID]; ok {
			res.RuleIndex = &idx
		}
		for i, n := range d.Notes {
			id := i + 1
			loc := sarifLocationFor(fs, n.Span, &sarifMessage{Text: n.Msg})
			loc.ID = &id
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		for _, fx := range d.Fixes {
			res.Fixes = append(res.Fixes, sarifFixFor(fs, fx))
		}
		results = append(results, res)
	}

	return sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:              sarifTool{Driver: driver},
			ColumnKind:        sarifColumnKind,
			AutomationDetails: sarifAutomationDetails{GUID: uuid.NewString()},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: !bag.HasErrors(),
			}},
			Results: results,
		}},
	}
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifURI(fs *source.FileSet, id source.FileID) string {
	f := fs.Get(id)
	if f == nil {
		return ""
	}
	return formatPath(fs, f, PathModeRelative)
}

func sarifRegionFor(fs *source.FileSet, span source.Span) sarifRegion {
	f := fs.Get(span.File)
	if f == nil {
		return sarifRegion{CharOffset: span.Start, CharLength: span.Len()}
	}
	startOff, endOff := f.UTF16Offset(span.Start), f.UTF16Offset(span.End)
	start, end := fs.Resolve(span)
	return sarifRegion{
		StartLine:   start.Line,
		StartColumn: f.RuneColumn(start, true),
		EndLine:     end.Line,
		EndColumn:   f.RuneColumn(end, true),
		CharOffset:  startOff,
		CharLength:  endOff - startOff,
	}
}

func sarifLocationFor(fs *source.FileSet, span source.Span, msg *sarifMessage) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: sarifURI(fs, span.File)},
			Region:           sarifRegionFor(fs, span),
		},
		Message: msg,
	}
}

func sarifFixFor(fs *source.FileSet, fx diag.Fix) sarifFix {
	out := sarifFix{Description: sarifMessage{Text: fx.Title}}
	byFile := make(map[source.FileID]int)
	for _, e := range fx.Edits {
		idx, ok := byFile[e.Span.File]
		if !ok {
			idx = len(out.ArtifactChanges)
			byFile[e.Span.File] = idx
			out.ArtifactChanges = append(out.ArtifactChanges, sarifArtifactChange{
				ArtifactLocation: sarifArtifactLocation{URI: sarifURI(fs, e.Span.File)},
			})
		}
		rep := sarifReplacement{DeletedRegion: sarifRegionFor(fs, e.Span)}
		if e.NewText != "" {
			rep.InsertedContent = &sarifMessage{Text: e.NewText}
		}
		out.ArtifactChanges[idx].Replacements = append(out.ArtifactChanges[idx].Replacements, rep)
	}
	return out
}
