package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dashlint/internal/config"
	"dashlint/internal/rules"
	"dashlint/internal/rules/noemdash"
)

type rulePayload struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	Recommended    bool   `json:"recommended"`
	HasSuggestions bool   `json:"has_suggestions"`
	Code           string `json:"code"`
}

type bundlePayload struct {
	Name    string            `json:"name"`
	Preset  string            `json:"preset"`
	Legacy  bool              `json:"legacy"`
	Plugins []string          `json:"plugins"`
	Rules   map[string]string `json:"rules"`
}

type optionPayload struct {
	Name        string `json:"name"`
	Replacement string `json:"replacement"`
	Description string `json:"description"`
}

type rulesPayload struct {
	Rules   []rulePayload   `json:"rules"`
	Bundles []bundlePayload `json:"bundles"`
	Options []optionPayload `json:"options"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rules, bundles and replacement options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			payload, err := collectRules()
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "text":
				return renderRulesText(cmd.OutOrStdout(), payload)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			default:
				return fmt.Errorf("unsupported format %q (must be text or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

func collectRules() (rulesPayload, error) {
	var p rulesPayload
	for _, r := range rules.NewRegistry().All() {
		m := r.Meta()
		p.Rules = append(p.Rules, rulePayload{
			ID:             m.ID(),
			Type:           m.Type,
			Description:    m.Description,
			URL:            m.URL,
			Recommended:    m.Recommended,
			HasSuggestions: m.HasSuggestions,
			Code:           m.Code.ID(),
		})
	}
	for _, name := range config.BundleNames() {
		b, err := config.LookupBundle(name)
		if err != nil {
			return p, err
		}
		levels := make(map[string]string, len(b.Rules))
		for id, lvl := range b.Rules {
			levels[id] = lvl.String()
		}
		p.Bundles = append(p.Bundles, bundlePayload{
			Name:    name,
			Preset:  b.Name,
			Legacy:  b.Legacy,
			Plugins: b.Plugins,
			Rules:   levels,
		})
	}
	for _, o := range noemdash.Options() {
		p.Options = append(p.Options, optionPayload{
			Name:        o.Name,
			Replacement: o.Replacement,
			Description: o.Description,
		})
	}
	return p, nil
}

func renderRulesText(out io.Writer, p rulesPayload) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULES")
	for _, r := range p.Rules {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.ID, r.Code, r.Description)
	}
	fmt.Fprintln(tw, "\nBUNDLES")
	for _, b := range p.Bundles {
		var levels []string
		for _, r := range p.Rules {
			if lvl, ok := b.Rules[r.ID]; ok {
				levels = append(levels, r.ID+"="+lvl)
			}
		}
		kind := "flat"
		if b.Legacy {
			kind = "legacy"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", b.Name, kind, strings.Join(levels, " "))
	}
	fmt.Fprintln(tw, "\nOPTIONS")
	for _, o := range p.Options {
		fmt.Fprintf(tw, "  %s\t%q\t%s\n", o.Name, o.Replacement, o.Description)
	}
	return tw.Flush()
}
