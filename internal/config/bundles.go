package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"dashlint/internal/lint"
	"dashlint/internal/rules/noemdash"
)

// ErrUnknownBundle is returned for an extends entry that names no bundle.
var ErrUnknownBundle = errors.New("unknown bundle")

// Bundle is a named, preset rule configuration.
type Bundle struct {
	Name string
	// Legacy bundles list plugins by name instead of embedding them.
	Legacy  bool
	Plugins []string
	Rules   map[string]lint.Level
}

var noEmDashID = noemdash.Plugin + "/" + noemdash.Name

var bundles = map[string]Bundle{
	"recommended": {
		Name:    noemdash.Plugin + "/recommended",
		Plugins: []string{noemdash.Plugin},
		Rules:   map[string]lint.Level{noEmDashID: lint.LevelWarn},
	},
	"legacy-recommended": {
		Name:    "legacy-recommended",
		Legacy:  true,
		Plugins: []string{noemdash.Plugin},
		Rules:   map[string]lint.Level{noEmDashID: lint.LevelWarn},
	},
}

// bundleAliases accepts the names the bundles go by in ESLint configs.
var bundleAliases = map[string]string{
	"flat/recommended":                                  "recommended",
	noemdash.Plugin + "/recommended":                    "recommended",
	"plugin:" + noemdash.Plugin + "/recommended":        "recommended",
	"plugin:" + noemdash.Plugin + "/legacy-recommended": "legacy-recommended",
}

// LookupBundle returns the bundle called name (aliases included). The
// returned rule map is a copy.
func LookupBundle(name string) (Bundle, error) {
	if target, ok := bundleAliases[name]; ok {
		name = target
	}
	b, ok := bundles[name]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownBundle, name, BundleNames())
	}
	b.Rules = maps.Clone(b.Rules)
	b.Plugins = slices.Clone(b.Plugins)
	return b, nil
}

// BundleNames lists every accepted bundle name, aliases included, sorted.
func BundleNames() []string {
	names := slices.Collect(maps.Keys(bundles))
	names = append(names, slices.Collect(maps.Keys(bundleAliases))...)
	slices.Sort(names)
	return names
}
