// Package rules lists the built-in rules.
package rules

import (
	"dashlint/internal/lint"
	"dashlint/internal/rules/noemdash"
)

// All returns every built-in rule.
func All() []lint.Rule {
	return []lint.Rule{noemdash.New()}
}

// NewRegistry returns a registry holding every built-in rule.
func NewRegistry() *lint.Registry {
	return lint.NewRegistry(All()...)
}
