// Package config loads .dashlint.toml and resolves rule levels, including
// the published rule-set bundles.
//
//	extends = ["recommended"]
//
//	[rules]
//	"em-dash-checker/no-em-dash" = "error"
//
//	[files]
//	extensions = [".js", ".ts"]
//	ignore = ["dist/**", "*.min.js"]
//
//	[output]
//	format = "short"
//	color = "off"
package config
