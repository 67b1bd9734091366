// Package noemdash implements the em-dash-checker/no-em-dash rule.
//
// The rule finds U+2014 inside string literals, template literal chunks, JSX
// text and comments, and reports every occurrence with five replacement
// suggestions (hyphen, double hyphen, triple hyphen, spaced hyphen, removal).
// Suggestions are never applied automatically.
package noemdash
