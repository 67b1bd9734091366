// Package lint runs text-level rules over the nodes produced by
// internal/estree.
//
// A Rule is stateless. For every file the Runner walks the program's nodes in
// source order, calls Visit on each enabled rule, then calls Exit once per
// rule. Rules report through their Context, which interpolates message
// templates, resolves positions, converts suggestions into diag.Fix records
// and applies inline disable directives before the diagnostic is stored.
package lint
