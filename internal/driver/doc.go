// Package driver checks many files at once: it discovers inputs from the
// command line and the configuration, lints them on a bounded worker pool,
// consults the on-disk result cache and reports progress events.
package driver
