// Package pipeline orchestrates the encode batch: directory scan, extension
// filtering, the bounded worker pool, per-job outcome collection, and the
// summary report.
package pipeline
