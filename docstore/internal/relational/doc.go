// Package relational evaluates docstore filters and aggregation pipelines in memory.
//
// Engines without native operators use it to reproduce match, lookup (hash join),
// unwind (flatten), group (group-by with accumulators), and project semantics
// of a document store over already loaded documents.
package relational
