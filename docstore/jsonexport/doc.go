// Package jsonexport renders query results as indented JSON reports.
//
// Top-level identifiers become plain strings, non-ASCII text is written literally, and store-specific
// values without a JSON form (ObjectIDs, BSON dates, decimals, binaries) fall back to a string
// representation. Document key order is preserved.
package jsonexport
