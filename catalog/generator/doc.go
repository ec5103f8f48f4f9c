// Package generator produces synthetic series and production details for seeding the catalog.
//
// Titles are drawn from a phrase source and rejected while they repeat a title of the same call.
// After a configurable number of consecutive duplicate draws the generator gives up with
// ErrTitleVocabularyExhausted instead of looping forever. All randomness comes from one
// math/rand/v2 generator, so a fixed seed reproduces a run.
package generator
