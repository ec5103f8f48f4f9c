// Package report holds the fixed sequence of catalog reports and the runner that executes them.
//
// Each Definition names its collection and either a filter (find) or a pipeline (aggregate), so a
// report depends on nothing but the store passed to Runner.Run. Results are printed as one line per
// document and, when the definition names an output file, exported as indented JSON.
package report
