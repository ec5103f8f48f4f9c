package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/jsonexport"
)

const (
	logMsgReportCompleted = "report completed"
	logMsgReportFailed    = "report failed"
	logAttrReport         = "report"
	logAttrCollection     = "collection"
	logAttrDocumentCount  = "document_count"
	logAttrFile           = "file"
	logAttrError          = "error"
)

var (
	ErrReportFailed   = errors.New("running report failed")
	ErrNilOutput      = errors.New("report output writer is nil")
	ErrEmptyOutputDir = errors.New("empty report output directory supplied")
	ErrNilStore       = errors.New("document store is nil")
)

// Result is the outcome of one report run.
type Result struct {
	Name      string
	Documents docstore.Documents
	File      string // empty when the report writes no file
	JSON      string
}

// Runner executes report definitions, prints their lines, and exports their results.
type Runner struct {
	out       io.Writer
	outputDir string
	logger    docstore.Logger
}

// Option defines a functional option for configuring a Runner.
type Option func(*Runner) error

// WithOutput sets where the console lines go. The default discards them.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) error {
		if out == nil {
			return ErrNilOutput
		}

		r.out = out

		return nil
	}
}

// WithOutputDir sets the directory the JSON reports are written to. The default is the working directory.
func WithOutputDir(dir string) Option {
	return func(r *Runner) error {
		if dir == "" {
			return ErrEmptyOutputDir
		}

		r.outputDir = dir

		return nil
	}
}

// WithLogger sets a logger for report outcomes.
func WithLogger(logger docstore.Logger) Option {
	return func(r *Runner) error {
		r.logger = logger

		return nil
	}
}

// NewRunner creates a Runner.
func NewRunner(options ...Option) (*Runner, error) {
	r := &Runner{
		out:       io.Discard,
		outputDir: ".",
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run executes one definition against the store.
func (r *Runner) Run(ctx context.Context, store docstore.Store, def Definition) (Result, error) {
	if store == nil {
		return Result{}, ErrNilStore
	}

	docs, err := r.fetch(ctx, store, def)
	if err != nil {
		r.logError(def, err)
		return Result{}, errors.Join(ErrReportFailed, fmt.Errorf("report %s", def.Name), err)
	}

	result := Result{Name: def.Name, Documents: docs}

	if def.Heading != "" {
		r.printf("\n%s\n", def.Heading)
	}

	r.printLines(def, docs)

	if def.OutputFile != "" {
		exported := docs
		if def.Transform != nil {
			exported = def.Transform(docs)
		}

		result.File = filepath.Join(r.outputDir, def.OutputFile)

		result.JSON, err = jsonexport.ToJSON(exported, result.File)
		if err != nil {
			r.logError(def, err)
			return Result{}, errors.Join(ErrReportFailed, fmt.Errorf("report %s", def.Name), err)
		}

		r.printf("\nArchivo '%s' generado.\n", def.OutputFile)
	}

	if r.logger != nil {
		r.logger.Info(
			logMsgReportCompleted,
			logAttrReport, def.Name,
			logAttrCollection, def.Collection,
			logAttrDocumentCount, len(docs),
			logAttrFile, result.File,
		)
	}

	return result, nil
}

// RunAll executes the definitions in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, store docstore.Store, defs Definitions) ([]Result, error) {
	results := make([]Result, 0, len(defs))

	for _, def := range defs {
		result, err := r.Run(ctx, store, def)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) fetch(ctx context.Context, store docstore.Store, def Definition) (docstore.Documents, error) {
	if def.IsAggregation() {
		return store.Aggregate(ctx, def.Collection, def.Pipeline)
	}

	return store.Find(ctx, def.Collection, def.Filter)
}

func (r *Runner) printLines(def Definition, docs docstore.Documents) {
	if def.FormatLine == nil {
		return
	}

	for _, doc := range docs {
		if line := def.FormatLine(doc); line != "" {
			r.printf("%s\n", line)
		}
	}
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) logError(def Definition, err error) {
	if r.logger != nil {
		r.logger.Error(logMsgReportFailed, logAttrError, err.Error(), logAttrReport, def.Name)
	}
}
