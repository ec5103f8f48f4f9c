package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/seriescatalog/catalog-reports/catalog"
	"github.com/seriescatalog/catalog-reports/catalog/generator"
	"github.com/seriescatalog/catalog-reports/catalog/report"
	"github.com/seriescatalog/catalog-reports/docstore"
)

const (
	DefaultSeriesCount           = 50
	DefaultIncompleteSeriesCount = 10

	logMsgStepCompleted = "batch step completed"
	logMsgRunCompleted  = "batch run completed"
	logMsgStepFailed    = "batch step failed"
	logAttrRunID        = "run_id"
	logAttrStep         = "step"
	logAttrCount        = "count"
	logAttrDurationMS   = "duration_ms"
	logAttrError        = "error"

	stepSeedSeries     = "seed series"
	stepSeedIncomplete = "seed incomplete series"
	stepSeriesReports  = "series reports"
	stepSeedDetails    = "seed production details"
	stepJoinReports    = "join reports"
)

var (
	ErrInvalidDependencies = errors.New("invalid batch dependencies")
	ErrInvalidSettings     = errors.New("invalid batch settings")
	ErrSeedingFailed       = errors.New("seeding collection failed")
)

// Dependencies are the collaborators of a run.
type Dependencies struct {
	Store     docstore.Store
	Generator *generator.Generator
	Runner    *report.Runner
	Out       io.Writer       // console lines, io.Discard when nil
	Logger    docstore.Logger // optional
}

// Settings control what a run generates and reports.
type Settings struct {
	RunID                 string
	Collections           report.Collections
	SeriesCount           int
	IncompleteSeriesCount int
	EpisodesPerSeason     int
}

// DefaultSettings returns the settings of the standard catalog run.
func DefaultSettings() Settings {
	return Settings{
		Collections:           report.DefaultCollections(),
		SeriesCount:           DefaultSeriesCount,
		IncompleteSeriesCount: DefaultIncompleteSeriesCount,
		EpisodesPerSeason:     report.DefaultEpisodesPerSeason,
	}
}

// ReportOutcome is the result size and written file of one report.
type ReportOutcome struct {
	Name          string
	DocumentCount int
	File          string
}

// Summary describes a finished run.
type Summary struct {
	RunID                    string
	SeriesInserted           int
	IncompleteSeriesInserted int
	DetailsInserted          int
	Reports                  []ReportOutcome
	AverageRating            float64
	HasAverageRating         bool
}

// Files returns the report files written by the run in report order.
func (s Summary) Files() []string {
	files := make([]string, 0, len(s.Reports))
	for _, outcome := range s.Reports {
		if outcome.File != "" {
			files = append(files, outcome.File)
		}
	}

	return files
}

type run struct {
	deps     Dependencies
	settings Settings
	out      io.Writer
	summary  Summary
}

// Run executes the whole catalog job and returns what it did.
// On failure the summary covers the steps completed so far.
func Run(ctx context.Context, deps Dependencies, settings Settings) (Summary, error) {
	if err := validate(deps, settings); err != nil {
		return Summary{}, err
	}

	r := &run{
		deps:     deps,
		settings: settings,
		out:      deps.Out,
		summary:  Summary{RunID: settings.RunID},
	}
	if r.out == nil {
		r.out = io.Discard
	}

	defs := report.Catalog(settings.Collections, settings.EpisodesPerSeason)

	steps := []struct {
		name    string
		execute func(ctx context.Context) (int, error)
	}{
		{name: stepSeedSeries, execute: r.seedSeries},
		{name: stepSeedIncomplete, execute: r.seedIncompleteSeries},
		{name: stepSeriesReports, execute: r.reportsStep(defs.SeriesOnly())},
		{name: stepSeedDetails, execute: r.seedDetails},
		{name: stepJoinReports, execute: r.reportsStep(defs.WithDetails())},
	}

	start := time.Now()

	for _, step := range steps {
		stepStart := time.Now()

		count, err := step.execute(ctx)
		if err != nil {
			r.logError(step.name, err)
			return r.summary, err
		}

		r.logInfo(logMsgStepCompleted, logAttrStep, step.name, logAttrCount, count, logAttrDurationMS, toMilliseconds(time.Since(stepStart)))
	}

	r.logInfo(logMsgRunCompleted, logAttrDurationMS, toMilliseconds(time.Since(start)))

	return r.summary, nil
}

func validate(deps Dependencies, settings Settings) error {
	switch {
	case deps.Store == nil:
		return errors.Join(ErrInvalidDependencies, errors.New("store is nil"))
	case deps.Generator == nil:
		return errors.Join(ErrInvalidDependencies, errors.New("generator is nil"))
	case deps.Runner == nil:
		return errors.Join(ErrInvalidDependencies, errors.New("report runner is nil"))
	case settings.Collections.Series == "" || settings.Collections.Details == "":
		return errors.Join(ErrInvalidSettings, docstore.ErrEmptyCollectionName)
	case settings.SeriesCount < 0 || settings.IncompleteSeriesCount < 0:
		return errors.Join(ErrInvalidSettings, errors.New("series counts must not be negative"))
	case settings.EpisodesPerSeason <= 0:
		return errors.Join(ErrInvalidSettings, errors.New("episodes per season must be positive"))
	default:
		return nil
	}
}

func (r *run) seedSeries(ctx context.Context) (int, error) {
	collection := r.settings.Collections.Series

	if err := r.deps.Store.DropCollection(ctx, collection); err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}
	r.printf("Colección '%s' eliminada ✅\n", collection)

	inserted, err := r.generateAndInsertSeries(ctx, r.settings.SeriesCount, false)
	if err != nil {
		return 0, err
	}

	r.summary.SeriesInserted = inserted
	r.printf("%d series insertadas 🎬\n", inserted)

	return inserted, nil
}

func (r *run) seedIncompleteSeries(ctx context.Context) (int, error) {
	inserted, err := r.generateAndInsertSeries(ctx, r.settings.IncompleteSeriesCount, true)
	if err != nil {
		return 0, err
	}

	r.summary.IncompleteSeriesInserted = inserted
	r.printf("%d series incompletas insertadas 🎬\n", inserted)

	return inserted, nil
}

func (r *run) generateAndInsertSeries(ctx context.Context, count int, incomplete bool) (int, error) {
	series, err := r.deps.Generator.Series(count, incomplete)
	if err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}

	inserted, err := r.deps.Store.InsertMany(ctx, r.settings.Collections.Series, catalog.SeriesDocuments(series))
	if err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}

	return inserted, nil
}

// seedDetails builds one production detail for every series currently stored.
func (r *run) seedDetails(ctx context.Context) (int, error) {
	stored, err := r.deps.Store.Find(ctx, r.settings.Collections.Series, docstore.BuildFilter().MatchingAnyDocument())
	if err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}

	series, err := catalog.SeriesFromDocuments(stored)
	if err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}

	collection := r.settings.Collections.Details
	if err := r.deps.Store.DropCollection(ctx, collection); err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}
	r.printf("\nColección '%s' eliminada ✅\n", collection)

	details := r.deps.Generator.ProductionDetails(series)

	inserted, err := r.deps.Store.InsertMany(ctx, collection, catalog.ProductionDetailDocuments(details))
	if err != nil {
		return 0, errors.Join(ErrSeedingFailed, err)
	}

	r.summary.DetailsInserted = inserted
	r.printf("%d documentos insertados en '%s' ✅\n", inserted, collection)

	return inserted, nil
}

func (r *run) reportsStep(defs report.Definitions) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		for _, def := range defs {
			result, err := r.deps.Runner.Run(ctx, r.deps.Store, def)
			if err != nil {
				return 0, err
			}

			r.summary.Reports = append(r.summary.Reports, ReportOutcome{
				Name:          result.Name,
				DocumentCount: len(result.Documents),
				File:          result.File,
			})

			if def.Name == report.NameAverageRating {
				r.summary.AverageRating, r.summary.HasAverageRating = report.AverageRating(result.Documents)
			}
		}

		return len(defs), nil
	}
}

func (r *run) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *run) logInfo(message string, args ...any) {
	if r.deps.Logger != nil {
		r.deps.Logger.Info(message, append([]any{logAttrRunID, r.settings.RunID}, args...)...)
	}
}

func (r *run) logError(step string, err error) {
	if r.deps.Logger != nil {
		r.deps.Logger.Error(logMsgStepFailed, logAttrRunID, r.settings.RunID, logAttrStep, step, logAttrError, err.Error())
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
