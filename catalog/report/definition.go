package report

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// LineFormatter renders one console line for a result document.
type LineFormatter func(doc docstore.Document) string

// Transform rewrites a result set before it is exported.
type Transform func(docs docstore.Documents) docstore.Documents

// Definition describes one report. A nil Pipeline means a Find with Filter.
type Definition struct {
	Name       string
	Heading    string
	Collection string
	Filter     docstore.Filter
	Pipeline   docstore.Pipeline
	OutputFile string
	FormatLine LineFormatter
	Transform  Transform

	// NeedsDetails marks reports that read the production details collection.
	NeedsDetails bool
}

// IsAggregation reports whether the definition runs a pipeline.
func (d Definition) IsAggregation() bool {
	return d.Pipeline != nil
}

// Definitions is an ordered list of reports.
type Definitions []Definition

// SeriesOnly returns the reports that only read the series collection.
func (ds Definitions) SeriesOnly() Definitions {
	return ds.filter(false)
}

// WithDetails returns the reports that join the production details.
func (ds Definitions) WithDetails() Definitions {
	return ds.filter(true)
}

func (ds Definitions) filter(needsDetails bool) Definitions {
	result := make(Definitions, 0, len(ds))
	for _, d := range ds {
		if d.NeedsDetails == needsDetails {
			result = append(result, d)
		}
	}

	return result
}

// Find returns the definition with the given name.
func (ds Definitions) Find(name string) (Definition, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}

	return Definition{}, false
}
