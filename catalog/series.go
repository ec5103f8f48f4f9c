package catalog

import (
	"errors"
	"fmt"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// ErrMappingFromDocumentFailed is returned when a stored document does not have the shape of a catalog record.
var ErrMappingFromDocumentFailed = errors.New("mapping from document failed")

// Series is one TV series of the catalog. Rating is nil for incomplete records.
type Series struct {
	Title       string
	Platform    string
	Seasons     int
	Genres      []string
	Completed   bool
	ReleaseYear int
	Rating      *float64
}

// HasRating reports whether the series carries a rating.
func (s Series) HasRating() bool {
	return s.Rating != nil
}

// Document maps the series to its stored form. The rating key is absent when there is no rating.
func (s Series) Document() docstore.Document {
	doc := docstore.BuildDocument(
		docstore.F(KeyTitle, s.Title),
		docstore.F(KeyPlatform, s.Platform),
		docstore.F(KeySeasons, s.Seasons),
		docstore.F(KeyGenres, stringsToValues(s.Genres)),
		docstore.F(KeyCompleted, s.Completed),
		docstore.F(KeyReleaseYear, s.ReleaseYear),
	)

	if s.Rating != nil {
		doc = doc.Set(KeyRating, *s.Rating)
	}

	return doc
}

// SeriesDocuments maps every series to its stored form.
func SeriesDocuments(series []Series) docstore.Documents {
	docs := make(docstore.Documents, 0, len(series))
	for _, s := range series {
		docs = append(docs, s.Document())
	}

	return docs
}

// SeriesFromDocument reads a stored series back, accepting every numeric representation the engines return.
func SeriesFromDocument(doc docstore.Document) (Series, error) {
	var (
		s   Series
		err error
	)

	if s.Title, err = stringField(doc, KeyTitle); err != nil {
		return Series{}, err
	}

	if s.Platform, err = stringField(doc, KeyPlatform); err != nil {
		return Series{}, err
	}

	if s.Seasons, err = intField(doc, KeySeasons); err != nil {
		return Series{}, err
	}

	if s.Genres, err = stringsField(doc, KeyGenres); err != nil {
		return Series{}, err
	}

	if s.Completed, err = boolField(doc, KeyCompleted); err != nil {
		return Series{}, err
	}

	if s.ReleaseYear, err = intField(doc, KeyReleaseYear); err != nil {
		return Series{}, err
	}

	if value, ok := doc.Get(KeyRating); ok && value != nil {
		rating, isNumber := docstore.ToFloat(value)
		if !isNumber {
			return Series{}, fieldError(KeyRating, value)
		}
		s.Rating = &rating
	}

	return s, nil
}

// SeriesFromDocuments reads every document as a series.
func SeriesFromDocuments(docs docstore.Documents) ([]Series, error) {
	series := make([]Series, 0, len(docs))

	for _, doc := range docs {
		s, err := SeriesFromDocument(doc)
		if err != nil {
			return nil, err
		}

		series = append(series, s)
	}

	return series, nil
}

func stringField(doc docstore.Document, key string) (string, error) {
	value, _ := doc.Get(key)

	s, ok := value.(string)
	if !ok {
		return "", fieldError(key, value)
	}

	return s, nil
}

func intField(doc docstore.Document, key string) (int, error) {
	value, _ := doc.Get(key)

	i, ok := docstore.ToInt(value)
	if !ok {
		return 0, fieldError(key, value)
	}

	return i, nil
}

func floatField(doc docstore.Document, key string) (float64, error) {
	value, _ := doc.Get(key)

	f, ok := docstore.ToFloat(value)
	if !ok {
		return 0, fieldError(key, value)
	}

	return f, nil
}

func boolField(doc docstore.Document, key string) (bool, error) {
	value, _ := doc.Get(key)

	b, ok := value.(bool)
	if !ok {
		return false, fieldError(key, value)
	}

	return b, nil
}

func stringsField(doc docstore.Document, key string) ([]string, error) {
	value, _ := doc.Get(key)

	elements, ok := docstore.ToArray(value)
	if !ok {
		return nil, fieldError(key, value)
	}

	values := make([]string, 0, len(elements))
	for _, element := range elements {
		s, isString := element.(string)
		if !isString {
			return nil, fieldError(key, value)
		}
		values = append(values, s)
	}

	return values, nil
}

func stringsToValues(values []string) []any {
	elements := make([]any, len(values))
	for i, v := range values {
		elements[i] = v
	}

	return elements
}

func fieldError(key string, value any) error {
	return errors.Join(ErrMappingFromDocumentFailed, fmt.Errorf("field %q has unexpected value %v (%T)", key, value, value))
}
