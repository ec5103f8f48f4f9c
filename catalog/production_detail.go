package catalog

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// ProductionDetail holds production metadata of a series, joined to it by title.
type ProductionDetail struct {
	Title            string
	OriginCountry    string
	MainCast         []string
	BudgetPerEpisode float64 // millions
}

func (d ProductionDetail) Document() docstore.Document {
	return docstore.BuildDocument(
		docstore.F(KeyTitle, d.Title),
		docstore.F(KeyOriginCountry, d.OriginCountry),
		docstore.F(KeyMainCast, stringsToValues(d.MainCast)),
		docstore.F(KeyBudgetPerEpisode, d.BudgetPerEpisode),
	)
}

func ProductionDetailDocuments(details []ProductionDetail) docstore.Documents {
	docs := make(docstore.Documents, 0, len(details))
	for _, d := range details {
		docs = append(docs, d.Document())
	}

	return docs
}

func ProductionDetailFromDocument(doc docstore.Document) (ProductionDetail, error) {
	var (
		d   ProductionDetail
		err error
	)

	if d.Title, err = stringField(doc, KeyTitle); err != nil {
		return ProductionDetail{}, err
	}

	if d.OriginCountry, err = stringField(doc, KeyOriginCountry); err != nil {
		return ProductionDetail{}, err
	}

	if d.MainCast, err = stringsField(doc, KeyMainCast); err != nil {
		return ProductionDetail{}, err
	}

	if d.BudgetPerEpisode, err = floatField(doc, KeyBudgetPerEpisode); err != nil {
		return ProductionDetail{}, err
	}

	return d, nil
}
