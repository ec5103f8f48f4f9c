// Package catalog defines the series catalog model and its document mapping.
//
// Series and ProductionDetail are stored as documents with the Spanish field names used by the
// published reports (titulo, plataforma, temporadas, ...). The Key constants name those fields, and
// the vocabularies list the values the generator draws from.
package catalog
