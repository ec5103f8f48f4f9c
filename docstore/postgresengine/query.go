package postgresengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/lib/pq"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/jsoncodec"
)

const (
	dialectPostgres = "postgres"

	colSequence = "seq"
	colDocID    = "doc_id"
	colDoc      = "doc"

	castJSON     = "?::json"
	castText     = "?::text"
	pathExists   = "jsonb_path_exists(?::jsonb, ?::jsonpath)"
	pathMatches  = "jsonb_path_exists(?::jsonb, ?::jsonpath, ?::jsonb)"
	notPrefix    = "NOT "
	pathVariable = "v"
)

var comparisonOperators = map[docstore.Operator]string{
	docstore.OpEq:  "==",
	docstore.OpGt:  ">",
	docstore.OpGte: ">=",
	docstore.OpLt:  "<",
	docstore.OpLte: "<=",
}

type insertRow struct {
	docID string
	doc   string
}

func buildCreateTableQuery(table string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s BIGSERIAL PRIMARY KEY, %s TEXT NOT NULL, %s JSON NOT NULL)",
		pq.QuoteIdentifier(table), colSequence, colDocID, colDoc,
	)
}

func buildDropTableQuery(table string) string {
	return "DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table)
}

func buildSelectQuery(table string, filter docstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(table).
		Select(colDocID, goqu.L(castText, goqu.C(colDoc))).
		Order(goqu.C(colSequence).Asc())

	whereExpressions, err := buildWhereExpressions(filter)
	if err != nil {
		return "", err
	}

	if len(whereExpressions) > 0 {
		selectStmt = selectStmt.Where(whereExpressions...)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(docstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildInsertQuery(table string, rows []insertRow) (string, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(table).
		Cols(colDocID, colDoc)

	for _, row := range rows {
		insertStmt = insertStmt.Vals(goqu.Vals{row.docID, goqu.L(castJSON, row.doc)})
	}

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(docstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildWhereExpressions compiles every condition into a jsonb_path_exists predicate.
// jsonpath lax mode unwraps arrays along the path, so an array field matches when any element does,
// and comparisons between different JSON types evaluate to unknown, which matches nothing.
func buildWhereExpressions(filter docstore.Filter) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0, len(filter.Conditions()))

	for _, condition := range filter.Conditions() {
		expression, err := buildConditionExpression(condition)
		if err != nil {
			return nil, err
		}

		expressions = append(expressions, expression)
	}

	return expressions, nil
}

func buildConditionExpression(condition docstore.Condition) (goqu.Expression, error) {
	path := jsonPath(condition.Field())

	if condition.Field() == docstore.IDField && condition.Operator() == docstore.OpEq {
		if id, ok := identifierText(condition.Value()); ok {
			return goqu.C(colDocID).Eq(id), nil
		}
	}

	switch condition.Operator() {
	case docstore.OpExists:
		return goqu.L(pathExists, goqu.C(colDoc), path), nil

	case docstore.OpNotExists:
		return goqu.L(notPrefix+pathExists, goqu.C(colDoc), path), nil

	case docstore.OpEq:
		if condition.Value() == nil {
			// missing or null
			return goqu.L(notPrefix+pathExists, goqu.C(colDoc), path+" ? (@ != null)"), nil
		}
	}

	operator, ok := comparisonOperators[condition.Operator()]
	if !ok {
		return nil, errors.Join(docstore.ErrInvalidFilter, fmt.Errorf("unsupported operator %q", condition.Operator()))
	}

	vars, err := jsoncodec.Marshal(
		docstore.BuildDocument(docstore.F(pathVariable, condition.Value())),
		toStorableValue,
	)
	if err != nil {
		return nil, errors.Join(docstore.ErrBuildingQueryFailed, err)
	}

	predicate := fmt.Sprintf("%s ? (@ %s $%s)", path, operator, pathVariable)

	return goqu.L(pathMatches, goqu.C(colDoc), predicate, string(vars)), nil
}

// jsonPath renders a dotted field path as a jsonpath with quoted member accessors.
func jsonPath(field string) string {
	var b strings.Builder
	b.WriteString("$")

	for _, segment := range strings.Split(field, ".") {
		b.WriteString(`."`)
		b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(segment))
		b.WriteString(`"`)
	}

	return b.String()
}
