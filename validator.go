package sqlfill

import (
	"regexp"
	"strings"

	"github.com/nao1215/sqlfill/domain/model"
)

// Validation messages
const (
	msgNotArray       = "data must be an array of objects"
	msgEmptyRows      = "data must contain at least one row"
	msgFirstNotObject = "first row must be a non-null object"
	msgEmptyTemplate  = "template cannot be empty"
	msgMissingValues  = "template must contain VALUES clause"
	msgInvalidValues  = "invalid VALUES clause format"
	msgValuesNotFound = "could not find VALUES clause in template"
	insertIntoKeyword = "insert into"
	valuesKeyword     = "values"
)

// valuesClause captures everything between the first '(' after VALUES and
// the last ')' of the template.
var valuesClause = regexp.MustCompile(`(?is)values\s*\((.*)\)`)

// validator handles pre-flight checks on data and templates
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateRows checks the decoded shape of a data source. Checks stop at the
// first failing category.
func (v *validator) validateRows(value any) model.ValidationErrors {
	elems, ok := value.([]any)
	if !ok {
		return model.ValidationErrors{msgNotArray}
	}
	if len(elems) == 0 {
		return model.ValidationErrors{msgEmptyRows}
	}
	if !isObject(elems[0]) {
		return model.ValidationErrors{msgFirstNotObject}
	}
	return nil
}

// isObject reports whether v is a decoded JSON object.
func isObject(v any) bool {
	switch o := v.(type) {
	case *jsonObject:
		return o != nil
	case map[string]any:
		return o != nil
	default:
		return false
	}
}

// validateTemplate checks a template before expansion.
func (v *validator) validateTemplate(template string) model.ValidationErrors {
	if strings.TrimSpace(template) == "" {
		return model.ValidationErrors{msgEmptyTemplate}
	}
	if tokenize(template).mode() == model.ModeAggregate {
		return nil
	}

	lower := strings.ToLower(template)
	if !strings.Contains(lower, insertIntoKeyword) {
		return nil
	}
	if !strings.Contains(lower, valuesKeyword) {
		return model.ValidationErrors{msgMissingValues}
	}
	if !valuesClause.MatchString(template) {
		return model.ValidationErrors{msgInvalidValues}
	}
	return nil
}

// ValidateRows checks that a decoded JSON value can become a row set: it must
// be an array, non-empty, and its first element must be an object. Values
// decoded with encoding/json (map[string]any elements) are accepted too.
func ValidateRows(value any) model.ValidationErrors {
	return newValidator().validateRows(value)
}

// ValidateTemplate returns the problems found in template. An empty result
// means the template can be expanded.
func ValidateTemplate(template string) model.ValidationErrors {
	return newValidator().validateTemplate(template)
}
