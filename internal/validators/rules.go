package validators

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/docketgo/internal/models"
)

// Rules groups the schemas of one endpoint. Nil parts are skipped.
type Rules struct {
	Params *Schema
	Query  *Schema
	Body   *Schema
}

// Apply validates params, query and body in that order and stops at the
// first failure. Sanitized query and body replace the raw input.
func (rules Rules) Apply(r *http.Request) error {
	if rules.Params != nil {
		if err := rules.Params.ValidateParams(mux.Vars(r)); err != nil {
			return err
		}
	}
	if rules.Query != nil {
		if err := rules.Query.ValidateQuery(r); err != nil {
			return err
		}
	}
	if rules.Body != nil {
		if err := rules.Body.ValidateBody(r); err != nil {
			return err
		}
	}
	return nil
}

// ── schema building blocks ──────────────────────────────────────

type doc = map[string]interface{}

func object(props doc, required ...string) doc {
	if required == nil {
		required = []string{}
	}
	return doc{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func nonEmptyString() doc {
	return doc{"type": "string", "minLength": 1}
}

func idString() doc {
	return doc{"type": "string", "minLength": models.IDLength, "maxLength": models.IDLength}
}

func dateString() doc {
	return doc{"type": "string", "pattern": `^\d{2}-\d{2}-\d{4}$`, "format": DateFormat}
}

func positiveInteger(upper int) doc {
	return doc{"type": "integer", "minimum": 1, "maximum": upper}
}

func requiredString(field, text string) []Message {
	return []Message{
		{Field: field, Keyword: "required", Text: text},
		{Field: field, Keyword: "minLength", Text: text},
		{Field: field, Keyword: "type", Text: leafName(field) + " must be a string"},
	}
}

func idMessages(field, invalid, required string) []Message {
	return []Message{
		{Field: field, Keyword: "required", Text: required},
		{Field: field, Keyword: "minLength", Text: invalid},
		{Field: field, Keyword: "maxLength", Text: invalid},
	}
}

func dateMessages(field string, required bool) []Message {
	msgs := []Message{
		{Field: field, Keyword: "type", Text: field + " must be in DD-MM-YYYY format"},
		{Field: field, Keyword: "pattern", Text: field + " must be in DD-MM-YYYY format"},
		{Field: field, Keyword: "format", Text: field + " must be a valid calendar date"},
	}
	if required {
		msgs = append([]Message{{Field: field, Keyword: "required", Text: field + " is required"}}, msgs...)
	}
	return msgs
}

func pageMessages(field string, upper int) []Message {
	return []Message{
		{Field: field, Keyword: "type", Text: field + " must be a number"},
		{Field: field, Keyword: "minimum", Text: field + " must be at least 1"},
		{Field: field, Keyword: "maximum", Text: fmt.Sprintf("%s must be at most %d", field, upper)},
	}
}

func leafName(field string) string {
	for i := len(field) - 1; i >= 0; i-- {
		if field[i] == '.' {
			return field[i+1:]
		}
	}
	return field
}
