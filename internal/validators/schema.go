// Package validators holds the per-endpoint request schemas and the engine
// that applies them. Schemas are JSON Schema documents compiled with
// santhosh-tekuri/jsonschema; failures are reported as a single
// field-level message.
package validators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/xelth-com/docketgo/internal/apperr"
	"github.com/xelth-com/docketgo/internal/utils"
)

// DateFormat is the custom "format" asserted for DD-MM-YYYY strings.
const DateFormat = "dd-mm-yyyy"

var registerFormats sync.Once

// Message maps a failing keyword on a field to a human-readable text.
// Field is the dotted property path without array indices
// (e.g. "labourItems.hoursWorked").
type Message struct {
	Field   string
	Keyword string
	Text    string
}

// Schema is one compiled part (body, params or query) of an endpoint's rules.
type Schema struct {
	name     string
	doc      map[string]interface{}
	compiled *jsonschema.Schema
	messages []Message
	integers map[string]bool
	defaults map[string]string
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithMessages sets the field messages, in priority order.
func WithMessages(msgs ...[]Message) SchemaOption {
	return func(s *Schema) {
		for _, m := range msgs {
			s.messages = append(s.messages, m...)
		}
	}
}

// WithIntegers marks query/param fields coerced to numbers before validation.
func WithIntegers(fields ...string) SchemaOption {
	return func(s *Schema) {
		for _, f := range fields {
			s.integers[f] = true
		}
	}
}

// WithDefault sets a value applied after validation when the field is absent.
func WithDefault(field, value string) SchemaOption {
	return func(s *Schema) {
		s.defaults[field] = value
	}
}

// NewSchema compiles doc. It panics on an invalid schema, so all schemas
// are built at package initialisation.
func NewSchema(name string, doc map[string]interface{}, opts ...SchemaOption) *Schema {
	registerFormats.Do(func() {
		jsonschema.Formats[DateFormat] = func(v interface{}) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			return utils.IsDDMMYYYY(s)
		}
	})

	s := &Schema{
		name:     name,
		doc:      doc,
		integers: make(map[string]bool),
		defaults: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("validators: marshal %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("validators: add %s: %v", name, err))
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		panic(fmt.Sprintf("validators: compile %s: %v", name, err))
	}
	s.compiled = compiled
	return s
}

// Validate checks an already-decoded value and returns a validation error
// carrying the highest-priority message.
func (s *Schema) Validate(v interface{}) error {
	err := s.compiled.Validate(v)
	if err == nil {
		return nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return apperr.Internal(err, "schema validation failed")
	}
	return apperr.Validation(s.describe(v, verr))
}

// ValidateBody decodes the JSON body, trims strings, validates it and
// replaces the body with the sanitized document.
func (s *Schema) ValidateBody(r *http.Request) error {
	var raw []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return apperr.Validation("Invalid request payload")
		}
		raw = b
	}

	var doc interface{} = map[string]interface{}{}
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return apperr.Validation("Invalid JSON payload")
		}
	}

	doc = trimStrings(doc)
	if err := s.Validate(doc); err != nil {
		return err
	}

	clean, err := json.Marshal(doc)
	if err != nil {
		return apperr.Internal(err, "re-encode body")
	}
	r.Body = io.NopCloser(bytes.NewReader(clean))
	r.ContentLength = int64(len(clean))
	return nil
}

// ValidateQuery validates the URL query, applies defaults and rewrites
// RawQuery with the sanitized values. Empty and undeclared keys are dropped.
func (s *Schema) ValidateQuery(r *http.Request) error {
	values := r.URL.Query()
	props := s.properties()

	doc := make(map[string]interface{})
	for key := range values {
		if _, known := props[key]; !known {
			continue
		}
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			continue
		}
		doc[key] = s.coerce(key, v)
	}

	if err := s.Validate(doc); err != nil {
		return err
	}

	clean := url.Values{}
	for key, v := range doc {
		clean.Set(key, fmt.Sprint(v))
	}
	for key, v := range s.defaults {
		if clean.Get(key) == "" {
			clean.Set(key, v)
		}
	}
	r.URL.RawQuery = clean.Encode()
	return nil
}

// ValidateParams validates route variables.
func (s *Schema) ValidateParams(vars map[string]string) error {
	doc := make(map[string]interface{}, len(vars))
	for key, v := range vars {
		doc[key] = s.coerce(key, v)
	}
	return s.Validate(doc)
}

func (s *Schema) properties() map[string]interface{} {
	props, _ := s.doc["properties"].(map[string]interface{})
	return props
}

// coerce turns numeric strings of integer fields into json.Number so the
// schema can check type and range.
func (s *Schema) coerce(key, v string) interface{} {
	if !s.integers[key] {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return json.Number(strconv.FormatInt(n, 10))
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		// whole numbers such as "2.0" or "1e1" are normalised so the
		// sanitized query carries a plain integer
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return json.Number(strconv.FormatInt(int64(f), 10))
		}
		return json.Number(v)
	}
	return v
}

// ── error description ────────────────────────────────────────────

type failure struct {
	field   string
	keyword string
}

func (s *Schema) describe(instance interface{}, verr *jsonschema.ValidationError) string {
	var failures []failure
	for _, leaf := range leaves(verr) {
		failures = append(failures, s.toFailure(instance, leaf))
	}
	if len(failures) == 0 {
		return "Invalid request"
	}

	for _, m := range s.messages {
		for _, f := range failures {
			if f.field == m.Field && f.keyword == m.Keyword {
				return m.Text
			}
		}
	}

	sort.Slice(failures, func(i, j int) bool {
		if failures[i].field != failures[j].field {
			return failures[i].field < failures[j].field
		}
		return failures[i].keyword < failures[j].keyword
	})
	return fallbackText(failures[0])
}

func fallbackText(f failure) string {
	name := f.field
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "value"
	}

	switch f.keyword {
	case "required":
		return name + " is required"
	case "additionalProperties":
		return fmt.Sprintf("%q is not allowed", name)
	case "type":
		return name + " has an invalid type"
	default:
		return name + " is invalid"
	}
}

// toFailure resolves the field a leaf error refers to. For "required" and
// "additionalProperties" the offending property is found by inspecting the
// schema and the instance at the error's locations.
func (s *Schema) toFailure(instance interface{}, leaf *jsonschema.ValidationError) failure {
	kwPath := splitPointer(leaf.KeywordLocation)
	keyword := ""
	if len(kwPath) > 0 {
		keyword = kwPath[len(kwPath)-1]
	}

	instPath := splitPointer(leaf.InstanceLocation)
	field := dotted(instPath)

	switch keyword {
	case "required":
		required, _ := lookup(s.doc, kwPath).([]string)
		obj, _ := lookup(instance, instPath).(map[string]interface{})
		for _, name := range required {
			if _, ok := obj[name]; !ok {
				return failure{field: join(field, name), keyword: keyword}
			}
		}
	case "additionalProperties":
		parent := kwPath[:len(kwPath)-1]
		props, _ := lookup(s.doc, append(parent, "properties")).(map[string]interface{})
		obj, _ := lookup(instance, instPath).(map[string]interface{})
		extra := make([]string, 0)
		for name := range obj {
			if _, ok := props[name]; !ok {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		if len(extra) > 0 {
			return failure{field: join(field, extra[0]), keyword: keyword}
		}
	}

	return failure{field: field, keyword: keyword}
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func splitPointer(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

// dotted joins the non-index segments of an instance path.
func dotted(path []string) string {
	var parts []string
	for _, p := range path {
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// lookup walks maps and slices along path.
func lookup(v interface{}, path []string) interface{} {
	for _, p := range path {
		switch node := v.(type) {
		case map[string]interface{}:
			v = node[p]
		case []interface{}:
			i, err := strconv.Atoi(p)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			v = node[i]
		default:
			return nil
		}
	}
	return v
}

func trimStrings(v interface{}) interface{} {
	switch node := v.(type) {
	case string:
		return strings.TrimSpace(node)
	case map[string]interface{}:
		for k, child := range node {
			node[k] = trimStrings(child)
		}
		return node
	case []interface{}:
		for i, child := range node {
			node[i] = trimStrings(child)
		}
		return node
	default:
		return v
	}
}
