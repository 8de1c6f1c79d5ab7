// Package validator checks untyped request bodies against declarative
// schemas. Validate is a pure function: it keeps no state between calls and
// reports every failing field, in schema order.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aleodoni/meetapp/internal/errs"
	playground "github.com/go-playground/validator/v10"
)

type Kind int

const (
	String Kind = iota
	Date
	Integer
)

// Field describes one body property. Rules holds go-playground validator
// tags applied to the coerced value (for example "email" or "min=6").
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    string
}

type Schema struct {
	Name   string
	Fields []Field
}

// Result holds the coerced values of a body and the messages of every field
// that failed.
type Result struct {
	values map[string]interface{}
	Errors []string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result and an *errs.ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return errs.NewValidation(r.Errors...)
}

func (r Result) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r Result) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

func (r Result) Time(name string) time.Time {
	t, _ := r.values[name].(time.Time)
	return t
}

func (r Result) Int(name string) int64 {
	n, _ := r.values[name].(int64)
	return n
}

// maxSafeInteger is the largest integer a float64 holds exactly.
const maxSafeInteger = 1 << 53

// rules is safe for concurrent use and only caches tag parsing.
var rules = playground.New()

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func Validate(schema Schema, body map[string]interface{}) Result {
	result := Result{values: make(map[string]interface{}, len(schema.Fields))}

	for _, field := range schema.Fields {
		raw, present := body[field.Name]
		if !present || raw == nil || raw == "" {
			if field.Required {
				result.Errors = append(result.Errors, fmt.Sprintf("%s is a required field", field.Name))
			}
			continue
		}

		value, msg := coerce(field, raw)
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}

		if field.Rules != "" {
			if err := rules.Var(value, field.Rules); err != nil {
				result.Errors = append(result.Errors, ruleMessage(field.Name, err))
				continue
			}
		}

		result.values[field.Name] = value
	}

	return result
}

func coerce(field Field, raw interface{}) (interface{}, string) {
	switch field.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Sprintf("%s must be a `string` type", field.Name)
		}
		return s, ""

	case Date:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Sprintf("%s must be a `date` type", field.Name)
		}
		t, err := ParseDate(s)
		if err != nil {
			return nil, fmt.Sprintf("%s must be a `date` type", field.Name)
		}
		return t, ""

	case Integer:
		var f float64
		switch v := raw.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, fmt.Sprintf("%s must be a `number` type", field.Name)
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Sprintf("%s must be a `number` type", field.Name)
			}
			f = parsed
		default:
			return nil, fmt.Sprintf("%s must be a `number` type", field.Name)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Sprintf("%s must be an integer", field.Name)
		}
		if f < -maxSafeInteger || f > maxSafeInteger {
			return nil, fmt.Sprintf("%s must be a safe integer", field.Name)
		}
		return int64(f), ""
	}

	return nil, fmt.Sprintf("%s has an unsupported type", field.Name)
}

// ParseDate accepts RFC 3339 timestamps and a few shorter ISO 8601 forms.
// Values without an offset are read as UTC, the clock StartOfHour truncates
// on.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func ruleMessage(name string, err error) string {
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Sprintf("%s is invalid", name)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
