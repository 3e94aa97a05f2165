// Package query compiles user supplied conference filters into a validated
// query plan. The store only supports an inequality constraint on a single
// field per query, and that field must lead the sort order.
package query

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

// Field is the canonical name of a filterable conference property.
type Field string

const (
	FieldCity         Field = "city"
	FieldTopics       Field = "topics"
	FieldMonth        Field = "month"
	FieldMaxAttendees Field = "maxAttendees"
	FieldName         Field = "name"
)

// Operator is a canonical comparison operator.
type Operator string

const (
	OpEQ   Operator = "="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpNE   Operator = "!="
)

// IsInequality reports whether op constrains a range rather than a value.
func (op Operator) IsInequality() bool { return op != OpEQ }

var fields = map[string]Field{
	"CITY":          FieldCity,
	"TOPIC":         FieldTopics,
	"MONTH":         FieldMonth,
	"MAX_ATTENDEES": FieldMaxAttendees,
}

var operators = map[string]Operator{
	"EQ":   OpEQ,
	"GT":   OpGT,
	"GTEQ": OpGTEQ,
	"LT":   OpLT,
	"LTEQ": OpLTEQ,
	"NE":   OpNE,
}

// numeric fields compare as integers, the rest as title-cased text.
var numeric = map[Field]bool{
	FieldMonth:        true,
	FieldMaxAttendees: true,
}

// Predicate is one validated filter. Value is an int for numeric fields and
// a string otherwise.
type Predicate struct {
	Field Field
	Op    Operator
	Value any
}

// Plan is a validated, ordered predicate set ready for execution.
type Plan struct {
	Predicates []Predicate
	// InequalityField is empty when every predicate is an equality.
	InequalityField Field
	OrderBy         []Field
}

// Compile validates filters and lowers them into a Plan. The first invalid
// filter aborts compilation.
func Compile(filters []model.FilterSpec) (*Plan, error) {
	plan := &Plan{Predicates: make([]Predicate, 0, len(filters))}

	for _, f := range filters {
		field, ok := fields[f.Field]
		if !ok {
			return nil, model.NewValidationError("filters", "filter contains invalid field %q", f.Field)
		}
		op, ok := operators[f.Operator]
		if !ok {
			return nil, model.NewValidationError("filters", "filter contains invalid operator %q", f.Operator)
		}

		value, err := coerce(field, f.Value)
		if err != nil {
			return nil, err
		}

		if op.IsInequality() {
			if plan.InequalityField != "" && plan.InequalityField != field {
				return nil, model.NewValidationError("filters", "inequality filter is allowed on only one field")
			}
			plan.InequalityField = field
		}

		plan.Predicates = append(plan.Predicates, Predicate{Field: field, Op: op, Value: value})
	}

	if plan.InequalityField != "" {
		plan.OrderBy = []Field{plan.InequalityField, FieldName}
	} else {
		plan.OrderBy = []Field{FieldName}
	}
	return plan, nil
}

func coerce(field Field, raw string) (any, error) {
	if numeric[field] {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, model.NewValidationError("filters", "value %q for %s is not an integer", raw, field)
		}
		return n, nil
	}
	return NormalizeText(raw), nil
}

// NormalizeText trims s and converts it to title case, the stored form of
// cities and topics.
func NormalizeText(s string) string {
	// A Caser carries state, so one is built per call.
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}
