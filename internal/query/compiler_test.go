package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

func TestCompile_Empty(t *testing.T) {
	plan, err := Compile(nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Predicates)
	assert.Empty(t, plan.InequalityField)
	assert.Equal(t, []Field{FieldName}, plan.OrderBy)
}

func TestCompile_EqualityOnly(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{
		{Field: "CITY", Operator: "EQ", Value: "new york"},
		{Field: "TOPIC", Operator: "EQ", Value: "MEDICAL INNOVATIONS"},
		{Field: "MONTH", Operator: "EQ", Value: " 6 "},
	})
	require.NoError(t, err)

	assert.Equal(t, []Predicate{
		{Field: FieldCity, Op: OpEQ, Value: "New York"},
		{Field: FieldTopics, Op: OpEQ, Value: "Medical Innovations"},
		{Field: FieldMonth, Op: OpEQ, Value: 6},
	}, plan.Predicates)
	assert.Equal(t, []Field{FieldName}, plan.OrderBy)
}

func TestCompile_InequalityOrdersFirst(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{
		{Field: "CITY", Operator: "EQ", Value: "London"},
		{Field: "MAX_ATTENDEES", Operator: "GT", Value: "10"},
		{Field: "MAX_ATTENDEES", Operator: "LTEQ", Value: "100"},
	})
	require.NoError(t, err)
	assert.Equal(t, FieldMaxAttendees, plan.InequalityField)
	assert.Equal(t, []Field{FieldMaxAttendees, FieldName}, plan.OrderBy)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		filters []model.FilterSpec
	}{
		{"unknown field", []model.FilterSpec{{Field: "SPEAKER", Operator: "EQ", Value: "x"}}},
		{"unknown operator", []model.FilterSpec{{Field: "CITY", Operator: "LIKE", Value: "x"}}},
		{"non numeric month", []model.FilterSpec{{Field: "MONTH", Operator: "EQ", Value: "june"}}},
		{"two inequality fields", []model.FilterSpec{
			{Field: "MONTH", Operator: "GT", Value: "3"},
			{Field: "MAX_ATTENDEES", Operator: "LT", Value: "10"},
		}},
		{"ne counts as inequality", []model.FilterSpec{
			{Field: "CITY", Operator: "NE", Value: "Paris"},
			{Field: "MONTH", Operator: "GTEQ", Value: "1"},
		}},
		{"bad filter after good ones", []model.FilterSpec{
			{Field: "CITY", Operator: "EQ", Value: "Paris"},
			{Field: "city", Operator: "EQ", Value: "Paris"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(tt.filters)
			require.ErrorIs(t, err, model.ErrValidation)
			assert.Nil(t, plan)
		})
	}
}

var (
	genField    = rapid.SampledFrom([]string{"CITY", "TOPIC", "MONTH", "MAX_ATTENDEES"})
	genOperator = rapid.SampledFrom([]string{"EQ", "GT", "GTEQ", "LT", "LTEQ", "NE"})
)

// TestCompile_SingleInequalityField checks that compilation succeeds exactly
// when the inequality operators touch at most one distinct field.
func TestCompile_SingleInequalityField(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "n")
		filters := make([]model.FilterSpec, n)
		inequalityFields := map[string]bool{}
		for i := range filters {
			f := genField.Draw(rt, "field")
			op := genOperator.Draw(rt, "op")
			filters[i] = model.FilterSpec{Field: f, Operator: op, Value: "5"}
			if op != "EQ" {
				inequalityFields[f] = true
			}
		}

		plan, err := Compile(filters)
		if len(inequalityFields) > 1 {
			if err == nil {
				rt.Fatalf("expected validation error for %v", filters)
			}
			return
		}
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if len(plan.Predicates) != n {
			rt.Fatalf("got %d predicates, want %d", len(plan.Predicates), n)
		}
		if plan.InequalityField != "" && plan.OrderBy[0] != plan.InequalityField {
			rt.Fatalf("order %v does not lead with %s", plan.OrderBy, plan.InequalityField)
		}
		if plan.OrderBy[len(plan.OrderBy)-1] != FieldName {
			rt.Fatalf("order %v does not end with name", plan.OrderBy)
		}
	})
}
