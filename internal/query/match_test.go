package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

func sampleConferences() []*model.Conference {
	return []*model.Conference{
		{Key: "1", Name: "GopherCon", City: "Denver", Topics: []string{"Go", "Programming"}, Month: 7, MaxAttendees: 1500},
		{Key: "2", Name: "PyCon", City: "Pittsburgh", Topics: []string{"Python"}, Month: 5, MaxAttendees: 3000},
		{Key: "3", Name: "dotGo", City: "Paris", Topics: []string{"Go"}, Month: 3, MaxAttendees: 800},
		{Key: "4", Name: "Local Meetup", City: "Denver", Topics: nil, Month: 0, MaxAttendees: 0},
	}
}

func names(confs []*model.Conference) []string {
	out := make([]string, len(confs))
	for i, c := range confs {
		out[i] = c.Name
	}
	return out
}

func TestExecute_OrdersByNameWithoutInequality(t *testing.T) {
	plan, err := Compile(nil)
	require.NoError(t, err)

	got := plan.Execute(sampleConferences())
	assert.Equal(t, []string{"GopherCon", "Local Meetup", "PyCon", "dotGo"}, names(got))
}

func TestExecute_TopicMatchesAnyValue(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{{Field: "TOPIC", Operator: "EQ", Value: "go"}})
	require.NoError(t, err)

	got := plan.Execute(sampleConferences())
	assert.Equal(t, []string{"GopherCon", "dotGo"}, names(got))
}

func TestExecute_InequalityOrdering(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{
		{Field: "MAX_ATTENDEES", Operator: "GT", Value: "500"},
	})
	require.NoError(t, err)

	got := plan.Execute(sampleConferences())
	assert.Equal(t, []string{"dotGo", "GopherCon", "PyCon"}, names(got))
}

func TestExecute_NotEqualCity(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{
		{Field: "CITY", Operator: "NE", Value: "denver"},
	})
	require.NoError(t, err)

	got := plan.Execute(sampleConferences())
	assert.Equal(t, []string{"dotGo", "PyCon"}, names(got))
}

func TestExecute_MonthRange(t *testing.T) {
	plan, err := Compile([]model.FilterSpec{
		{Field: "MONTH", Operator: "GTEQ", Value: "3"},
		{Field: "MONTH", Operator: "LT", Value: "7"},
	})
	require.NoError(t, err)

	got := plan.Execute(sampleConferences())
	assert.Equal(t, []string{"dotGo", "PyCon"}, names(got))
}
