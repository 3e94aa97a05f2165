package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
)

func TestBuildQuery_NoFilters(t *testing.T) {
	plan, err := query.Compile(nil)
	require.NoError(t, err)

	sql, args := buildQuery(plan)
	assert.Equal(t, "SELECT "+conferenceColumns+" FROM conferences ORDER BY name, key", sql)
	assert.Empty(t, args)
}

func TestBuildQuery_InequalityAndTopics(t *testing.T) {
	plan, err := query.Compile([]model.FilterSpec{
		{Field: "TOPIC", Operator: "EQ", Value: "go"},
		{Field: "MAX_ATTENDEES", Operator: "GTEQ", Value: "10"},
		{Field: "CITY", Operator: "EQ", Value: "london"},
	})
	require.NoError(t, err)

	sql, args := buildQuery(plan)
	assert.Contains(t, sql, "WHERE EXISTS (SELECT 1 FROM unnest(topics) AS t WHERE t = $1) AND max_attendees >= $2 AND city = $3")
	assert.Contains(t, sql, "ORDER BY max_attendees, name, key")
	assert.Equal(t, []any{"Go", 10, "London"}, args)
}

func TestBuildQuery_TopicOrdering(t *testing.T) {
	plan, err := query.Compile([]model.FilterSpec{{Field: "TOPIC", Operator: "GT", Value: "m"}})
	require.NoError(t, err)

	sql, _ := buildQuery(plan)
	assert.Contains(t, sql, "ORDER BY (SELECT min(t) FROM unnest(topics) AS t), name, key")
}

func TestTxError(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	deadlock := &pgconn.PgError{Code: "40P01"}
	unique := &pgconn.PgError{Code: "23505"}

	assert.ErrorIs(t, txError("commit", serialization), ErrTxConflict)
	assert.ErrorIs(t, txError("commit", fmt.Errorf("wrapped: %w", deadlock)), ErrTxConflict)

	err := txError("commit", unique)
	assert.False(t, errors.Is(err, ErrTxConflict))
	assert.ErrorAs(t, err, new(*pgconn.PgError))
}
