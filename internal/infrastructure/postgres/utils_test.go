package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgErrorClassification(t *testing.T) {
	serialization := fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: "40001"})
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isRetryable(serialization))
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isRetryable(unique))
	assert.False(t, isRetryable(errors.New("40001")))

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%cimento%", containsPattern("cimento"))
	assert.Equal(t, `%10\%%`, containsPattern("10%"))
	assert.Equal(t, `%cabo\_2,5%`, containsPattern("cabo_2,5"))
	assert.Equal(t, `%C:\\obra%`, containsPattern(`C:\obra`))

	sql, args, err := psql.Select("id").From("materials").Where(squirrel.ILike{"name": containsPattern("10%")}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM materials WHERE name ILIKE $1", sql)
	assert.Equal(t, []any{`%10\%%`}, args)
}
