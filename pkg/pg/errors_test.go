package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/drive/pkg/pg"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "documents_users_email_key"})
	undefined := &pgconn.PgError{Code: pgerrcode.UndefinedTable}

	assert.True(t, pg.IsDuplicateKeyError(dup))
	assert.False(t, pg.IsDuplicateKeyError(undefined))
	assert.False(t, pg.IsDuplicateKeyError(nil))
	assert.Equal(t, "documents_users_email_key", pg.ConstraintName(dup))
	assert.Empty(t, pg.ConstraintName(errors.New("x")))

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("x")))
}
