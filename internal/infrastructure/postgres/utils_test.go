package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
	"github.com/jhoicas/pos-backoffice/pkg/retry"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{codeSerializationFailure, true},
		{codeDeadlockDetected, true},
		{codeLockNotAvailable, true},
		{codeUniqueViolation, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tt.code})
			assert.Equal(t, tt.want, IsTransient(err))
		})
	}
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("23505 in text only")))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
	s := "y"
	assert.Equal(t, "y", fromNullable(&s))
	assert.Equal(t, "", fromNullable(nil))
}

func TestTxRunner_ContentionHidesServerDetail(t *testing.T) {
	r := NewTxRunner(nil, retry.Default, 0, logger.Nop())
	raw := fmt.Errorf("exec: %w", &pgconn.PgError{
		Code:    codeLockNotAvailable,
		Message: `canceling statement due to lock timeout on relation "products"`,
	})

	err := r.contention(raw)
	assert.ErrorIs(t, err, domain.ErrLockContention)
	assert.Equal(t, domain.ErrLockContention.Error(), err.Error())
	assert.NotContains(t, err.Error(), "products")
	assert.False(t, IsTransient(err))
}
