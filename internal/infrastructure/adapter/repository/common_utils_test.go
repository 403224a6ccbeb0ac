package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifierClassify(t *testing.T) {
	c := NewErrorClassifier()

	testCases := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"nil", nil, ""},
		{"postgres duplicate", errors.New(`duplicate key value violates unique constraint "idx_users_login"`), DuplicateKeyError},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: users.id"), DuplicateKeyError},
		{"mysql duplicate", errors.New("Error 1062 (23000): Duplicate entry 'a' for key 'users.idx_users_login'"), DuplicateKeyError},
		{"deadlock", errors.New("deadlock detected"), LockError},
		{"transient", errors.New("read: connection reset by peer"), TransientError},
		{"check", errors.New("CHECK constraint failed: chk_users_salary_non_negative"), CheckError},
		{"not null", errors.New("NOT NULL constraint failed: users.name"), ConstraintError},
		{"unknown", errors.New("weird"), ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.err))
		})
	}
}

func TestErrorClassifierDuplicateError(t *testing.T) {
	c := NewErrorClassifier()

	assert.ErrorIs(t, c.DuplicateError(errors.New("UNIQUE constraint failed: users.login")), errs.ErrDuplicateLogin)
	assert.ErrorIs(t, c.DuplicateError(errors.New("UNIQUE constraint failed: users.id")), errs.ErrDuplicateRecord)

	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{"postgres login", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_login" (SQLSTATE 23505)`), errs.ErrDuplicateLogin},
		{"postgres primary key", errors.New(`ERROR: duplicate key value violates unique constraint "users_pkey" (SQLSTATE 23505)`), errs.ErrDuplicateRecord},
		{"mysql login", errors.New("Error 1062 (23000): Duplicate entry 'hpotter' for key 'users.idx_users_login'"), errs.ErrDuplicateLogin},
		{"mysql primary key with login-like value", errors.New("Error 1062 (23000): Duplicate entry 'login-7' for key 'users.PRIMARY'"), errs.ErrDuplicateRecord},
		{"mysql primary key echoing the index name", errors.New("Error 1062 (23000): Duplicate entry 'idx_users_login' for key 'PRIMARY'"), errs.ErrDuplicateRecord},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, c.DuplicateError(tc.err), tc.expected)
		})
	}
}

func TestIsContextError(t *testing.T) {
	assert.True(t, isContextError(context.Canceled))
	assert.True(t, isContextError(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, isContextError(errors.New("sqlite3: interrupted")))
	assert.False(t, isContextError(errors.New("syntax error")))
	assert.False(t, isContextError(nil))
}
