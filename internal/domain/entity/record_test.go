package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Valid record", func(t *testing.T) {
		r, err := NewRecord(" e0001 ", "hpotter", "Harry Potter", 1234, createdAt)

		require.NoError(t, err)
		assert.Equal(t, "e0001", r.ID)
		assert.Equal(t, "hpotter", r.Login)
		assert.Equal(t, "Harry Potter", r.Name)
		assert.Equal(t, float64(1234), r.Salary)
		assert.Equal(t, createdAt, r.CreatedAt)
	})

	t.Run("Missing fields", func(t *testing.T) {
		_, err := NewRecord("", "login", "name", 1, createdAt)
		assert.ErrorIs(t, err, errs.ErrInvalidRecord)

		_, err = NewRecord("id", " ", "name", 1, createdAt)
		assert.ErrorIs(t, err, errs.ErrInvalidRecord)

		_, err = NewRecord("id", "login", "", 1, createdAt)
		assert.ErrorIs(t, err, errs.ErrInvalidRecord)
	})

	t.Run("Negative salary", func(t *testing.T) {
		_, err := NewRecord("id", "login", "name", -280, createdAt)
		assert.ErrorIs(t, err, errs.ErrNegativeSalary)
	})
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment("#dummy001"))
	assert.True(t, IsComment("  #x"))
	assert.False(t, IsComment("dummy002"))
	assert.False(t, IsComment("a#b"))
}

func TestRecordPatch(t *testing.T) {
	base := Record{ID: "e1", Login: "old", Name: "Old Name", Salary: 10}

	t.Run("Partial update", func(t *testing.T) {
		r := base
		login := "new"
		require.NoError(t, RecordPatch{Login: &login}.Apply(&r))

		assert.Equal(t, "new", r.Login)
		assert.Equal(t, "Old Name", r.Name)
		assert.Equal(t, float64(10), r.Salary)
	})

	t.Run("Invalid update leaves record untouched", func(t *testing.T) {
		r := base
		salary := -5.0
		err := RecordPatch{Salary: &salary}.Apply(&r)

		assert.ErrorIs(t, err, errs.ErrNegativeSalary)
		assert.Equal(t, base, r)
	})

	t.Run("Empty patch", func(t *testing.T) {
		assert.True(t, RecordPatch{}.IsEmpty())
	})
}
