package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionTypeRules(t *testing.T) {
	assert.True(t, QuestionRating.Valid())
	assert.False(t, QuestionType("boolean").Valid())
	assert.True(t, QuestionCheckbox.NeedsOptions())
	assert.True(t, QuestionMultipleChoice.NeedsOptions())
	assert.False(t, QuestionText.NeedsOptions())
	assert.False(t, QuestionRating.NeedsOptions())
}

func TestPagination(t *testing.T) {
	t.Run("unpaged returns everything on one page", func(t *testing.T) {
		p := DefaultPagination()
		assert.False(t, p.Paged())
		assert.Equal(t, int64(0), p.GetSkip())
		assert.Equal(t, -1, p.SortDirection())

		res := NewPaginatedResponse([]int{1, 2, 3}, 3, p)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 1, res.TotalPages)
		assert.False(t, res.HasNext)
		assert.False(t, res.HasPrevious)
	})

	t.Run("paged", func(t *testing.T) {
		p := PaginationParams{Page: 2, Limit: 10, Order: "asc"}
		assert.Equal(t, int64(10), p.GetSkip())
		assert.Equal(t, 1, p.SortDirection())

		res := NewPaginatedResponse(nil, 25, p)
		assert.Equal(t, 3, res.TotalPages)
		assert.True(t, res.HasNext)
		assert.True(t, res.HasPrevious)
	})
}

func TestUserIsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}
