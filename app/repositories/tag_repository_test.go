package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/app/models"
)

func TestTagRepositoryListWithCounts(t *testing.T) {
	db := setupTestDB(t)
	posts := NewBadgerPostRepository(db)
	tags := NewBadgerTagRepository(db)

	t.Run("empty store yields no tags", func(t *testing.T) {
		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("counts linked posts per tag, sorted by name", func(t *testing.T) {
		a := &models.Post{Title: "A", Slug: "a", Content: "c"}
		require.NoError(t, posts.Create(a, []string{"go", "web"}))
		b := &models.Post{Title: "B", Slug: "b", Content: "c"}
		require.NoError(t, posts.Create(b, []string{"go"}))

		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		assert.Equal(t, []models.TagCount{
			{Name: "go", Count: 2},
			{Name: "web", Count: 1},
		}, counts)
	})

	t.Run("zero-count tags are omitted", func(t *testing.T) {
		a, err := posts.GetBySlug("a")
		require.NoError(t, err)
		require.NoError(t, posts.Update(&models.Post{
			ID: a.ID, Title: a.Title, Slug: a.Slug, Content: a.Content,
		}, []string{"go"}))

		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		assert.Equal(t, []models.TagCount{{Name: "go", Count: 2}}, counts)
	})
}
