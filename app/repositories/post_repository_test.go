package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/app/models"
)

func TestPostRepositoryCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	t.Run("create and get by slug round-trip", func(t *testing.T) {
		post := &models.Post{
			Title:     "Hello World",
			Slug:      "hello-world",
			Content:   "# Hello\n\nSome content",
			Excerpt:   "greeting",
			Published: true,
		}
		require.NoError(t, repo.Create(post, []string{"go", "web"}))
		assert.Greater(t, post.ID, 0)
		assert.ElementsMatch(t, []string{"go", "web"}, post.Tags)

		got, err := repo.GetBySlug("hello-world")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, "Hello World", got.Title)
		assert.Equal(t, "# Hello\n\nSome content", got.Content)
		assert.Equal(t, "greeting", got.Excerpt)
		assert.True(t, got.Published)
		assert.ElementsMatch(t, []string{"go", "web"}, got.Tags)
	})

	t.Run("duplicate tag names in input collapse", func(t *testing.T) {
		post := &models.Post{Title: "Dup", Slug: "dup", Content: "c"}
		require.NoError(t, repo.Create(post, []string{"go", "go", "web", "go"}))
		assert.Equal(t, []string{"go", "web"}, post.Tags)
	})

	t.Run("tag names are case-sensitive", func(t *testing.T) {
		post := &models.Post{Title: "Case", Slug: "case", Content: "c"}
		require.NoError(t, repo.Create(post, []string{"Go", "go"}))
		assert.ElementsMatch(t, []string{"Go", "go"}, post.Tags)
	})

	t.Run("slug conflict rejected", func(t *testing.T) {
		post := &models.Post{Title: "Hello Again", Slug: "hello-world", Content: "c"}
		err := repo.Create(post, nil)
		assert.ErrorIs(t, err, ErrSlugConflict)

		// Nothing about the failed create is visible afterwards
		_, _, err2 := repo.List(models.ListFilter{Query: "Hello Again", Limit: -1})
		require.NoError(t, err2)
	})

	t.Run("existing tags are reused, not duplicated", func(t *testing.T) {
		post := &models.Post{Title: "Reuse", Slug: "reuse", Content: "c"}
		require.NoError(t, repo.Create(post, []string{"go"}))

		tags := NewBadgerTagRepository(db)
		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		for _, tc := range counts {
			if tc.Name == "go" {
				assert.Equal(t, 3, tc.Count)
			}
		}
	})
}

func TestPostRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	seed := &models.Post{Title: "First", Slug: "first", Content: "one", Published: true}
	require.NoError(t, repo.Create(seed, []string{"go", "web"}))
	other := &models.Post{Title: "Second", Slug: "second", Content: "two"}
	require.NoError(t, repo.Create(other, nil))

	t.Run("unknown id not found", func(t *testing.T) {
		err := repo.Update(&models.Post{ID: 999, Slug: "whatever"}, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("slug owned by another post conflicts", func(t *testing.T) {
		upd := &models.Post{ID: seed.ID, Title: "First", Slug: "second", Content: "one"}
		err := repo.Update(upd, nil)
		assert.ErrorIs(t, err, ErrSlugConflict)
	})

	t.Run("keeping own slug is not a conflict", func(t *testing.T) {
		upd := &models.Post{ID: seed.ID, Title: "First!", Slug: "first", Content: "one"}
		require.NoError(t, repo.Update(upd, []string{"go", "web"}))
		assert.Equal(t, seed.CreatedAt.Unix(), upd.CreatedAt.Unix())
	})

	t.Run("tag set is replaced, not merged", func(t *testing.T) {
		upd := &models.Post{ID: seed.ID, Title: "First!", Slug: "first", Content: "one"}
		require.NoError(t, repo.Update(upd, []string{"go", "badger"}))
		assert.ElementsMatch(t, []string{"go", "badger"}, upd.Tags)

		got, err := repo.GetBySlug("first")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"go", "badger"}, got.Tags)
	})

	t.Run("unlinked tag survives as an orphan", func(t *testing.T) {
		// "web" was dropped above; the tag row stays but it no longer counts
		tags := NewBadgerTagRepository(db)
		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		for _, tc := range counts {
			assert.NotEqual(t, "web", tc.Name)
		}
	})

	t.Run("slug change frees the old slug", func(t *testing.T) {
		upd := &models.Post{ID: seed.ID, Title: "Renamed", Slug: "renamed", Content: "one"}
		require.NoError(t, repo.Update(upd, nil))

		_, err := repo.GetBySlug("first")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := repo.GetBySlug("renamed")
		require.NoError(t, err)
		assert.Equal(t, seed.ID, got.ID)

		// The freed slug can be claimed by a new post
		taken := &models.Post{Title: "Claim", Slug: "first", Content: "c"}
		require.NoError(t, repo.Create(taken, nil))
	})
}

func TestPostRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	post := &models.Post{Title: "Doomed", Slug: "doomed", Content: "c"}
	require.NoError(t, repo.Create(post, []string{"go"}))

	t.Run("delete removes post and slug", func(t *testing.T) {
		require.NoError(t, repo.Delete(post.ID))

		_, err := repo.GetBySlug("doomed")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByID(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		err := repo.Delete(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("tags persist after their last post is deleted", func(t *testing.T) {
		tags := NewBadgerTagRepository(db)
		counts, err := tags.ListWithCounts()
		require.NoError(t, err)
		assert.Empty(t, counts)

		// The orphan tag row is reused by the next post that names it
		next := &models.Post{Title: "Next", Slug: "next", Content: "c"}
		require.NoError(t, repo.Create(next, []string{"go"}))
		counts, err = tags.ListWithCounts()
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, models.TagCount{Name: "go", Count: 1}, counts[0])
	})
}

func TestPostRepositoryList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerPostRepository(db)

	// Five posts created in order; creation time ascends with id.
	titles := []string{"Go Basics", "Advanced Go", "Web Handlers", "Badger Notes", "Go and Web"}
	tagSets := [][]string{{"go"}, {"go"}, {"web"}, {"badger"}, {"go", "web"}}
	ids := make([]int, len(titles))
	for i, title := range titles {
		post := &models.Post{
			Title:     title,
			Slug:      fmt.Sprintf("post-%d", i),
			Content:   "content",
			Published: i%2 == 0,
		}
		require.NoError(t, repo.Create(post, tagSets[i]))
		ids[i] = post.ID
	}

	t.Run("newest first by default", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, posts, 5)
		assert.Equal(t, ids[4], posts[0].ID)
		assert.Equal(t, ids[0], posts[4].ID)
	})

	t.Run("oldest first when asked", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Sort: "oldest", Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Equal(t, ids[0], posts[0].ID)
	})

	t.Run("query matches title substring case-insensitively", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Query: "go", Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		for _, p := range posts {
			assert.Contains(t, []string{"Go Basics", "Advanced Go", "Go and Web"}, p.Title)
		}
	})

	t.Run("tag filter is exact", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Tag: "web", Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, p := range posts {
			assert.Contains(t, p.Tags, "web")
		}
	})

	t.Run("unknown tag matches nothing", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Tag: "rust", Limit: -1})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, posts)
	})

	t.Run("tag filter with oldest sort returns earliest first", func(t *testing.T) {
		_, posts, err := repo.List(models.ListFilter{Tag: "go", Sort: "oldest", Offset: 0, Limit: 1})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Go Basics", posts[0].Title)
	})

	t.Run("total is counted before pagination", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Offset: 0, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, posts, 2)
	})

	t.Run("pages concatenate without duplicates or gaps", func(t *testing.T) {
		var seen []int
		for offset := 0; ; offset += 2 {
			total, posts, err := repo.List(models.ListFilter{Offset: offset, Limit: 2})
			require.NoError(t, err)
			require.Equal(t, 5, total)
			for _, p := range posts {
				seen = append(seen, p.ID)
			}
			if len(posts) < 2 {
				break
			}
		}
		assert.Equal(t, []int{ids[4], ids[3], ids[2], ids[1], ids[0]}, seen)
	})

	t.Run("offset beyond the end yields an empty page", func(t *testing.T) {
		total, posts, err := repo.List(models.ListFilter{Offset: 10, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, posts)
	})

	t.Run("unpublished posts are listed too", func(t *testing.T) {
		total, _, err := repo.List(models.ListFilter{Limit: -1})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
	})
}
