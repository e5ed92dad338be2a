package catalog

import (
	"testing"
	"testing/fstest"

	"syntax_feed_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Lessons(), 20)
	assert.Len(t, c.Quizzes(), 10)
	assert.Len(t, c.Ads(), 4)
	assert.Len(t, c.Courses(), 4)
	assert.NotEmpty(t, c.Workshops())
	assert.NotEmpty(t, c.Friends())
	assert.NotEmpty(t, c.Achievements())
	assert.NotEmpty(t, c.Onboarding().Languages)

	t.Run("lesson lookup", func(t *testing.T) {
		l, err := c.Lesson("2")
		require.NoError(t, err)
		assert.Equal(t, "JavaScript Array Methods", l.Title)
		assert.True(t, l.IsLiked)

		_, err = c.Lesson("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("course list omits curriculum", func(t *testing.T) {
		for _, co := range c.Courses() {
			assert.Nil(t, co.Curriculum, co.ID)
		}
		co, err := c.Course("1")
		require.NoError(t, err)
		assert.NotEmpty(t, co.Curriculum)
	})

	t.Run("curriculum lesson", func(t *testing.T) {
		l, err := c.CurriculumLesson("1", 1)
		require.NoError(t, err)
		assert.Equal(t, model.CurriculumVideo, l.Type)

		_, err = c.CurriculumLesson("1", 999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = c.CurriculumLesson("nope", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("exercises by language", func(t *testing.T) {
		assert.Len(t, c.Exercises(""), 6)
		assert.Len(t, c.Exercises("python"), 4)
		assert.Len(t, c.Exercises("JavaScript"), 2)
		assert.Empty(t, c.Exercises("Rust"))
	})

	t.Run("notes fall back to the lesson card", func(t *testing.T) {
		n, err := c.Notes("1")
		require.NoError(t, err)
		assert.NotEmpty(t, n.Sections)

		derived, err := c.Notes("14")
		require.NoError(t, err)
		assert.Equal(t, "Docker Basics", derived.Title)
		require.Len(t, derived.Sections, 1)

		_, err = c.Notes("404")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ls := c.Lessons()
	ls[0].Title = "changed"
	ls[0].Tags[0] = "changed"

	l, err := c.Lesson(ls[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", l.Title)
	assert.NotEqual(t, "changed", l.Tags[0])

	co, err := c.Course("1")
	require.NoError(t, err)
	co.Curriculum[0].Completed = true
	again, err := c.Course("1")
	require.NoError(t, err)
	assert.False(t, again.Curriculum[0].Completed)
}

func TestLoadFromFS(t *testing.T) {
	t.Run("missing files are empty tables", func(t *testing.T) {
		fsys := fstest.MapFS{
			"lessons.yaml": {Data: []byte(`
lessons:
  - id: a
    title: One
    level: Beginner
`)},
		}
		c, err := Load(fsys)
		require.NoError(t, err)
		assert.Len(t, c.Lessons(), 1)
		assert.Empty(t, c.Quizzes())
		assert.Empty(t, c.Ads())
	})

	t.Run("duplicate ids", func(t *testing.T) {
		fsys := fstest.MapFS{
			"lessons.yaml": {Data: []byte(`
lessons:
  - {id: a, level: Beginner}
  - {id: a, level: Beginner}
`)},
		}
		_, err := Load(fsys)
		assert.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("bad level", func(t *testing.T) {
		fsys := fstest.MapFS{
			"lessons.yaml": {Data: []byte(`lessons: [{id: a, level: Expert}]`)},
		}
		_, err := Load(fsys)
		assert.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("quiz answer out of range", func(t *testing.T) {
		fsys := fstest.MapFS{
			"quizzes.yaml": {Data: []byte(`
quizzes:
  - id: q
    type: mcq
    options: [a, b]
    correctAnswer: 2
`)},
		}
		_, err := Load(fsys)
		assert.ErrorIs(t, err, ErrInvalidContent)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		fsys := fstest.MapFS{
			"ads.yaml": {Data: []byte("ads: [")},
		}
		_, err := Load(fsys)
		assert.Error(t, err)
	})
}

func TestSearch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		res := c.Search(SearchParams{})
		assert.Equal(t, 4, res.Total)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, DefaultPageSize, res.Limit)
		require.Len(t, res.Collections, 4)
		for _, co := range res.Collections {
			assert.Nil(t, co.Curriculum, co.ID)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		res := c.Search(SearchParams{Limit: 500})
		assert.Equal(t, MaxPageSize, res.Limit)
		assert.Len(t, res.Collections, 4)
	})

	t.Run("query matches title case-insensitively", func(t *testing.T) {
		res := c.Search(SearchParams{Query: "  python FUNDAMENTALS "})
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "1", res.Collections[0].ID)
	})

	t.Run("query matches description", func(t *testing.T) {
		res := c.Search(SearchParams{Query: "hands-on exercises"})
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "1", res.Collections[0].ID)
	})

	t.Run("lesson-only text does not match", func(t *testing.T) {
		res := c.Search(SearchParams{Query: "flexbox"})
		assert.Zero(t, res.Total)
	})

	t.Run("level and topic filters", func(t *testing.T) {
		res := c.Search(SearchParams{Level: model.Intermediate})
		assert.Equal(t, 2, res.Total)

		res = c.Search(SearchParams{Topics: []string{"web development"}})
		assert.Equal(t, 2, res.Total)

		res = c.Search(SearchParams{Topics: []string{"Web Development"}, Level: model.Advanced})
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "3", res.Collections[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		res := c.Search(SearchParams{Page: 2, Limit: 3})
		assert.Equal(t, 4, res.Total)
		assert.Len(t, res.Collections, 1)

		res = c.Search(SearchParams{Page: 9})
		assert.Equal(t, 4, res.Total)
		assert.Empty(t, res.Collections)
	})
}
