package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundled(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load(context.Background(), FileSource{
		CoursesPath:    filepath.Join("..", "..", "data", "courses.json"),
		CategoriesPath: filepath.Join("..", "..", "data", "categories.json"),
	})
	require.NoError(t, err)
	return cat
}

func TestLoadBundledDataset(t *testing.T) {
	cat := bundled(t)
	assert.Len(t, cat.Courses(), 8)
	assert.Len(t, cat.Categories(), 4)

	c, ok := cat.FindCourse("course-3")
	require.True(t, ok)
	assert.Equal(t, "HTML & CSS Basics", c.Title)
	assert.Nil(t, c.OriginalPrice)

	_, ok = cat.FindCourse("course-99")
	assert.False(t, ok)

	g, ok := cat.FindCategory("design")
	require.True(t, ok)
	assert.Equal(t, "Design", g.Name)
}

func TestHighlights(t *testing.T) {
	h := bundled(t).Highlights()
	assert.Equal(t, []string{"course-1", "course-2", "course-4", "course-5", "course-6", "course-8"}, ids(h.Featured))
	assert.Equal(t, []string{"course-1", "course-2", "course-4", "course-5"}, ids(h.Trending))
	assert.Equal(t, []string{"course-6", "course-7", "course-8"}, ids(h.NewReleases))
	assert.Len(t, h.PopularCategories, 4)
}

func TestSuggest(t *testing.T) {
	cat := bundled(t)
	assert.Equal(t, []string{"course-1"}, ids(cat.Suggest("react", 0)))
	assert.Equal(t, []string{"course-1", "course-2", "course-3", "course-7"}, ids(cat.Suggest("web", 0)))
	assert.Equal(t, []string{"course-1", "course-2"}, ids(cat.Suggest("WEB", 2)))
	assert.Empty(t, cat.Suggest("", 5))
}

func TestSuggestHugeLimit(t *testing.T) {
	small := New([]Course{{ID: "1", Title: "Go"}}, nil)
	assert.Equal(t, []string{"1"}, ids(small.Suggest("go", 1<<50)))

	many := make([]Course, 30)
	for i := range many {
		many[i] = Course{ID: fmt.Sprintf("c%d", i), Title: "Go"}
	}
	assert.Len(t, New(many, nil).Suggest("go", 1e10), MaxSuggestions)
}

func TestInCategory(t *testing.T) {
	cat := bundled(t)
	web, ok := cat.FindCategory("web-development")
	require.True(t, ok)
	assert.Equal(t, []string{"course-3", "course-2", "course-1", "course-7"}, ids(cat.InCategory(web, SortPriceLow)))
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

	_, err := Load(context.Background(), FileSource{
		CoursesPath:    bad,
		CategoriesPath: filepath.Join("..", "..", "data", "categories.json"),
	})
	assert.ErrorContains(t, err, "load courses")

	_, err = Load(context.Background(), FileSource{
		CoursesPath:    filepath.Join("..", "..", "data", "courses.json"),
		CategoriesPath: filepath.Join(dir, "missing.json"),
	})
	assert.ErrorContains(t, err, "load categories")
}
