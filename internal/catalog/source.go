package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Source is the read-only origin of the catalog. It is read once at startup.
type Source interface {
	LoadCourses(ctx context.Context) ([]Course, error)
	LoadCategories(ctx context.Context) ([]Category, error)
}

// Load reads courses and categories concurrently and builds the snapshot.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	var (
		courses    []Course
		categories []Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = src.LoadCourses(gctx)
		if err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = src.LoadCategories(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return New(courses, categories), nil
}

// FileSource reads the bundled JSON datasets.
type FileSource struct {
	CoursesPath    string
	CategoriesPath string
}

func (s FileSource) LoadCourses(_ context.Context) ([]Course, error) {
	return readJSON[Course](s.CoursesPath)
}

func (s FileSource) LoadCategories(_ context.Context) ([]Category, error) {
	return readJSON[Category](s.CategoriesPath)
}

func readJSON[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
