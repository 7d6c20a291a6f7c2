package catalog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSource reads the catalog from the courses/categories tables.
type PGSource struct{ DB *pgxpool.Pool }

func (s *PGSource) LoadCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, title, description, instructor, instructor_avatar, category, level,
		       price, original_price, discount_percentage, rating, reviews_count,
		       students_enrolled, duration, lectures, thumbnail, image, last_updated,
		       is_bestseller, is_new, is_featured
		FROM courses ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Course{}
	for rows.Next() {
		var (
			c       Course
			level   string
			updated time.Time
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.InstructorAvatar,
			&c.Category, &level, &c.Price, &c.OriginalPrice, &c.DiscountPercentage, &c.Rating,
			&c.ReviewsCount, &c.StudentsEnrolled, &c.Duration, &c.Lectures, &c.Thumbnail,
			&c.Image, &updated, &c.IsBestseller, &c.IsNew, &c.IsFeatured); err != nil {
			return nil, err
		}
		c.Level = Level(level)
		c.LastUpdated = updated.UTC().Format(time.RFC3339)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PGSource) LoadCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, name, description, icon, color, course_count, subcategories
		FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color,
			&c.CourseCount, &c.Subcategories); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Seed inserts the snapshot into empty tables, keeping dataset order in
// position. Rows that already exist are left untouched.
func (s *PGSource) Seed(ctx context.Context, cat *Catalog) error {
	b := &pgx.Batch{}
	for i, g := range cat.Categories() {
		subs := g.Subcategories
		if subs == nil {
			subs = []string{}
		}
		b.Queue(`
			INSERT INTO categories (id, position, name, description, icon, color, course_count, subcategories)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO NOTHING`,
			g.ID, i, g.Name, g.Description, g.Icon, g.Color, g.CourseCount, subs)
	}
	for i, c := range cat.Courses() {
		updated := c.UpdatedAt()
		if updated.IsZero() {
			updated = time.Now().UTC()
		}
		b.Queue(`
			INSERT INTO courses (id, position, title, description, instructor, instructor_avatar,
			                     category, level, price, original_price, discount_percentage, rating,
			                     reviews_count, students_enrolled, duration, lectures, thumbnail, image,
			                     last_updated, is_bestseller, is_new, is_featured)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, i, c.Title, c.Description, c.Instructor, c.InstructorAvatar,
			c.Category, string(c.Level), c.Price, c.OriginalPrice, c.DiscountPercentage, c.Rating,
			c.ReviewsCount, c.StudentsEnrolled, c.Duration, c.Lectures, c.Thumbnail, c.Image,
			updated, c.IsBestseller, c.IsNew, c.IsFeatured)
	}
	return s.DB.SendBatch(ctx, b).Close()
}

// Empty reports whether the courses table has no rows.
func (s *PGSource) Empty(ctx context.Context) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses)`).Scan(&exists)
	return !exists, err
}
