package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"golang.org/x/text/cases"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortStudents  SortKey = "students"
)

// ParseSortKey maps a request value to a SortKey; empty means relevance.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	switch k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortRating, SortStudents:
		return k, nil
	}
	return "", apperr.E(apperr.Invalid, fmt.Sprintf("unknown sort key %q", s), ErrInvalidCriteria)
}

// Query filters courses by the present criteria and orders the result by
// key. The input slice is left untouched. Sorting is stable, so ties keep
// their input order.
func Query(courses []Course, c Criteria, key SortKey) []Course {
	match := matcher(c)
	out := make([]Course, 0, len(courses))
	for _, course := range courses {
		if match(course) {
			out = append(out, course)
		}
	}
	if cmpFn := comparator(key); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func matcher(c Criteria) func(Course) bool {
	var preds []func(Course) bool

	if c.Query != nil {
		// cases.Caser is stateful, one per query
		fold := cases.Fold()
		q := fold.String(*c.Query)
		preds = append(preds, func(course Course) bool {
			return strings.Contains(fold.String(course.Title), q) ||
				strings.Contains(fold.String(course.Instructor), q) ||
				strings.Contains(fold.String(course.Category), q)
		})
	}
	if c.Category != nil {
		cat := *c.Category
		preds = append(preds, func(course Course) bool { return course.Category == cat })
	}
	if c.Level != nil {
		lv := *c.Level
		preds = append(preds, func(course Course) bool { return course.Level == lv })
	}
	if c.Price != nil {
		pb := *c.Price
		preds = append(preds, func(course Course) bool { return pb.Match(course.Price) })
	}
	if c.MinRating != nil {
		threshold := *c.MinRating
		preds = append(preds, func(course Course) bool { return course.Rating >= threshold })
	}
	if c.Duration != nil {
		db := *c.Duration
		preds = append(preds, db.Match)
	}

	return func(course Course) bool {
		for _, p := range preds {
			if !p(course) {
				return false
			}
		}
		return true
	}
}

func comparator(key SortKey) func(a, b Course) int {
	switch key {
	case SortNewest:
		return func(a, b Course) int { return b.UpdatedAt().Compare(a.UpdatedAt()) }
	case SortOldest:
		return func(a, b Course) int { return a.UpdatedAt().Compare(b.UpdatedAt()) }
	case SortPriceLow:
		return func(a, b Course) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b Course) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b Course) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortStudents:
		return func(a, b Course) int { return cmp.Compare(b.StudentsEnrolled, a.StudentsEnrolled) }
	}
	// relevance keeps input order
	return nil
}
