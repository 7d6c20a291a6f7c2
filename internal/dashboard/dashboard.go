// Package dashboard derives the learner views from the session and the
// catalog. Progress is a fixed table until a learning backend exists.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/auth"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"golang.org/x/text/cases"
)

const RecentLimit = 3

var progress = map[string]int{
	"course-1": 75,
	"course-2": 100,
	"course-3": 25,
	"course-4": 0,
	"course-5": 50,
	"course-6": 90,
	"course-7": 15,
	"course-8": 100,
}

// Progress returns the completion percentage of a course, 0 when unknown.
func Progress(courseID string) int { return progress[courseID] }

type Filter string

const (
	FilterAll        Filter = "all"
	FilterInProgress Filter = "in-progress"
	FilterCompleted  Filter = "completed"
	FilterNotStarted Filter = "not-started"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.TrimSpace(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterInProgress, FilterCompleted, FilterNotStarted:
		return f, nil
	default:
		return "", apperr.E(apperr.Invalid, fmt.Sprintf("unknown progress filter %q", s))
	}
}

func (f Filter) Match(pct int) bool {
	switch f {
	case FilterInProgress:
		return pct > 0 && pct < 100
	case FilterCompleted:
		return pct == 100
	case FilterNotStarted:
		return pct == 0
	default:
		return true
	}
}

type Entry struct {
	Course   catalog.Course `json:"course"`
	Progress int            `json:"progress"`
}

type Overview struct {
	EnrolledCount int     `json:"enrolledCount"`
	Certificates  int     `json:"certificates"`
	Recent        []Entry `json:"recent"`
}

func BuildOverview(u auth.User, cat *catalog.Catalog) Overview {
	ids := u.EnrolledCourses
	if len(ids) > RecentLimit {
		ids = ids[:RecentLimit]
	}
	return Overview{
		EnrolledCount: len(u.EnrolledCourses),
		Recent:        resolve(ids, cat),
	}
}

// MyCourses lists the enrolled courses matching query (title or
// instructor) and the progress filter.
func MyCourses(u auth.User, cat *catalog.Catalog, query string, f Filter) []Entry {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := []Entry{}
	for _, e := range resolve(u.EnrolledCourses, cat) {
		if q != "" &&
			!strings.Contains(fold.String(e.Course.Title), q) &&
			!strings.Contains(fold.String(e.Course.Instructor), q) {
			continue
		}
		if f.Match(e.Progress) {
			out = append(out, e)
		}
	}
	return out
}

// resolve keeps enrollment order and skips ids the catalog does not know.
func resolve(ids []string, cat *catalog.Catalog) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		c, ok := cat.FindCourse(id)
		if !ok {
			continue
		}
		out = append(out, Entry{Course: c, Progress: Progress(id)})
	}
	return out
}
