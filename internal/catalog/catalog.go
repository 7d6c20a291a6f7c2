package catalog

// Catalog is the immutable snapshot loaded at startup.
type Catalog struct {
	courses    []Course
	categories []Category
	courseIdx  map[string]int
	catIdx     map[string]int
}

func New(courses []Course, categories []Category) *Catalog {
	c := &Catalog{
		courses:    courses,
		categories: categories,
		courseIdx:  make(map[string]int, len(courses)),
		catIdx:     make(map[string]int, len(categories)),
	}
	for i, course := range courses {
		if _, dup := c.courseIdx[course.ID]; !dup {
			c.courseIdx[course.ID] = i
		}
	}
	for i, cat := range categories {
		if _, dup := c.catIdx[cat.ID]; !dup {
			c.catIdx[cat.ID] = i
		}
	}
	return c
}

// Courses returns the full collection in dataset order. Callers must not
// modify the returned slice.
func (c *Catalog) Courses() []Course { return c.courses }

func (c *Catalog) Categories() []Category { return c.categories }

func (c *Catalog) FindCourse(id string) (Course, bool) {
	i, ok := c.courseIdx[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

func (c *Catalog) FindCategory(id string) (Category, bool) {
	i, ok := c.catIdx[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// InCategory lists the courses of a category, ordered by key.
func (c *Catalog) InCategory(cat Category, key SortKey) []Course {
	name := cat.Name
	return Query(c.courses, Criteria{Category: &name}, key)
}

type Highlights struct {
	Featured          []Course   `json:"featured"`
	Trending          []Course   `json:"trending"`
	NewReleases       []Course   `json:"newReleases"`
	PopularCategories []Category `json:"popularCategories"`
}

// Highlights picks the home page rows: 6 featured, 4 bestsellers, 4 new
// releases and the first 8 categories.
func (c *Catalog) Highlights() Highlights {
	return Highlights{
		Featured:          firstN(c.courses, 6, func(x Course) bool { return x.IsFeatured }),
		Trending:          firstN(c.courses, 4, func(x Course) bool { return x.IsBestseller }),
		NewReleases:       firstN(c.courses, 4, func(x Course) bool { return x.IsNew }),
		PopularCategories: c.categories[:min(8, len(c.categories))],
	}
}

const (
	DefaultSuggestions = 5
	MaxSuggestions     = 20
)

// Suggest returns the first limit courses matching the free-text query.
// limit is clamped to MaxSuggestions.
func (c *Catalog) Suggest(query string, limit int) []Course {
	if query == "" {
		return []Course{}
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}
	limit = min(limit, MaxSuggestions)
	return firstN(c.courses, limit, matcher(Criteria{Query: &query}))
}

func firstN(courses []Course, n int, keep func(Course) bool) []Course {
	out := make([]Course, 0, min(n, len(courses)))
	for _, course := range courses {
		if len(out) == n {
			break
		}
		if keep(course) {
			out = append(out, course)
		}
	}
	return out
}
