package catalog

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Course is read-only once loaded; nothing in the repo mutates a Course.
type Course struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Instructor         string   `json:"instructor"`
	InstructorAvatar   string   `json:"instructorAvatar,omitempty"`
	Category           string   `json:"category"`
	Level              Level    `json:"level"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	DiscountPercentage int      `json:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating"`
	ReviewsCount       int      `json:"reviewsCount"`
	StudentsEnrolled   int      `json:"studentsEnrolled"`
	Duration           string   `json:"duration"` // e.g. "8 hours"
	Lectures           int      `json:"lectures,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	Image              string   `json:"image,omitempty"`
	LastUpdated        string   `json:"lastUpdated"`
	IsBestseller       bool     `json:"isBestseller"`
	IsNew              bool     `json:"isNew"`
	IsFeatured         bool     `json:"isFeatured"`
}

type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	Color         string   `json:"color,omitempty"`
	CourseCount   int      `json:"courseCount"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// Picture returns the thumbnail, falling back to the image.
func (c Course) Picture() string {
	if c.Thumbnail != "" {
		return c.Thumbnail
	}
	return c.Image
}

// Hours reads the leading integer of the duration string ("8 hours" -> 8,
// "1.5 hours" -> 1). Minute durations are converted and truncated
// ("45 minutes" -> 0). ok is false when no leading integer exists.
func (c Course) Hours() (hours int, ok bool) {
	fields := strings.Fields(c.Duration)
	if len(fields) == 0 {
		return 0, false
	}
	digits := strings.IndexFunc(fields[0], func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == -1 {
		digits = len(fields[0])
	}
	if digits == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0][:digits])
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(strings.TrimLeft(fields[0][digits:], ".0123456789"))
	if unit == "" && len(fields) > 1 {
		unit = strings.ToLower(fields[1])
	}
	if strings.HasPrefix(unit, "min") || unit == "m" {
		return n / 60, true
	}
	return n, true
}

var updatedLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// UpdatedAt parses LastUpdated; unparseable values yield the zero time.
func (c Course) UpdatedAt() time.Time {
	for _, layout := range updatedLayouts {
		if t, err := time.Parse(layout, c.LastUpdated); err == nil {
			return t
		}
	}
	return time.Time{}
}
