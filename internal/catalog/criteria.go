package catalog

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
)

var ErrInvalidCriteria = errors.New("invalid criteria")

type PriceBucket string

const (
	PriceFree    PriceBucket = "free"
	PricePaid    PriceBucket = "paid"
	PriceUnder50 PriceBucket = "under-50"
	Price50To100 PriceBucket = "50-100"
	PriceOver100 PriceBucket = "over-100"
)

func (b PriceBucket) Match(price float64) bool {
	switch b {
	case PriceFree:
		return price == 0
	case PricePaid:
		return price > 0
	case PriceUnder50:
		return price < 50
	case Price50To100:
		return price >= 50 && price <= 100
	case PriceOver100:
		return price > 100
	}
	return false
}

type DurationBucket string

const (
	DurationUpTo5  DurationBucket = "0-5"
	Duration5To10  DurationBucket = "5-10"
	DurationOver10 DurationBucket = "10+"
)

// Match reports whether a course falls in the bucket. Courses whose duration
// has no leading hour count match no bucket.
func (b DurationBucket) Match(c Course) bool {
	h, ok := c.Hours()
	if !ok {
		return false
	}
	switch b {
	case DurationUpTo5:
		return h <= 5
	case Duration5To10:
		return h > 5 && h <= 10
	case DurationOver10:
		return h > 10
	}
	return false
}

// Criteria narrows a course list. A nil field imposes no constraint; the
// present fields are combined with AND.
type Criteria struct {
	Category  *string
	Level     *Level
	Price     *PriceBucket
	MinRating *float64
	Duration  *DurationBucket
	Query     *string
}

// Empty reports whether no constraint is set.
func (c Criteria) Empty() bool {
	return c.Category == nil && c.Level == nil && c.Price == nil &&
		c.MinRating == nil && c.Duration == nil && c.Query == nil
}

// ParseCriteria reads criteria from query parameters (category, level,
// price, rating, duration, q). Empty parameters are treated as absent.
func ParseCriteria(v url.Values) (Criteria, error) {
	var c Criteria
	if s := strings.TrimSpace(v.Get("category")); s != "" {
		c.Category = &s
	}
	if s := strings.TrimSpace(v.Get("level")); s != "" {
		lv := Level(s)
		switch lv {
		case LevelBeginner, LevelIntermediate, LevelAdvanced:
		default:
			return Criteria{}, invalid("unknown level %q", s)
		}
		c.Level = &lv
	}
	if s := strings.TrimSpace(v.Get("price")); s != "" {
		pb := PriceBucket(s)
		switch pb {
		case PriceFree, PricePaid, PriceUnder50, Price50To100, PriceOver100:
		default:
			return Criteria{}, invalid("unknown price bucket %q", s)
		}
		c.Price = &pb
	}
	if s := strings.TrimSpace(v.Get("rating")); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(r) || r < 0 || r > 5 {
			return Criteria{}, invalid("rating must be a number between 0 and 5, got %q", s)
		}
		c.MinRating = &r
	}
	if s := strings.TrimSpace(v.Get("duration")); s != "" {
		db := DurationBucket(s)
		switch db {
		case DurationUpTo5, Duration5To10, DurationOver10:
		default:
			return Criteria{}, invalid("unknown duration bucket %q", s)
		}
		c.Duration = &db
	}
	if s := strings.TrimSpace(v.Get("q")); s != "" {
		c.Query = &s
	}
	return c, nil
}

func invalid(format string, args ...any) error {
	return apperr.E(apperr.Invalid, fmt.Sprintf(format, args...), ErrInvalidCriteria)
}
