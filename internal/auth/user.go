package auth

import (
	"slices"
	"time"
)

const (
	RoleStudent   = "student"
	DefaultAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"
)

// User is the session record. At most one exists per device.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Avatar          string    `json:"avatar"`
	Role            string    `json:"role"`
	EnrolledCourses []string  `json:"enrolledCourses"`
	Wishlist        []string  `json:"wishlist"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u User) clone() User {
	u.EnrolledCourses = slices.Clone(u.EnrolledCourses)
	u.Wishlist = slices.Clone(u.Wishlist)
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}
	return u
}

func (u User) IsEnrolled(courseID string) bool {
	return slices.Contains(u.EnrolledCourses, courseID)
}

type SignupFields struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// ProfileFields holds the fields to overwrite; nil and empty values keep
// the current value.
type ProfileFields struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

func (f ProfileFields) apply(u *User) {
	set := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	set(&u.Email, f.Email)
	set(&u.FirstName, f.FirstName)
	set(&u.LastName, f.LastName)
	set(&u.Avatar, f.Avatar)
}
