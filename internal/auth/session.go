package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-course-market/internal/async"
	"github.com/ariefcatur/go-course-market/internal/events"
	"github.com/ariefcatur/go-course-market/internal/notice"
	"github.com/ariefcatur/go-course-market/internal/storage"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Delays are the artificial latencies of the simulated auth backend.
type Delays struct {
	Login   time.Duration // login, signup
	Profile time.Duration // profile update, enrollment
}

type Deps struct {
	Storage  storage.Storage
	Notifier notice.Notifier
	Events   events.Emitter
	Tasks    *async.Group // nil leaves simulated calls untracked
	Now      func() time.Time
}

// Result is the outcome of a simulated call.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Store holds the zero-or-one session of a device. Credentials are never
// checked: login and signup always fabricate a user.
type Store struct {
	deps   Deps
	delays Delays

	mu   sync.Mutex
	user *User
}

// NewStore rehydrates the session; a corrupt payload means logged out.
func NewStore(ctx context.Context, deps Deps, delays Delays) (*Store, error) {
	s := &Store{deps: deps, delays: delays}
	var u User
	ok, err := storage.LoadJSON(ctx, deps.Storage, storage.SlotUser, &u)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if ok && u.ID != "" {
		u = u.clone()
		s.user = &u
	}
	return s, nil
}

func (s *Store) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return s.user.clone(), true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) Login(ctx context.Context, email, _ string) *async.Task[Result] {
	return s.run(ctx, s.delays.Login, func(*User) (User, any, error) {
		u := User{
			ID:        "1",
			Email:     email,
			FirstName: "John",
			LastName:  "Doe",
			Avatar:    DefaultAvatar,
			Role:      RoleStudent,
			CreatedAt: s.now(),
		}.clone()
		return u, events.UserPayload{UserID: u.ID, Email: u.Email}, nil
	}, "Logged in successfully", events.UserLoggedIn)
}

func (s *Store) Signup(ctx context.Context, f SignupFields) *async.Task[Result] {
	return s.run(ctx, s.delays.Login, func(*User) (User, any, error) {
		u := User{
			ID:        "2",
			Email:     f.Email,
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Avatar:    DefaultAvatar,
			Role:      RoleStudent,
			CreatedAt: s.now(),
		}.clone()
		return u, events.UserPayload{UserID: u.ID, Email: u.Email}, nil
	}, "Account created successfully", events.UserSignedUp)
}

func (s *Store) UpdateProfile(ctx context.Context, f ProfileFields) *async.Task[Result] {
	return s.run(ctx, s.delays.Profile, func(cur *User) (User, any, error) {
		if cur == nil {
			return User{}, nil, ErrNotAuthenticated
		}
		next := cur.clone()
		f.apply(&next)
		return next, events.UserPayload{UserID: next.ID, Email: next.Email}, nil
	}, "Profile updated successfully", events.ProfileUpdated)
}

// EnrollCourse appends courseID to the enrolled list unless present. Only
// a new enrollment publishes CourseEnrolled.
func (s *Store) EnrollCourse(ctx context.Context, courseID string) *async.Task[Result] {
	return s.run(ctx, s.delays.Profile, func(cur *User) (User, any, error) {
		if cur == nil {
			return User{}, nil, ErrNotAuthenticated
		}
		next := cur.clone()
		if next.IsEnrolled(courseID) {
			return next, nil, nil
		}
		next.EnrolledCourses = append(next.EnrolledCourses, courseID)
		return next, events.EnrollPayload{UserID: next.ID, CourseID: courseID}, nil
	}, "Successfully enrolled in course", events.CourseEnrolled)
}

// Logout clears the session right away.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.user
	if err := s.deps.Storage.Delete(ctx, storage.SlotUser); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete session: %w", err)
	}
	s.user = nil
	s.mu.Unlock()

	s.notify(ctx, notice.Success, "Logged out successfully")
	if prev != nil {
		s.deps.Events.Emit(ctx, events.UserLoggedOut, events.UserPayload{UserID: prev.ID, Email: prev.Email})
	}
	return nil
}

// run is the shared shape of every simulated call: wait, derive the next
// user and the event payload from the current user, persist, then report.
// A nil payload publishes nothing.
func (s *Store) run(ctx context.Context, delay time.Duration, next func(cur *User) (User, any, error), okMsg, eventType string) *async.Task[Result] {
	ctx = context.WithoutCancel(ctx)
	return async.Run(s.deps.Tasks, delay, func() (Result, error) {
		s.mu.Lock()
		u, payload, err := next(s.user)
		if err == nil {
			err = storage.SaveJSON(ctx, s.deps.Storage, storage.SlotUser, u)
		}
		if err != nil {
			s.mu.Unlock()
			s.notify(ctx, notice.Error, "Something went wrong")
			return Result{Success: false, Error: err.Error()}, nil
		}
		s.user = &u
		out := u.clone()
		s.mu.Unlock()

		s.notify(ctx, notice.Success, okMsg)
		if payload != nil {
			s.deps.Events.Emit(ctx, eventType, payload)
		}
		return Result{Success: true, User: &out}, nil
	})
}

func (s *Store) notify(ctx context.Context, lv notice.Level, msg string) {
	notice.Send(ctx, s.deps.Notifier, lv, msg)
}

func (s *Store) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now()
	}
	return time.Now()
}
