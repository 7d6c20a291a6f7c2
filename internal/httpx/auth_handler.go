package httpx

import (
	"net/http"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/async"
	"github.com/ariefcatur/go-course-market/internal/auth"
)

var errNoSession = apperr.E(apperr.Unauthorized, "not authenticated")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *MarketHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		fail(w, r, apperr.E(apperr.Invalid, "email and password are required"))
		return
	}
	finish(w, r, storesOf(r).Session.Login(r.Context(), req.Email, req.Password))
}

func (h *MarketHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupFields
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.FirstName) == "" {
		fail(w, r, apperr.E(apperr.Invalid, "email, password and firstName are required"))
		return
	}
	finish(w, r, storesOf(r).Session.Signup(r.Context(), req))
}

func (h *MarketHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := storesOf(r).Session.Logout(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, auth.Result{Success: true})
}

func (h *MarketHandler) me(w http.ResponseWriter, r *http.Request) {
	u, err := sessionUser(storesOf(r).Session)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, u)
}

func (h *MarketHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req auth.ProfileFields
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	session := storesOf(r).Session
	if !session.IsAuthenticated() {
		fail(w, r, errNoSession)
		return
	}
	finish(w, r, session.UpdateProfile(r.Context(), req))
}

func (h *MarketHandler) enroll(w http.ResponseWriter, r *http.Request) {
	var req courseRef
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.course(strings.TrimSpace(req.CourseID))
	if err != nil {
		fail(w, r, err)
		return
	}
	session := storesOf(r).Session
	if !session.IsAuthenticated() {
		fail(w, r, errNoSession)
		return
	}
	finish(w, r, session.EnrollCourse(r.Context(), c.ID))
}

// finish waits for a session call. The call completes even if the client
// goes away first.
func finish(w http.ResponseWriter, r *http.Request, task *async.Task[auth.Result]) {
	res, err := task.Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if !res.Success {
		code := http.StatusInternalServerError
		if res.Error == auth.ErrNotAuthenticated.Error() {
			code = http.StatusUnauthorized
		}
		respond(w, r, code, res)
		return
	}
	respond(w, r, http.StatusOK, res)
}

// sessionUser returns the logged in user or an Unauthorized error.
func sessionUser(s *auth.Store) (auth.User, error) {
	u, ok := s.Current()
	if !ok {
		return auth.User{}, errNoSession
	}
	return u, nil
}
