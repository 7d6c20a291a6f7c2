package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type courseList struct {
	Courses []catalog.Course `json:"courses"`
	Count   int              `json:"count"`
}

func listOf(cs []catalog.Course) courseList {
	if cs == nil {
		cs = []catalog.Course{}
	}
	return courseList{Courses: cs, Count: len(cs)}
}

// query runs the catalog query described by the request's query string.
func (h *MarketHandler) query(r *http.Request) ([]catalog.Course, error) {
	q := r.URL.Query()
	crit, err := catalog.ParseCriteria(q)
	if err != nil {
		return nil, err
	}
	key, err := catalog.ParseSortKey(q.Get("sort"))
	if err != nil {
		return nil, err
	}
	return catalog.Query(h.Catalog.Courses(), crit, key), nil
}

func (h *MarketHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	cs, err := h.query(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, listOf(cs))
}

func (h *MarketHandler) highlights(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.Catalog.Highlights())
}

type courseDetail struct {
	Course     catalog.Course `json:"course"`
	InCart     bool           `json:"inCart"`
	InWishlist bool           `json:"inWishlist"`
	Enrolled   bool           `json:"enrolled"`
}

func (h *MarketHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.course(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	st := storesOf(r)
	d := courseDetail{Course: c, InCart: st.Cart.Contains(c.ID), InWishlist: st.Wishlist.Contains(c.ID)}
	if u, ok := st.Session.Current(); ok {
		d.Enrolled = u.IsEnrolled(c.ID)
	}
	respond(w, r, http.StatusOK, d)
}

func (h *MarketHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.Catalog.Categories())
}

func (h *MarketHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cat, ok := h.Catalog.FindCategory(id)
	if !ok {
		fail(w, r, apperr.E(apperr.NotFound, fmt.Sprintf("category %q not found", id)))
		return
	}
	key, err := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct {
		Category catalog.Category `json:"category"`
		courseList
	}{cat, listOf(h.Catalog.InCategory(cat, key))})
}

// search is /courses plus remembering the query.
func (h *MarketHandler) search(w http.ResponseWriter, r *http.Request) {
	cs, err := h.query(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if err := storesOf(r).Searches.Record(r.Context(), q); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, struct {
		Query string `json:"query"`
		courseList
	}{q, listOf(cs)})
}

func (h *MarketHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			fail(w, r, apperr.E(apperr.Invalid, "limit must be a positive integer"))
			return
		}
		limit = min(n, catalog.MaxSuggestions)
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	respond(w, r, http.StatusOK, listOf(h.Catalog.Suggest(q, limit)))
}

func (h *MarketHandler) recentSearches(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, storesOf(r).Searches.List())
}

func (h *MarketHandler) forgetSearch(w http.ResponseWriter, r *http.Request) {
	searches := storesOf(r).Searches
	if _, err := searches.Remove(r.Context(), chi.URLParam(r, "query")); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, searches.List())
}
