package httpx

import (
	"fmt"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/catalog"
	"github.com/ariefcatur/go-course-market/internal/device"
	"github.com/go-chi/chi/v5"
)

type MarketHandler struct {
	Catalog *catalog.Catalog
	Devices *device.Registry
}

func (h *MarketHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(WithDevice(h.Devices))

		r.Get("/courses", h.listCourses)
		r.Get("/courses/highlights", h.highlights)
		r.Get("/courses/{id}", h.getCourse)
		r.Get("/categories", h.listCategories)
		r.Get("/categories/{id}", h.getCategory)
		r.Get("/search", h.search)
		r.Get("/search/suggestions", h.suggestions)
		r.Get("/search/recent", h.recentSearches)
		r.Delete("/search/recent/{query}", h.forgetSearch)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addToCart)
			r.Delete("/items/{id}", h.removeFromCart)
			r.Post("/checkout", h.checkout)
			r.Post("/coupon", h.applyCoupon)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.getWishlist)
			r.Delete("/", h.clearWishlist)
			r.Post("/items", h.addToWishlist)
			r.Delete("/items/{id}", h.removeFromWishlist)
			r.Post("/items/{id}/move-to-cart", h.moveToCart)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/signup", h.signup)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
			r.Patch("/profile", h.updateProfile)
			r.Post("/enroll", h.enroll)
		})

		r.Get("/dashboard", h.overview)
		r.Get("/dashboard/courses", h.myCourses)
		r.Get("/prefs/lang", h.getLanguage)
		r.Put("/prefs/lang", h.setLanguage)
	})
}

func (h *MarketHandler) course(id string) (catalog.Course, error) {
	c, ok := h.Catalog.FindCourse(id)
	if !ok {
		return catalog.Course{}, apperr.E(apperr.NotFound, fmt.Sprintf("course %q not found", id))
	}
	return c, nil
}

type courseRef struct {
	CourseID string `json:"course_id"`
}
