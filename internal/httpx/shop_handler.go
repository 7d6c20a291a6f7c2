package httpx

import (
	"net/http"
	"strings"

	"github.com/ariefcatur/go-course-market/internal/apperr"
	"github.com/ariefcatur/go-course-market/internal/shop"
	"github.com/go-chi/chi/v5"
)

type cartView struct {
	Items []shop.LineItem `json:"items"`
	Count int             `json:"count"`
	Total float64         `json:"total"`
}

func viewCart(c *shop.Cart) cartView {
	items := c.Items()
	return cartView{Items: items, Count: len(items), Total: c.Total()}
}

type wishlistView struct {
	Items []shop.LineItem `json:"items"`
	Count int             `json:"count"`
}

func viewWishlist(wl *shop.Wishlist) wishlistView {
	items := wl.Items()
	return wishlistView{Items: items, Count: len(items)}
}

func (h *MarketHandler) getCart(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, viewCart(storesOf(r).Cart))
}

func (h *MarketHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	cart := storesOf(r).Cart
	added, err := h.addItem(w, r, cart.Collection)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, addedStatus(added), viewCart(cart))
}

func (h *MarketHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	cart := storesOf(r).Cart
	if _, err := cart.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewCart(cart))
}

func (h *MarketHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	cart := storesOf(r).Cart
	if err := cart.Clear(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewCart(cart))
}

func (h *MarketHandler) checkout(w http.ResponseWriter, r *http.Request) {
	res, err := storesOf(r).Cart.Checkout(r.Context()).Await(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	code := http.StatusOK
	if !res.Success {
		code = http.StatusInternalServerError
	}
	respond(w, r, code, res)
}

type couponResult struct {
	Code            string  `json:"code"`
	Applied         bool    `json:"applied"`
	Discount        float64 `json:"discount"`
	Total           float64 `json:"total"`
	DiscountedTotal float64 `json:"discountedTotal"`
}

// applyCoupon only prices the cart; an unknown code is reported through a
// notice, not as a failed request.
func (h *MarketHandler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		fail(w, r, apperr.E(apperr.Invalid, "missing code"))
		return
	}
	cart := storesOf(r).Cart
	frac, ok := cart.ApplyCoupon(r.Context(), req.Code)
	total := cart.Total()
	respond(w, r, http.StatusOK, couponResult{
		Code:            req.Code,
		Applied:         ok,
		Discount:        frac,
		Total:           total,
		DiscountedTotal: shop.Discounted(total, frac),
	})
}

func (h *MarketHandler) getWishlist(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, viewWishlist(storesOf(r).Wishlist))
}

func (h *MarketHandler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	wl := storesOf(r).Wishlist
	added, err := h.addItem(w, r, wl.Collection)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, addedStatus(added), viewWishlist(wl))
}

func (h *MarketHandler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	wl := storesOf(r).Wishlist
	if _, err := wl.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewWishlist(wl))
}

func (h *MarketHandler) clearWishlist(w http.ResponseWriter, r *http.Request) {
	wl := storesOf(r).Wishlist
	if err := wl.Clear(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewWishlist(wl))
}

func (h *MarketHandler) moveToCart(w http.ResponseWriter, r *http.Request) {
	st := storesOf(r)
	id := chi.URLParam(r, "id")
	_, moved, err := st.Wishlist.MoveToCart(r.Context(), id, st.Cart)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !moved {
		fail(w, r, apperr.E(apperr.NotFound, "course is not in your wishlist"))
		return
	}
	respond(w, r, http.StatusOK, struct {
		Cart     cartView     `json:"cart"`
		Wishlist wishlistView `json:"wishlist"`
	}{viewCart(st.Cart), viewWishlist(st.Wishlist)})
}

func (h *MarketHandler) addItem(w http.ResponseWriter, r *http.Request, col *shop.Collection) (bool, error) {
	var req courseRef
	if err := decodeJSON(w, r, &req); err != nil {
		return false, err
	}
	c, err := h.course(strings.TrimSpace(req.CourseID))
	if err != nil {
		return false, err
	}
	return col.Add(r.Context(), c)
}

func addedStatus(added bool) int {
	if added {
		return http.StatusCreated
	}
	return http.StatusOK
}
