package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-course-market/internal/dashboard"
	"github.com/ariefcatur/go-course-market/internal/prefs"
)

func (h *MarketHandler) overview(w http.ResponseWriter, r *http.Request) {
	u, err := sessionUser(storesOf(r).Session)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dashboard.BuildOverview(u, h.Catalog))
}

func (h *MarketHandler) myCourses(w http.ResponseWriter, r *http.Request) {
	u, err := sessionUser(storesOf(r).Session)
	if err != nil {
		fail(w, r, err)
		return
	}
	f, err := dashboard.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dashboard.MyCourses(u, h.Catalog, r.URL.Query().Get("q"), f))
}

type languageView struct {
	Current   prefs.Lang   `json:"current"`
	Supported []prefs.Lang `json:"supported"`
}

func (h *MarketHandler) getLanguage(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, languageView{storesOf(r).Language.Get(), prefs.Supported})
}

func (h *MarketHandler) setLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	lang, err := storesOf(r).Language.Set(r.Context(), req.Code)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, languageView{lang, prefs.Supported})
}
