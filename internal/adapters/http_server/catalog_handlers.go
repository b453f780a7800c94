package httpserver

import (
	"net/http"
	"strings"

	"stayhub/internal/domain"
)

/********** discovery **********/

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort := q.Get("sort")
	if sort == "" {
		sort = q.Get("sortBy")
	}
	s := domain.HotelSearch{
		City:       strings.TrimSpace(q.Get("city")),
		State:      strings.TrimSpace(q.Get("state")),
		Country:    strings.TrimSpace(q.Get("country")),
		PostalCode: strings.TrimSpace(q.Get("postalCode")),
		Sort:       domain.ParseHotelSort(sort),
		Page:       pageParam(r),
	}
	var err error
	if s.MinStars, err = intQuery(r, "minStars"); err != nil {
		writeError(w, r, err)
		return
	}
	if s.MaxStars, err = intQuery(r, "maxStars"); err != nil {
		writeError(w, r, err)
		return
	}
	if s.Guests, err = intQuery(r, "guests"); err != nil {
		writeError(w, r, err)
		return
	}
	if s.MinPrice, err = moneyQuery(r, "minPrice"); err != nil {
		writeError(w, r, err)
		return
	}
	if s.MaxPrice, err = moneyQuery(r, "maxPrice"); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Discovery.SearchHotels(r.Context(), s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) hotelDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	hd, err := h.Discovery.HotelDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hd)
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	if q.Get("checkIn") == "" || q.Get("checkOut") == "" {
		writeError(w, r, domain.Errorf(domain.ErrValidation, "checkIn and checkOut are required"))
		return
	}
	in, err := domain.ParseDate(q.Get("checkIn"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := domain.ParseDate(q.Get("checkOut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	guests := 1
	if g, err := intQuery(r, "guests"); err != nil {
		writeError(w, r, err)
		return
	} else if g != nil {
		guests = *g
	}
	rooms, err := h.Discovery.AvailableRooms(r.Context(), claims(r), id, in, out, guests)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rooms})
}

/********** room types **********/

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	rts, err := h.Catalog.ListRoomTypes(r.Context(), claims(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rts})
}

func (h *Handlers) createRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.Catalog.CreateRoomType(r.Context(), claims(r), req.roomType())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handlers) getRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.Catalog.GetRoomType(r.Context(), claims(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handlers) updateRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := decodePatch(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.Catalog.UpdateRoomType(r.Context(), claims(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *Handlers) deleteRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteRoomType(r.Context(), claims(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** marketing posts **********/

func (h *Handlers) browsePosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Catalog.BrowsePosts(r.Context(), pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) myPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.Catalog.MyPosts(r.Context(), claims(r), pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.GetPost(r.Context(), claims(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.CreatePost(r.Context(), claims(r), req.post())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := decodePatch(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Catalog.UpdatePost(r.Context(), claims(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeletePost(r.Context(), claims(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
