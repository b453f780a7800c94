package httpserver

import (
	"net/http"
)

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	br, err := req.booking()
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), claims(r), br)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	status, err := statusQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Bookings.ListMine(r.Context(), claims(r), status, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) hotelBookings(w http.ResponseWriter, r *http.Request) {
	status, err := statusQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Bookings.ListForHotel(r.Context(), claims(r), status, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Get(r.Context(), claims(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) approveBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Approve(r.Context(), claims(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) rejectBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Reject(r.Context(), claims(r), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), claims(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

/********** chat **********/

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.Chat.Send(r.Context(), claims(r), req.RecipientID, req.Message, req.PostID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) inbox(w http.ResponseWriter, r *http.Request) {
	convs, err := h.Chat.Inbox(r.Context(), claims(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": convs})
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	partner, err := idParam(r, "partnerId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := int64Query(r, "postId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	msgs, err := h.Chat.History(r.Context(), claims(r), partner, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": msgs})
}

func (h *Handlers) postThread(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "postId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	msgs, err := h.Chat.PostThread(r.Context(), claims(r), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": msgs})
}
