package httpserver

import (
	"net/http"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Identity.Register(r.Context(), app.Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) googleURL(w http.ResponseWriter, r *http.Request) {
	url, state, err := h.Identity.OAuthURL()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "state": state})
}

func (h *Handlers) googleCallback(w http.ResponseWriter, r *http.Request) {
	var req googleCallbackRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Identity.OAuthExchange(r.Context(), req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	a, err := h.Identity.Profile(r.Context(), claims(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": a})
}

func (h *Handlers) setIdentity(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Identity.SetIdentity(r.Context(), claims(r), req.IdentityType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

/********** profiles **********/

type profileResponse struct {
	Token   string         `json:"token"`
	User    domain.Account `json:"user"`
	Profile any            `json:"profile"`
}

func (h *Handlers) upsertHotelProfile(w http.ResponseWriter, r *http.Request) {
	var req hotelProfileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, sess, err := h.Profiles.UpsertHotel(r.Context(), claims(r), req.profile())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Token: sess.Token, User: sess.Account, Profile: p})
}

func (h *Handlers) upsertCorporateProfile(w http.ResponseWriter, r *http.Request) {
	var req corporateProfileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, sess, err := h.Profiles.UpsertCorporate(r.Context(), claims(r), req.profile())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Token: sess.Token, User: sess.Account, Profile: p})
}

func (h *Handlers) myHotelProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.MyHotel(r.Context(), claims(r))
	if err != nil {
		writeError(w, r, notFoundAs(err, "hotel profile not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) myCorporateProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.MyCorporate(r.Context(), claims(r))
	if err != nil {
		writeError(w, r, notFoundAs(err, "corporate profile not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func notFoundAs(err error, msg string) error {
	if err == domain.ErrNotFound {
		return domain.Errorf(domain.ErrNotFound, "%s", msg)
	}
	return err
}

/********** admin **********/

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
