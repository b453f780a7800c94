// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Identity  *app.IdentityService
	Profiles  *app.ProfileService
	Catalog   *app.CatalogService
	Discovery *app.DiscoveryService
	Bookings  *app.BookingService
	Chat      *app.ChatService
	Admin     *app.AdminService
	Tokens    domain.TokenIssuer
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
}

func (s *Server) MountHandlers(h *Handlers) {
	authn := Authenticate(h.Tokens)
	hotelOnly := RequireIdentity(domain.IdentityHotel)
	corporateOnly := RequireIdentity(domain.IdentityCorporate)

	s.mux.Get("/health", h.health)

	s.mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/google/url", h.googleURL)
		r.Post("/google/callback", h.googleCallback)
		r.With(authn).Get("/profile", h.profile)
		r.With(authn).Post("/set-identity", h.setIdentity)
	})

	s.mux.Route("/browse/hotels", func(r chi.Router) {
		r.Get("/", h.searchHotels)
		r.Get("/{id}", h.hotelDetail)
		r.With(authn).Get("/{id}/available-rooms", h.availableRooms)
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/hotel", h.upsertHotelProfile)
			r.Get("/hotel/me", h.myHotelProfile)
			r.Post("/corporate", h.upsertCorporateProfile)
			r.Get("/corporate/me", h.myCorporateProfile)
		})

		r.Route("/room-types", func(r chi.Router) {
			r.Use(hotelOnly)
			r.Get("/", h.listRoomTypes)
			r.Post("/", h.createRoomType)
			r.Get("/{id}", h.getRoomType)
			r.Put("/{id}", h.updateRoomType)
			r.Delete("/{id}", h.deleteRoomType)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.browsePosts)
			r.With(hotelOnly).Get("/my", h.myPosts)
			r.Get("/{id}", h.getPost)
			r.With(hotelOnly).Post("/", h.createPost)
			r.With(hotelOnly).Put("/{id}", h.updatePost)
			r.With(hotelOnly).Delete("/{id}", h.deletePost)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.With(corporateOnly).Post("/", h.createBooking)
			r.With(corporateOnly).Get("/", h.myBookings)
			r.With(hotelOnly).Get("/hotel", h.hotelBookings)
			r.Get("/{id}", h.getBooking)
			r.With(hotelOnly).Put("/{id}/approve", h.approveBooking)
			r.With(hotelOnly).Put("/{id}/reject", h.rejectBooking)
			r.Put("/{id}/cancel", h.cancelBooking)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", h.sendMessage)
			r.Get("/inbox", h.inbox)
			r.Get("/history/{partnerId}", h.history)
			r.Get("/post/{postId}", h.postThread)
		})

		r.With(RequireAdmin).Get("/admin/stats", h.stats)
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

/********** responses **********/

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// statusOf maps an error kind to its HTTP status; 0 means unclassified.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	return 0
}

// writeError renders err as {"error": msg}. Unclassified errors are logged and
// reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == 0 {
		log.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("route", routeOf(r)).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: domain.PublicMessage(err)})
}

/********** request helpers **********/

func claims(r *http.Request) domain.Claims {
	c, _ := ClaimsFrom(r.Context())
	return c
}

// decode reads a JSON body into dst and runs its validation tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	return validate(dst)
}

// decodeOptional is decode for endpoints whose body may be omitted.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return validate(dst)
}

// decodePatch reads a partial update as a generic map. Numbers are kept as
// json.Number so the services can coerce them exactly.
func decodePatch(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, bodyError(err)
	}
	if m == nil {
		return nil, domain.Errorf(domain.ErrValidation, "request body must be a JSON object")
	}
	return m, nil
}

func bodyError(err error) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, io.EOF):
		return domain.Errorf(domain.ErrValidation, "request body is required")
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.Errorf(domain.ErrValidation, "request body is too large")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Errorf(domain.ErrValidation, "%s has the wrong type", typeErr.Field)
	}
	return domain.Errorf(domain.ErrValidation, "malformed JSON body")
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Errorf(domain.ErrValidation, "%s must be a positive integer", name)
	}
	return id, nil
}

// pageParam reads page and limit; missing or malformed values fall back to
// the first page of DefaultPageLimit items.
func pageParam(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = domain.DefaultPageLimit
	}
	return domain.NewPageRequest(page, limit)
}

func intQuery(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "%s must be an integer", key)
	}
	return &n, nil
}

func moneyQuery(r *http.Request, key string) (*domain.Money, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
	}
	m, err := domain.MoneyFromFloat(f)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func int64Query(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return nil, domain.Errorf(domain.ErrValidation, "%s must be a positive integer", key)
	}
	return &n, nil
}

func statusQuery(r *http.Request) (*domain.BookingStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	st, err := domain.ParseBookingStatus(raw)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
