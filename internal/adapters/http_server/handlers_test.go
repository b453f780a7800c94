package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/adapters/auth"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// ---- fakes ----

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[int64]domain.Account
}

func newFakeAccounts() *fakeAccounts { return &fakeAccounts{byID: map[int64]domain.Account{}} }

func (f *fakeAccounts) CreateAccount(_ context.Context, a *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Email == a.Email {
			return fmt.Errorf("%w: email", domain.ErrDuplicate)
		}
	}
	a.ID = int64(len(f.byID) + 1)
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAccounts) GetAccountByID(_ context.Context, id int64) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) GetAccountByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (f *fakeAccounts) update(id int64, fn func(*domain.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&a)
	f.byID[id] = a
	return nil
}

func (f *fakeAccounts) LinkGoogleSubject(_ context.Context, id int64, sub string) error {
	return f.update(id, func(a *domain.Account) { a.GoogleSubject = &sub })
}
func (f *fakeAccounts) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	return f.update(id, func(a *domain.Account) { a.Role = role })
}
func (f *fakeAccounts) SetIdentityType(_ context.Context, id int64, t domain.IdentityType, done bool) error {
	return f.update(id, func(a *domain.Account) { a.IdentityType, a.ProfileCompleted = t, done })
}
func (f *fakeAccounts) TouchLogin(_ context.Context, id int64, at time.Time) error {
	return f.update(id, func(a *domain.Account) { a.LastLoginAt = &at })
}

type failingStats struct{ err error }

func (f failingStats) Stats(context.Context) (domain.Stats, error) { return domain.Stats{}, f.err }

// ---- harness ----

type harness struct {
	srv    *httptest.Server
	tokens *auth.Tokens
}

func newHarness(t *testing.T, health func(context.Context) error) *harness {
	t.Helper()
	accounts := newFakeAccounts()
	tokens := auth.NewTokens("test-secret", time.Hour)
	s := New()
	s.MountHandlers(&Handlers{
		Identity: app.NewIdentityService(accounts, auth.NewPasswords(4), tokens, nil, nil),
		Admin:    app.NewAdminService(failingStats{err: errors.New("dial tcp 10.0.0.1:3306: connection refused")}, accounts),
		Tokens:   tokens,
		Health:   health,
	})
	srv := httptest.NewServer(s.Mux())
	t.Cleanup(srv.Close)
	return &harness{srv: srv, tokens: tokens}
}

func (h *harness) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	raw, _ := io.ReadAll(res.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return res.StatusCode, out
}

// ---- tests ----

func TestRegisterLoginAndProfile(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "POST", "/auth/register", "", `{"email":"Ann@Example.com","password":"Passw0rdA","firstName":"Ann"}`)
	require.Equal(t, http.StatusCreated, status, body)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	status, body = h.do(t, "POST", "/auth/register", "", `{"email":"ann@example.com","password":"Another1x"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email is already registered", body["error"])

	status, body = h.do(t, "POST", "/auth/login", "", `{"email":"ann@example.com","password":"Passw0rdA"}`)
	require.Equal(t, http.StatusOK, status, body)
	token := body["token"].(string)

	status, body = h.do(t, "GET", "/auth/profile", token, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "ann@example.com", body["user"].(map[string]any)["email"])

	status, body = h.do(t, "POST", "/auth/set-identity", token, `{"identityType":"Corporate"}`)
	require.Equal(t, http.StatusOK, status, body)
	c, err := h.tokens.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityCorporate, c.IdentityType)
}

func TestLoginFailureBodiesAreIdentical(t *testing.T) {
	h := newHarness(t, nil)
	status, _ := h.do(t, "POST", "/auth/register", "", `{"email":"bo@example.com","password":"Passw0rdB"}`)
	require.Equal(t, http.StatusCreated, status)

	s1, unknown := h.do(t, "POST", "/auth/login", "", `{"email":"nobody@example.com","password":"Passw0rdB"}`)
	s2, wrong := h.do(t, "POST", "/auth/login", "", `{"email":"bo@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, s1)
	assert.Equal(t, http.StatusUnauthorized, s2)
	assert.Equal(t, map[string]any{"error": "invalid email or password"}, unknown)
	assert.Equal(t, unknown, wrong)
}

func TestRequestValidation(t *testing.T) {
	h := newHarness(t, nil)
	cases := []struct {
		name, body, want string
	}{
		{"malformed", `{"email":`, "malformed JSON body"},
		{"empty", ``, "request body is required"},
		{"bad email", `{"email":"nope","password":"Passw0rdA"}`, "email must be a valid email address"},
		{"missing password", `{"email":"a@b.co"}`, "password is required"},
		{"wrong type", `{"email":42,"password":"Passw0rdA"}`, "email has the wrong type"},
		{"weak password", `{"email":"a@b.co","password":"password"}`, "password must contain upper-case, lower-case and numeric characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := h.do(t, "POST", "/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.want, body["error"])
		})
	}
}

func TestAuthenticationGate(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "GET", "/auth/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing bearer token", body["error"])

	status, _ = h.do(t, "GET", "/auth/profile", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	expired := auth.NewTokens("test-secret", time.Nanosecond)
	tok, err := expired.Issue(domain.Claims{AccountID: 1, Role: domain.RoleUser})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	status, _ = h.do(t, "GET", "/auth/profile", tok, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleGates(t *testing.T) {
	h := newHarness(t, nil)
	user, err := h.tokens.Issue(domain.Claims{AccountID: 1, Role: domain.RoleUser, IdentityType: domain.IdentityCorporate})
	require.NoError(t, err)
	admin, err := h.tokens.Issue(domain.Claims{AccountID: 2, Role: domain.RoleAdmin})
	require.NoError(t, err)

	// hotel-only route with a corporate token
	status, body := h.do(t, "GET", "/room-types", user, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Hotel access required", body["error"])

	status, _ = h.do(t, "GET", "/admin/stats", user, "")
	assert.Equal(t, http.StatusForbidden, status)

	// unclassified failures are hidden behind a generic 500
	status, body = h.do(t, "GET", "/admin/stats", admin, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "internal server error"}, body)
}

func TestHealth(t *testing.T) {
	ok := newHarness(t, func(context.Context) error { return nil })
	status, body := ok.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	down := newHarness(t, func(context.Context) error { return errors.New("db down") })
	status, body = down.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unavailable", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t, nil)
	status, body := h.do(t, "GET", "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "route not found", body["error"])
}

func TestGoogleNotConfigured(t *testing.T) {
	h := newHarness(t, nil)
	status, body := h.do(t, "GET", "/auth/google/url", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "google sign-in is not configured", body["error"])
}

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		domain.Errorf(domain.ErrValidation, "x"):        http.StatusBadRequest,
		domain.Errorf(domain.ErrInvalidTransition, "x"): http.StatusBadRequest,
		domain.ErrUnauthorized:                          http.StatusUnauthorized,
		domain.Errorf(domain.ErrForbidden, "x"):         http.StatusForbidden,
		fmt.Errorf("wrap: %w", domain.ErrNotFound):      http.StatusNotFound,
		domain.Errorf(domain.ErrConflict, "x"):          http.StatusConflict,
		fmt.Errorf("%w: dup", domain.ErrDuplicate):      0,
		io.ErrUnexpectedEOF:                             0,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusOf(err), err.Error())
	}
}

func TestDecodePatchKeepsNumbersExact(t *testing.T) {
	r := httptest.NewRequest("PUT", "/room-types/1", strings.NewReader(`{"basePrice": 150.10, "corporatePrice": null}`))
	m, err := decodePatch(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, json.Number("150.10"), m["basePrice"])
	v, present := m["corporatePrice"]
	assert.True(t, present)
	assert.Nil(t, v)

	r = httptest.NewRequest("PUT", "/room-types/1", strings.NewReader(`[1,2]`))
	_, err = decodePatch(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPageParam(t *testing.T) {
	cases := map[string]domain.PageRequest{
		"":                 {Page: 1, Limit: domain.DefaultPageLimit},
		"?page=3&limit=5":  {Page: 3, Limit: 5},
		"?page=-1&limit=x": {Page: 1, Limit: domain.DefaultPageLimit},
		"?limit=500":       {Page: 1, Limit: domain.MaxPageLimit},
	}
	for q, want := range cases {
		assert.Equal(t, want, pageParam(httptest.NewRequest("GET", "/posts"+q, nil)), q)
	}
}

func TestBookingRequestDefaults(t *testing.T) {
	var req bookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"hotelId":1,"roomTypeId":2,"checkInDate":"2025-12-20","checkOutDate":"2025-12-22","numberOfGuests":2,"guestName":"A","guestEmail":"a@b.co","guestPhone":"1"}`), &req))
	require.NoError(t, validate(&req))
	br, err := req.booking()
	require.NoError(t, err)
	assert.Equal(t, 1, br.RoomQuantity)
	assert.Equal(t, "2025-12-22", br.CheckOut.String())

	var missing bookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"hotelId":1,"roomTypeId":2,"numberOfGuests":2}`), &missing))
	_, err = missing.booking()
	assert.ErrorIs(t, err, domain.ErrValidation)

	var tooMany bookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"hotelId":1,"roomTypeId":2,"checkInDate":"2025-12-20","checkOutDate":"2025-12-22","numberOfGuests":2,"roomQuantity":101,"guestName":"A","guestEmail":"a@b.co","guestPhone":"1"}`), &tooMany))
	err = validate(&tooMany)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "roomQuantity must be at most 100")
}
