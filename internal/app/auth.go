package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// errBadCredentials is shared by every login failure that must look the same to the caller.
var errBadCredentials = domain.Errorf(domain.ErrUnauthorized, "invalid email or password")

type IdentityService struct {
	accounts domain.AccountRepository
	hasher   domain.PasswordHasher
	tokens   domain.TokenIssuer
	google   domain.IdentityProvider
	admins   map[string]bool
	now      func() time.Time
}

// NewIdentityService wires account flows. google may be nil when sign-in with
// Google is not configured.
func NewIdentityService(a domain.AccountRepository, h domain.PasswordHasher, t domain.TokenIssuer, g domain.IdentityProvider, adminEmails []string) *IdentityService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[domain.NormalizeEmail(e)] = true
	}
	return &IdentityService{accounts: a, hasher: h, tokens: t, google: g, admins: admins, now: time.Now}
}

type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

func (s *IdentityService) Register(ctx context.Context, r Registration) (domain.Session, error) {
	email := domain.NormalizeEmail(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Session{}, domain.Errorf(domain.ErrValidation, "a valid email is required")
	}
	if err := domain.ValidatePassword(r.Password); err != nil {
		return domain.Session{}, err
	}
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return domain.Session{}, err
	}
	a := domain.Account{
		Email:        email,
		PasswordHash: &hash,
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Phone:        r.Phone,
		Role:         domain.RoleUser,
		Active:       true,
	}
	if err := s.accounts.CreateAccount(ctx, &a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Session{}, domain.Errorf(domain.ErrConflict, "email is already registered")
		}
		return domain.Session{}, err
	}
	log.Info().Int64("account_id", a.ID).Msg("account registered")
	return s.session(a)
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.login(ctx, email, password)
	observability.ObserveSignIn("password", signInResult(err))
	return sess, err
}

func (s *IdentityService) login(ctx context.Context, email, password string) (domain.Session, error) {
	a, err := s.accounts.GetAccountByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, errBadCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}
	if a.PasswordHash == nil || s.hasher.Compare(*a.PasswordHash, password) != nil {
		return domain.Session{}, errBadCredentials
	}
	if !a.Active {
		return domain.Session{}, domain.Errorf(domain.ErrForbidden, "account is deactivated")
	}
	s.touch(ctx, &a)
	return s.session(a)
}

// OAuthURL returns the consent URL and the state value the client must echo back.
func (s *IdentityService) OAuthURL() (url, state string, err error) {
	if s.google == nil {
		return "", "", domain.Errorf(domain.ErrValidation, "google sign-in is not configured")
	}
	state = uuid.NewString()
	return s.google.AuthURL(state), state, nil
}

// OAuthExchange signs in with a Google authorization code, linking an existing
// account by email or provisioning a password-less one.
func (s *IdentityService) OAuthExchange(ctx context.Context, code string) (domain.Session, error) {
	sess, err := s.oauthExchange(ctx, code)
	observability.ObserveSignIn("google", signInResult(err))
	return sess, err
}

func (s *IdentityService) oauthExchange(ctx context.Context, code string) (domain.Session, error) {
	if s.google == nil {
		return domain.Session{}, domain.Errorf(domain.ErrValidation, "google sign-in is not configured")
	}
	id, err := s.google.Exchange(ctx, code)
	if err != nil {
		return domain.Session{}, err
	}
	if id.Email == "" || !id.EmailVerified {
		return domain.Session{}, domain.Errorf(domain.ErrUnauthorized, "google account email is not verified")
	}

	a, err := s.accounts.GetAccountByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a, err = s.provision(ctx, id)
		if err != nil {
			return domain.Session{}, err
		}
	case err != nil:
		return domain.Session{}, err
	default:
		if err := s.link(ctx, &a, id); err != nil {
			return domain.Session{}, err
		}
	}
	if !a.Active {
		return domain.Session{}, domain.Errorf(domain.ErrForbidden, "account is deactivated")
	}
	s.touch(ctx, &a)
	return s.session(a)
}

func (s *IdentityService) provision(ctx context.Context, id domain.ExternalIdentity) (domain.Account, error) {
	sub := id.Subject
	a := domain.Account{
		Email:         id.Email,
		FirstName:     id.GivenName,
		LastName:      id.FamilyName,
		GoogleSubject: &sub,
		Role:          domain.RoleUser,
		Active:        true,
	}
	if s.admins[id.Email] {
		a.Role = domain.RoleAdmin
	}
	err := s.accounts.CreateAccount(ctx, &a)
	if errors.Is(err, domain.ErrDuplicate) {
		// a concurrent first login won the insert
		existing, err := s.accounts.GetAccountByEmail(ctx, id.Email)
		if err != nil {
			return domain.Account{}, err
		}
		return existing, s.link(ctx, &existing, id)
	}
	if err != nil {
		return domain.Account{}, err
	}
	log.Info().Int64("account_id", a.ID).Str("role", string(a.Role)).Msg("account provisioned from google")
	return a, nil
}

// link stores the Google subject on a and upgrades it to admin when listed.
// Roles are never downgraded here.
func (s *IdentityService) link(ctx context.Context, a *domain.Account, id domain.ExternalIdentity) error {
	if a.GoogleSubject == nil || *a.GoogleSubject != id.Subject {
		if err := s.accounts.LinkGoogleSubject(ctx, a.ID, id.Subject); err != nil {
			return err
		}
		sub := id.Subject
		a.GoogleSubject = &sub
	}
	if s.admins[a.Email] && a.Role != domain.RoleAdmin {
		if err := s.accounts.UpdateRole(ctx, a.ID, domain.RoleAdmin); err != nil {
			return err
		}
		a.Role = domain.RoleAdmin
		log.Info().Int64("account_id", a.ID).Msg("account promoted to admin")
	}
	return nil
}

// SetIdentity records the caller's Hotel/Corporate choice and re-issues the token.
func (s *IdentityService) SetIdentity(ctx context.Context, c domain.Claims, raw string) (domain.Session, error) {
	t, err := domain.ParseIdentityType(raw)
	if err != nil {
		return domain.Session{}, err
	}
	a, err := s.accounts.GetAccountByID(ctx, c.AccountID)
	if err != nil {
		return domain.Session{}, err
	}
	if a.ProfileCompleted && a.IdentityType != domain.IdentityUnset && a.IdentityType != t {
		return domain.Session{}, domain.Errorf(domain.ErrConflict, "account already has a completed %s profile", a.IdentityType)
	}
	completed := a.ProfileCompleted && a.IdentityType == t
	if err := s.accounts.SetIdentityType(ctx, a.ID, t, completed); err != nil {
		return domain.Session{}, err
	}
	a.IdentityType, a.ProfileCompleted = t, completed
	log.Info().Int64("account_id", a.ID).Str("identity_type", string(t)).Msg("identity type set")
	return s.session(a)
}

func (s *IdentityService) Profile(ctx context.Context, c domain.Claims) (domain.Account, error) {
	return s.accounts.GetAccountByID(ctx, c.AccountID)
}

func (s *IdentityService) session(a domain.Account) (domain.Session, error) {
	return issueSession(s.tokens, a)
}

func (s *IdentityService) touch(ctx context.Context, a *domain.Account) {
	now := s.now().UTC()
	if err := s.accounts.TouchLogin(ctx, a.ID, now); err != nil {
		log.Warn().Err(err).Int64("account_id", a.ID).Msg("record last login failed")
		return
	}
	a.LastLoginAt = &now
}

func issueSession(t domain.TokenIssuer, a domain.Account) (domain.Session, error) {
	tok, err := t.Issue(domain.ClaimsFor(a))
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: tok, Account: a}, nil
}

func signInResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "denied"
	case errors.Is(err, domain.ErrForbidden):
		return "deactivated"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	}
	return "error"
}
