package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// hotelOf resolves the caller's hotel profile; without one the caller may not
// act as a hotel.
func hotelOf(ctx context.Context, profiles domain.ProfileRepository, c domain.Claims) (domain.HotelProfile, error) {
	h, err := profiles.GetHotelProfileByAccount(ctx, c.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.HotelProfile{}, domain.Errorf(domain.ErrForbidden, "hotel profile required")
	}
	return h, err
}

func corporateOf(ctx context.Context, profiles domain.ProfileRepository, c domain.Claims) (domain.CorporateProfile, error) {
	p, err := profiles.GetCorporateProfileByAccount(ctx, c.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CorporateProfile{}, domain.Errorf(domain.ErrForbidden, "corporate profile required")
	}
	return p, err
}

type ProfileService struct {
	accounts domain.AccountRepository
	profiles domain.ProfileRepository
	tokens   domain.TokenIssuer
	cache    domain.Cache
}

func NewProfileService(a domain.AccountRepository, p domain.ProfileRepository, t domain.TokenIssuer, c domain.Cache) *ProfileService {
	return &ProfileService{accounts: a, profiles: p, tokens: t, cache: cacheOrNop(c)}
}

// UpsertHotel creates or replaces the caller's hotel profile, marks the account
// as a completed Hotel and re-issues the token.
func (s *ProfileService) UpsertHotel(ctx context.Context, c domain.Claims, p domain.HotelProfile) (domain.HotelProfile, domain.Session, error) {
	a, err := s.claimIdentity(ctx, c, domain.IdentityHotel)
	if err != nil {
		return domain.HotelProfile{}, domain.Session{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.StarRating == 0 {
		p.StarRating = 3
	}
	if err := p.Validate(); err != nil {
		return domain.HotelProfile{}, domain.Session{}, err
	}
	p.AccountID = a.ID
	if err := s.profiles.UpsertHotelProfile(ctx, &p); err != nil {
		return domain.HotelProfile{}, domain.Session{}, err
	}
	invalidateHotel(ctx, s.cache, p.ID)

	sess, err := s.complete(ctx, a, domain.IdentityHotel)
	if err != nil {
		return domain.HotelProfile{}, domain.Session{}, err
	}
	saved, err := s.profiles.GetHotelProfile(ctx, p.ID)
	if err != nil {
		return domain.HotelProfile{}, domain.Session{}, err
	}
	log.Info().Int64("account_id", a.ID).Int64("hotel_id", saved.ID).Msg("hotel profile saved")
	return saved, sess, nil
}

func (s *ProfileService) UpsertCorporate(ctx context.Context, c domain.Claims, p domain.CorporateProfile) (domain.CorporateProfile, domain.Session, error) {
	a, err := s.claimIdentity(ctx, c, domain.IdentityCorporate)
	if err != nil {
		return domain.CorporateProfile{}, domain.Session{}, err
	}
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	if err := p.Validate(); err != nil {
		return domain.CorporateProfile{}, domain.Session{}, err
	}
	p.AccountID = a.ID
	if err := s.profiles.UpsertCorporateProfile(ctx, &p); err != nil {
		return domain.CorporateProfile{}, domain.Session{}, err
	}
	sess, err := s.complete(ctx, a, domain.IdentityCorporate)
	if err != nil {
		return domain.CorporateProfile{}, domain.Session{}, err
	}
	saved, err := s.profiles.GetCorporateProfile(ctx, p.ID)
	if err != nil {
		return domain.CorporateProfile{}, domain.Session{}, err
	}
	log.Info().Int64("account_id", a.ID).Int64("corporate_id", saved.ID).Msg("corporate profile saved")
	return saved, sess, nil
}

func (s *ProfileService) MyHotel(ctx context.Context, c domain.Claims) (domain.HotelProfile, error) {
	return s.profiles.GetHotelProfileByAccount(ctx, c.AccountID)
}

func (s *ProfileService) MyCorporate(ctx context.Context, c domain.Claims) (domain.CorporateProfile, error) {
	return s.profiles.GetCorporateProfileByAccount(ctx, c.AccountID)
}

// claimIdentity loads the caller and refuses accounts bound to the other side.
// The stored identity wins over the token, which may be stale.
func (s *ProfileService) claimIdentity(ctx context.Context, c domain.Claims, want domain.IdentityType) (domain.Account, error) {
	a, err := s.accounts.GetAccountByID(ctx, c.AccountID)
	if err != nil {
		return domain.Account{}, err
	}
	if a.IdentityType != domain.IdentityUnset && a.IdentityType != want {
		return domain.Account{}, domain.Errorf(domain.ErrForbidden, "account is registered as %s", a.IdentityType)
	}
	return a, nil
}

func (s *ProfileService) complete(ctx context.Context, a domain.Account, t domain.IdentityType) (domain.Session, error) {
	if err := s.accounts.SetIdentityType(ctx, a.ID, t, true); err != nil {
		return domain.Session{}, err
	}
	a.IdentityType, a.ProfileCompleted = t, true
	return issueSession(s.tokens, a)
}
