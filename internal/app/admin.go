package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

type AdminService struct {
	stats    domain.StatsRepository
	accounts domain.AccountRepository
}

func NewAdminService(s domain.StatsRepository, a domain.AccountRepository) *AdminService {
	return &AdminService{stats: s, accounts: a}
}

func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.stats.Stats(ctx)
}

// PromoteAdmin grants the admin role to the account registered under email.
// The new role takes effect with the account's next token.
func (s *AdminService) PromoteAdmin(ctx context.Context, email string) (domain.Account, error) {
	a, err := s.accounts.GetAccountByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, domain.Errorf(domain.ErrNotFound, "no account for %s", email)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if a.Role == domain.RoleAdmin {
		return a, nil
	}
	if err := s.accounts.UpdateRole(ctx, a.ID, domain.RoleAdmin); err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.RoleAdmin
	log.Info().Int64("account_id", a.ID).Msg("account promoted to admin")
	return a, nil
}
