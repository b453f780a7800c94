package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"stayhub/internal/domain"
)

// Passwords hashes with bcrypt at a fixed cost.
type Passwords struct{ cost int }

func NewPasswords(cost int) *Passwords {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Passwords{cost: cost}
}

func (p *Passwords) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Errorf(domain.ErrValidation, "password is too long")
	}
	return string(b), err
}

func (p *Passwords) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}
